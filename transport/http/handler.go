package http

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// GinRegister is implemented by handlers that attach routes to a router.
type GinRegister interface {
	Register(r gin.IRouter)
}

// GinHandler collects route registrars so an application can assemble its
// router from independently built handlers.
type GinHandler struct {
	pool []GinRegister
	mu   sync.RWMutex
}

func NewHandler() *GinHandler {
	return &GinHandler{
		pool: make([]GinRegister, 0),
	}
}

// Register attaches every collected handler to the given route group.
func (h *GinHandler) Register(rg *gin.RouterGroup) {
	if rg == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, handler := range h.pool {
		if handler != nil {
			handler.Register(rg)
		}
	}
}

// Add appends one or more handlers, skipping nil entries.
func (h *GinHandler) Add(handlers ...GinRegister) {
	if len(handlers) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, handler := range handlers {
		if handler != nil {
			h.pool = append(h.pool, handler)
		}
	}
}

func (h *GinHandler) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pool)
}

func (h *GinHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pool = h.pool[:0]
}
