package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockGinRegister struct {
	registered bool
	path       string
}

func (m *mockGinRegister) Register(r gin.IRouter) {
	m.registered = true
	r.GET(m.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
}

func TestNewHandler(t *testing.T) {
	handler := NewHandler()

	assert.NotNil(t, handler)
	assert.Equal(t, 0, handler.Count())
}

func TestGinHandlerAdd(t *testing.T) {
	tests := []struct {
		name     string
		handlers []GinRegister
		want     int
	}{
		{"single handler", []GinRegister{&mockGinRegister{path: "/a"}}, 1},
		{"multiple handlers", []GinRegister{&mockGinRegister{path: "/a"}, &mockGinRegister{path: "/b"}}, 2},
		{"empty list", []GinRegister{}, 0},
		{"nil entries skipped", []GinRegister{&mockGinRegister{path: "/a"}, nil, &mockGinRegister{path: "/b"}}, 2},
		{"all nil", []GinRegister{nil, nil}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler()
			handler.Add(tt.handlers...)
			assert.Equal(t, tt.want, handler.Count())
		})
	}
}

func TestGinHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	first := &mockGinRegister{path: "/first"}
	second := &mockGinRegister{path: "/second"}

	handler := NewHandler()
	handler.Add(first, second)
	handler.Register(&r.RouterGroup)

	assert.True(t, first.registered)
	assert.True(t, second.registered)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/first", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGinHandlerRegisterNilGroup(t *testing.T) {
	handler := NewHandler()
	handler.Add(&mockGinRegister{path: "/a"})

	// must not panic
	handler.Register(nil)
}

func TestGinHandlerClear(t *testing.T) {
	handler := NewHandler()
	handler.Add(&mockGinRegister{path: "/a"}, &mockGinRegister{path: "/b"})
	handler.Clear()

	assert.Equal(t, 0, handler.Count())
}
