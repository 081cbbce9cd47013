package container

import (
	"sync"

	"github.com/kochabonline/boot/errors"
)

// FactoryFunc builds one service instance. The container is passed in so a
// factory can resolve the services it depends on.
type FactoryFunc func(c *Container) (any, error)

// binding is one registered factory. For singletons the factory result is
// cached through once, so it executes at most once per container lifetime.
type binding struct {
	key       string
	factory   FactoryFunc
	singleton bool
	once      sync.Once
	instance  any
	err       error
}

// Container is a keyed service registry supporting transient and singleton
// resolution plus descriptor driven auto-wiring. Map access is guarded by a
// read-write mutex; factories always run outside the lock, so a factory may
// resolve other keys from the same container.
type Container struct {
	mu          sync.RWMutex
	bindings    map[string]*binding
	descriptors map[string]Descriptor
}

func New() *Container {
	return &Container{
		bindings:    make(map[string]*binding),
		descriptors: make(map[string]Descriptor),
	}
}

// Register binds a transient factory under key. Every Resolve call runs the
// factory fresh.
func (c *Container) Register(key string, factory FactoryFunc) error {
	return c.bind(key, factory, false)
}

// Singleton binds a singleton factory under key. The factory runs lazily on
// the first Resolve and its result is shared by every subsequent call.
func (c *Container) Singleton(key string, factory FactoryFunc) error {
	return c.bind(key, factory, true)
}

func (c *Container) bind(key string, factory FactoryFunc, singleton bool) error {
	if key == "" {
		return errors.BadRequest("service key must not be empty")
	}
	if factory == nil {
		return errors.BadRequest("service %s has a nil factory", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[key]; exists {
		return errors.Conflict("service %s is already registered", key)
	}

	c.bindings[key] = &binding{key: key, factory: factory, singleton: singleton}
	return nil
}

// Resolve returns the instance bound under key. Unknown keys fail with a
// not-registered error.
func (c *Container) Resolve(key string) (any, error) {
	c.mu.RLock()
	b, exists := c.bindings[key]
	c.mu.RUnlock()

	if !exists {
		return nil, errors.NotFound("service %s is not registered", key)
	}

	if b.singleton {
		b.once.Do(func() {
			b.instance, b.err = b.factory(c)
		})
		return b.instance, b.err
	}

	return b.factory(c)
}

// Has reports whether key has a binding. No side effects.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.bindings[key]
	return exists
}

// Count returns the number of registered bindings.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.bindings)
}
