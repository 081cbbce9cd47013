package container

import (
	"github.com/kochabonline/boot/errors"
)

// Descriptor declares how to auto-construct a service: its key, the keys it
// depends on, and a build function receiving the resolved dependencies in
// declared order. Registering a descriptor marks the service as eligible for
// auto-wiring; it binds no factory and carries no behavior of its own.
type Descriptor struct {
	Key          string
	Dependencies []string
	Build        func(c *Container, deps []any) (any, error)
}

// Describe registers a descriptor for later use by Make.
func (c *Container) Describe(d Descriptor) error {
	if d.Key == "" {
		return errors.BadRequest("descriptor key must not be empty")
	}
	if d.Build == nil {
		return errors.BadRequest("descriptor %s has a nil build function", d.Key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.descriptors[d.Key]; exists {
		return errors.Conflict("descriptor %s is already registered", d.Key)
	}

	c.descriptors[d.Key] = d
	return nil
}

// Described reports whether key has a descriptor.
func (c *Container) Described(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.descriptors[key]
	return exists
}

// Make constructs the service for key with full auto-wiring and no prior
// binding required. A bound key resolves from the container; otherwise its
// descriptor is built, with each declared dependency resolved the same way
// recursively. A self-referential chain among unbound descriptors is not
// detected and does not terminate; only the provider graph is cycle checked.
func (c *Container) Make(key string) (any, error) {
	if c.Has(key) {
		return c.Resolve(key)
	}

	c.mu.RLock()
	d, exists := c.descriptors[key]
	c.mu.RUnlock()

	if !exists {
		return nil, errors.NotFound("service %s has neither a binding nor a descriptor", key)
	}

	deps := make([]any, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		instance, err := c.Make(dep)
		if err != nil {
			return nil, errors.Wrap(err, 424, "building %s: dependency %s failed", key, dep)
		}
		deps[i] = instance
	}

	return d.Build(c, deps)
}
