package di

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrProviderNotFound is reported when resolving a name no provider was
	// registered for.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrDuplicateProvider is reported when registering a name twice.
	ErrDuplicateProvider = errors.New("provider already registered")

	// ErrCircularDependency is reported when a provider depends on itself,
	// directly or transitively. The error message carries the full cycle
	// path.
	ErrCircularDependency = errors.New("circular dependency")
)

// Provider constructs a service. Dependencies are resolved through the
// passed resolver, which tracks the resolution path for cycle detection.
type Provider func(r *Resolver) (any, error)

// Container is a lazy singleton registry: each provider runs at most once,
// on first resolution, and the instance is cached for the container's
// lifetime. Safe for concurrent use.
type Container struct {
	mu        sync.Mutex
	providers map[string]Provider
	instances map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		providers: make(map[string]Provider),
		instances: make(map[string]any),
	}
}

// Register adds a provider under name. Registering the same name twice is an
// error; services are identities, not layers.
func (c *Container) Register(name string, p Provider) error {
	if name == "" {
		return errors.New("provider name must not be empty")
	}
	if p == nil {
		return errors.New("provider must not be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}
	c.providers[name] = p
	return nil
}

// Resolve returns the instance registered under name, constructing it (and
// its transitive dependencies) on first use.
func (c *Container) Resolve(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (&Resolver{c: c}).resolve(name)
}

// MustResolve is Resolve that panics on failure, for wiring at startup where
// a missing dependency is fatal anyway.
func (c *Container) MustResolve(name string) any {
	v, err := c.Resolve(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Resolver resolves dependencies inside a provider call. It carries the
// active resolution path; requesting a name already on the path is a cycle.
type Resolver struct {
	c     *Container
	stack []string
}

// Resolve returns the instance registered under name.
func (r *Resolver) Resolve(name string) (any, error) {
	return r.resolve(name)
}

func (r *Resolver) resolve(name string) (any, error) {
	if v, ok := r.c.instances[name]; ok {
		return v, nil
	}

	for _, active := range r.stack {
		if active == name {
			return nil, fmt.Errorf("%w: %s -> %s",
				ErrCircularDependency, strings.Join(r.stack, " -> "), name)
		}
	}

	p, ok := r.c.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	next := &Resolver{c: r.c, stack: append(r.stack, name)}
	v, err := p(next)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}

	r.c.instances[name] = v
	return v, nil
}

// Resolve returns the instance under name asserted to type T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("service %s is %T, not %T", name, v, zero)
	}
	return typed, nil
}

// ResolveAs is Resolve[T] against an in-provider resolver.
func ResolveAs[T any](r *Resolver, name string) (T, error) {
	var zero T
	v, err := r.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("service %s is %T, not %T", name, v, zero)
	}
	return typed, nil
}
