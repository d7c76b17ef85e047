package effect

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one unprepared effect instance.
type Factory func() (Effect, error)

// Registry maps effect type names to factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateEffect = errors.New("duplicate effect type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given type name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("effect: empty type name")
	}

	if factory == nil {
		return errors.New("effect: nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("effect: %w: %s", errDuplicateEffect, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic("effect registry: " + err.Error())
	}
}

// Lookup returns the factory for the given type name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// New builds an effect of the given type.
func (r *Registry) New(name string) (Effect, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("effect: unknown type %q", name)
	}

	return factory()
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
