package sheetio

import (
	"fmt"
	"slices"
	"sync"
)

// ExporterFactory constructs a fresh Exporter for one export call.
type ExporterFactory func() (Exporter, error)

// Registry maps exporter names to factories. It replaces looking exporters
// up by type name at runtime.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ExporterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ExporterFactory)}
}

// Register adds factory under name. Registering a name twice or a nil
// factory is a configuration error.
func (r *Registry) Register(name string, factory ExporterFactory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: name and factory are required", ErrInvalidExporter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s is already registered", ErrInvalidExporter, name)
	}
	r.factories[name] = factory
	return nil
}

// Lookup builds the exporter registered under name.
func (r *Registry) Lookup(name string) (Exporter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, name)
	}

	exp, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidExporter, name, err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrInvalidExporter, name)
	}
	return exp, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
