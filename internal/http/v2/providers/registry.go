package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new provider instance.
type Factory func(cfg Config) (Provider, error)

// Registry manages provider factories and instances.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Provider),
	}
}

// RegisterFactory registers a factory for a provider name.
// This should be called at startup for each supported provider.
func (r *Registry) RegisterFactory(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Enable construye y guarda la instancia del provider con cfg.
func (r *Registry) Enable(name string, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.factories[name]
	if !ok {
		return fmt.Errorf("provider not registered: %s", name)
	}
	p, err := f(cfg)
	if err != nil {
		return fmt.Errorf("failed to create provider %s: %w", name, err)
	}
	r.instances[name] = p
	return nil
}

// Get retorna el provider habilitado o false.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.instances[name]
	return p, ok
}

// Enabled returns the sorted names of enabled providers.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
