package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes plugins by name. A name is registered once; its version
// is reported in listings.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p. Invalid metadata and names already taken are errors.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	metadata := p.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.plugins[metadata.Name]; ok {
		return fmt.Errorf("plugin %s already registered as %s", metadata.Name, existing.Metadata())
	}
	r.plugins[metadata.Name] = p
	return nil
}

// Has reports whether a plugin is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.plugins[name]
	return ok
}

// ListByType returns the plugins of type t sorted by name.
func (r *Registry) ListByType(t PluginType) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Plugin
	for _, p := range r.plugins {
		if p.Metadata().Type == t {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metadata().Name < out[j].Metadata().Name })
	return out
}
