package llm

import (
	"fmt"
	"sync"

	domainllm "prdgen/internal/domain/services/llm"
)

// Registry routes model names to the provider that serves them.
type Registry struct {
	mu        sync.RWMutex
	providers []domainllm.Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider. Providers are consulted in registration order.
func (r *Registry) Register(p domainllm.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Resolve returns the first provider that supports the given model.
func (r *Registry) Resolve(model string) (domainllm.Provider, error) {
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("no provider registered for model '%s'", model)
}
