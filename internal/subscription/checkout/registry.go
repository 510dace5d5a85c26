package checkout

import (
	"strings"

	"github.com/leavehub/leavehub/internal/subscription/domain"
)

// Registry resolves checkout adapters by provider name.
type Registry struct {
	adapters map[string]domain.CheckoutAdapter
}

func NewRegistry(adapters ...domain.CheckoutAdapter) *Registry {
	registry := &Registry{adapters: map[string]domain.CheckoutAdapter{}}
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		provider := strings.ToLower(strings.TrimSpace(adapter.Provider()))
		if provider == "" {
			continue
		}
		registry.adapters[provider] = adapter
	}
	return registry
}

func (r *Registry) ProviderExists(provider string) bool {
	if r == nil {
		return false
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	_, ok := r.adapters[provider]
	return ok
}

func (r *Registry) Adapter(provider string) (domain.CheckoutAdapter, error) {
	if r == nil {
		return nil, domain.ErrProviderNotFound
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return adapter, nil
}
