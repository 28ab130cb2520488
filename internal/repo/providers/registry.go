package providers

import (
	"fmt"
	"strings"
	"sync"
)

// Registry keeps providers in registration order so result columns render
// in a stable left-to-right order.
type Registry interface {
	Register(p Provider) error
	Get(t ProviderType) (Provider, bool)
	GetByName(name string) (Provider, bool)
	List() []Provider
}

type registry struct {
	mu        sync.RWMutex
	providers map[ProviderType]Provider
	order     []ProviderType
}

func NewRegistry() Registry {
	return &registry{
		providers: make(map[ProviderType]Provider),
	}
}

func (r *registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	t := p.Type()
	if t == "" {
		return fmt.Errorf("provider type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[t]; exists {
		return fmt.Errorf("provider type %s already registered", t)
	}
	r.providers[t] = p
	r.order = append(r.order, t)
	return nil
}

func (r *registry) Get(t ProviderType) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[t]
	return p, ok
}

// GetByName looks a provider up by case-insensitive name.
func (r *registry) GetByName(name string) (Provider, bool) {
	return r.Get(ProviderType(strings.ToLower(strings.TrimSpace(name))))
}

func (r *registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.providers[t])
	}
	return out
}
