package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/contract"
	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
)

// PolicyFactory builds a contract policy from its terms and the rate table
type PolicyFactory func(terms contract.Terms, rates contract.Rates) (contract.Policy, error)

// PolicyRegistry maps contract kinds to the factories that build them
type PolicyRegistry struct {
	mu        sync.RWMutex
	factories map[contract.Kind]PolicyFactory
	rates     contract.Rates
}

// NewPolicyRegistry creates an empty registry that builds policies with rates
func NewPolicyRegistry(rates contract.Rates) *PolicyRegistry {
	return &PolicyRegistry{
		factories: make(map[contract.Kind]PolicyFactory),
		rates:     rates,
	}
}

// Register registers a factory for kind
func (r *PolicyRegistry) Register(kind contract.Kind, factory PolicyFactory) error {
	if factory == nil {
		return fmt.Errorf("%w: nil factory for policy '%s'", shared.ErrInvalidInput, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: policy '%s' already registered", shared.ErrAlreadyExists, kind)
	}
	r.factories[kind] = factory
	return nil
}

// Build creates a new policy of the given kind
func (r *PolicyRegistry) Build(kind contract.Kind, terms contract.Terms) (contract.Policy, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	rates := r.rates
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: policy '%s' not found", shared.ErrNotFound, kind)
	}
	return factory(terms, rates)
}

// Rates returns the rate table policies are built with
func (r *PolicyRegistry) Rates() contract.Rates {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rates
}

// List returns all registered kinds, sorted
func (r *PolicyRegistry) List() []contract.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]contract.Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
