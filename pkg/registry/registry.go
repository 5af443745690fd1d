// Package registry keeps loaded domains by name so problems can be bound
// to the domain they reference.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Registry manages the loaded domains. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	domains map[string]*domain.Domain
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		domains: make(map[string]*domain.Domain),
	}
}

// Register adds a domain to the registry.
// If a domain with the same name exists, it is overwritten.
func (r *Registry) Register(d *domain.Domain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.domains[d.Name] = d
}

// Load validates spec and registers the resulting domain.
func (r *Registry) Load(spec domain.DomainSpec) (*domain.Domain, error) {
	d, err := domain.NewDomain(spec)
	if err != nil {
		return nil, err
	}
	r.Register(d)
	return d, nil
}

// Domain looks up a domain by name.
func (r *Registry) Domain(name string) (*domain.Domain, error) {
	r.mu.RLock()
	d, ok := r.domains[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDomain, name)
	}
	return d, nil
}

// Names returns the registered domain names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.domains))
	for n := range r.domains {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Problem binds spec to the domain it references.
func (r *Registry) Problem(spec domain.ProblemSpec) (*domain.Problem, error) {
	d, err := r.Domain(spec.Domain)
	if err != nil {
		return nil, &domain.ProblemError{
			Problem: spec.Name,
			Issues:  []domain.Issue{{Subject: "domain", Reason: fmt.Sprintf("unknown domain %q", spec.Domain)}},
			Err:     domain.ErrUnknownDomain,
		}
	}
	return domain.NewProblem(d, spec)
}
