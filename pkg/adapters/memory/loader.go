package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Loader implements ports.DefinitionLoader over specifications held in memory.
// Definitions are keyed by their Name.
type Loader struct {
	mu       sync.RWMutex
	domains  map[string]domain.DomainSpec
	problems map[string]domain.ProblemSpec
}

// NewLoader creates a loader seeded with the given domains.
func NewLoader(domains ...domain.DomainSpec) *Loader {
	l := &Loader{
		domains:  make(map[string]domain.DomainSpec),
		problems: make(map[string]domain.ProblemSpec),
	}
	for _, d := range domains {
		l.domains[d.Name] = d
	}
	return l
}

// AddDomain stores a domain specification under its name.
func (l *Loader) AddDomain(spec domain.DomainSpec) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.domains[spec.Name] = spec
}

// AddProblem stores a problem specification under its name.
func (l *Loader) AddProblem(spec domain.ProblemSpec) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.problems[spec.Name] = spec
}

// LoadDomain returns the domain stored under id.
func (l *Loader) LoadDomain(ctx context.Context, id string) (domain.DomainSpec, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	spec, ok := l.domains[id]
	if !ok {
		return domain.DomainSpec{}, fmt.Errorf("%w: domain %s", domain.ErrDefinitionNotFound, id)
	}
	return spec, nil
}

// LoadProblem returns the problem stored under id.
func (l *Loader) LoadProblem(ctx context.Context, id string) (domain.ProblemSpec, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	spec, ok := l.problems[id]
	if !ok {
		return domain.ProblemSpec{}, fmt.Errorf("%w: problem %s", domain.ErrDefinitionNotFound, id)
	}
	return spec, nil
}

// List returns every stored definition, domains first, sorted by ID.
func (l *Loader) List(ctx context.Context) ([]ports.DefinitionRef, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	refs := make([]ports.DefinitionRef, 0, len(l.domains)+len(l.problems))
	for id, d := range l.domains {
		refs = append(refs, ports.DefinitionRef{ID: id, Kind: ports.KindDomain, Name: d.Name})
	}
	for id, p := range l.problems {
		refs = append(refs, ports.DefinitionRef{ID: id, Kind: ports.KindProblem, Name: p.Name})
	}
	sort.Slice(refs, func(i, j int) bool { // Deterministic order
		if refs[i].Kind != refs[j].Kind {
			return refs[i].Kind == ports.KindDomain
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}
