package dsl

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// DomainBuilder manages the domain construction.
type DomainBuilder struct {
	spec    domain.DomainSpec
	actions []*ActionBuilder
}

// NewDomain creates a new domain builder.
func NewDomain(name string) *DomainBuilder {
	return &DomainBuilder{spec: domain.DomainSpec{Name: name}}
}

// Type declares a type. The optional parent defaults to "object".
func (b *DomainBuilder) Type(name string, parent ...string) *DomainBuilder {
	t := domain.TypeSpec{Name: name}
	if len(parent) > 0 {
		t.Parent = parent[0]
	}
	b.spec.Types = append(b.spec.Types, t)
	return b
}

// Constant declares an object shared by every problem of the domain.
func (b *DomainBuilder) Constant(name, typ string) *DomainBuilder {
	b.spec.Constants = append(b.spec.Constants, domain.ObjectSpec{Name: name, Type: typ})
	return b
}

// Predicate declares a predicate over the given parameter types.
// Parameters are named ?x1, ?x2 and so on.
func (b *DomainBuilder) Predicate(name string, types ...string) *DomainBuilder {
	p := domain.PredicateSpec{Name: name}
	for i, t := range types {
		p.Params = append(p.Params, domain.Param{Name: fmt.Sprintf("?x%d", i+1), Type: t})
	}
	b.spec.Predicates = append(b.spec.Predicates, p)
	return b
}

// Action starts (or resumes) the definition of an action schema.
func (b *DomainBuilder) Action(name string) *ActionBuilder {
	for _, a := range b.actions {
		if a.spec.Name == name {
			return a
		}
	}
	a := &ActionBuilder{spec: domain.ActionSpec{Name: name}, builder: b}
	b.actions = append(b.actions, a)
	return a
}

// Spec returns the assembled, unvalidated specification.
func (b *DomainBuilder) Spec() domain.DomainSpec {
	spec := b.spec
	spec.Types = append([]domain.TypeSpec(nil), b.spec.Types...)
	spec.Constants = append([]domain.ObjectSpec(nil), b.spec.Constants...)
	spec.Predicates = append([]domain.PredicateSpec(nil), b.spec.Predicates...)
	spec.Actions = make([]domain.ActionSpec, len(b.actions))
	for i, a := range b.actions {
		spec.Actions[i] = a.spec
	}
	return spec
}

// Build validates the domain.
func (b *DomainBuilder) Build() (*domain.Domain, error) {
	return domain.NewDomain(b.Spec())
}
