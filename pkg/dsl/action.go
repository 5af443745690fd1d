package dsl

import "github.com/aretw0/wayfinder/pkg/domain"

// ActionBuilder provides a fluent API for configuring an action schema.
type ActionBuilder struct {
	spec    domain.ActionSpec
	builder *DomainBuilder
}

// Param declares a typed parameter. Names carry a leading "?".
func (a *ActionBuilder) Param(name, typ string) *ActionBuilder {
	a.spec.Params = append(a.spec.Params, domain.Param{Name: name, Type: typ})
	return a
}

// Pre adds a positive precondition.
func (a *ActionBuilder) Pre(predicate string, args ...string) *ActionBuilder {
	a.spec.Pre = append(a.spec.Pre, domain.Pos(predicate, args...))
	return a
}

// PreNot adds a negative precondition.
func (a *ActionBuilder) PreNot(predicate string, args ...string) *ActionBuilder {
	a.spec.Pre = append(a.spec.Pre, domain.Neg(predicate, args...))
	return a
}

// Add adds an atom to the add-list.
func (a *ActionBuilder) Add(predicate string, args ...string) *ActionBuilder {
	a.spec.Add = append(a.spec.Add, domain.Pos(predicate, args...))
	return a
}

// Del adds an atom to the delete-list.
func (a *ActionBuilder) Del(predicate string, args ...string) *ActionBuilder {
	a.spec.Del = append(a.spec.Del, domain.Pos(predicate, args...))
	return a
}

// Action moves on to the next action schema.
func (a *ActionBuilder) Action(name string) *ActionBuilder {
	return a.builder.Action(name)
}

// Done returns to the domain builder.
func (a *ActionBuilder) Done() *DomainBuilder {
	return a.builder
}

// Build validates the enclosing domain.
func (a *ActionBuilder) Build() (*domain.Domain, error) {
	return a.builder.Build()
}
