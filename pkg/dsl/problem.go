package dsl

import "github.com/aretw0/wayfinder/pkg/domain"

// ProblemBuilder manages the problem construction.
type ProblemBuilder struct {
	spec domain.ProblemSpec
}

// NewProblem creates a builder for a problem of the named domain.
func NewProblem(name, domainName string) *ProblemBuilder {
	return &ProblemBuilder{spec: domain.ProblemSpec{Name: name, Domain: domainName}}
}

// Objects declares objects of one type.
func (p *ProblemBuilder) Objects(typ string, names ...string) *ProblemBuilder {
	for _, n := range names {
		p.spec.Objects = append(p.spec.Objects, domain.ObjectSpec{Name: n, Type: typ})
	}
	return p
}

// Init adds an atom to the initial state.
func (p *ProblemBuilder) Init(predicate string, args ...string) *ProblemBuilder {
	p.spec.Init = append(p.spec.Init, domain.Pos(predicate, args...))
	return p
}

// Link adds (predicate a b) and (predicate b a) to the initial state.
func (p *ProblemBuilder) Link(predicate, a, b string) *ProblemBuilder {
	return p.Init(predicate, a, b).Init(predicate, b, a)
}

// Goal adds a positive goal literal.
func (p *ProblemBuilder) Goal(predicate string, args ...string) *ProblemBuilder {
	p.spec.Goal = append(p.spec.Goal, domain.Pos(predicate, args...))
	return p
}

// GoalNot adds a negative goal literal.
func (p *ProblemBuilder) GoalNot(predicate string, args ...string) *ProblemBuilder {
	p.spec.Goal = append(p.spec.Goal, domain.Neg(predicate, args...))
	return p
}

// Spec returns the assembled, unvalidated specification.
func (p *ProblemBuilder) Spec() domain.ProblemSpec {
	spec := p.spec
	spec.Objects = append([]domain.ObjectSpec(nil), p.spec.Objects...)
	spec.Init = append([]domain.Literal(nil), p.spec.Init...)
	spec.Goal = append([]domain.Literal(nil), p.spec.Goal...)
	return spec
}

// Build validates the problem against d.
func (p *ProblemBuilder) Build(d *domain.Domain) (*domain.Problem, error) {
	return domain.NewProblem(d, p.Spec())
}
