package domain

import (
	"fmt"
	"strings"
)

// GoalLiteral is a ground, possibly negated, goal condition.
type GoalLiteral struct {
	Atom    Atom
	Negated bool
}

// Problem is a validated problem instance bound to its Domain.
// Object handles of domain constants come first, followed by the
// problem's own objects in declaration order.
type Problem struct {
	Name string

	spec        ProblemSpec
	domain      *Domain
	objects     []Object
	objectIndex map[string]ObjectID
	init        []Atom
	goal        []GoalLiteral
}

// NewProblem validates spec against d. All defects are collected into a
// single *ProblemError.
func NewProblem(d *Domain, spec ProblemSpec) (*Problem, error) {
	p := &Problem{
		Name:        spec.Name,
		spec:        spec,
		domain:      d,
		objectIndex: make(map[string]ObjectID),
	}
	var issues []Issue
	report := func(subject, format string, args ...any) {
		issues = append(issues, Issue{Subject: subject, Reason: fmt.Sprintf(format, args...)})
	}

	if spec.Domain != d.Name {
		report("domain", "problem references domain %q, loaded domain is %q", spec.Domain, d.Name)
	}

	for _, c := range d.constants {
		p.objects = append(p.objects, c)
		p.objectIndex[c.Name] = c.ID
	}
	for _, o := range spec.Objects {
		subject := "object " + o.Name
		if strings.TrimSpace(o.Name) == "" || strings.HasPrefix(o.Name, "?") {
			report(subject, "invalid object name")
			continue
		}
		if _, dup := p.objectIndex[o.Name]; dup {
			if _, isConst := d.constIndex[o.Name]; isConst {
				report(subject, "redeclares a domain constant")
			} else {
				report(subject, "duplicate object")
			}
			continue
		}
		t, ok := d.lookupType(o.Type)
		if !ok {
			report(subject, "unknown type %q", o.Type)
			continue
		}
		id := ObjectID(len(p.objects))
		p.objects = append(p.objects, Object{ID: id, Name: o.Name, Type: t})
		p.objectIndex[o.Name] = id
	}

	seen := make(map[string]bool)
	for _, l := range spec.Init {
		subject := "init " + l.String()
		if l.Negated {
			report(subject, "initial atoms must be positive")
			continue
		}
		atom, err := p.ground(l)
		if err != nil {
			report(subject, "%v", err)
			continue
		}
		key := p.FormatAtom(atom)
		if seen[key] {
			continue
		}
		seen[key] = true
		p.init = append(p.init, atom)
	}

	for _, l := range spec.Goal {
		subject := "goal " + l.String()
		atom, err := p.ground(l)
		if err != nil {
			report(subject, "%v", err)
			continue
		}
		p.goal = append(p.goal, GoalLiteral{Atom: atom, Negated: l.Negated})
	}

	if len(issues) > 0 {
		return nil, &ProblemError{Problem: spec.Name, Issues: issues}
	}
	return p, nil
}

// ground resolves a literal whose arguments must all be declared objects.
func (p *Problem) ground(l Literal) (Atom, error) {
	pred, ok := p.domain.Predicate(l.Predicate)
	if !ok {
		return Atom{}, fmt.Errorf("undeclared predicate %q", l.Predicate)
	}
	if len(l.Args) != len(pred.Params) {
		return Atom{}, fmt.Errorf("predicate %s expects %d arguments, got %d", pred.Name, len(pred.Params), len(l.Args))
	}
	atom := Atom{Predicate: pred.ID, Args: make([]ObjectID, len(l.Args))}
	for i, arg := range l.Args {
		if strings.HasPrefix(arg, "?") {
			return Atom{}, fmt.Errorf("variable %s in ground atom", arg)
		}
		id, ok := p.objectIndex[arg]
		if !ok {
			return Atom{}, fmt.Errorf("undeclared object %q", arg)
		}
		if !p.domain.IsSubtype(p.objects[id].Type, pred.Params[i]) {
			return Atom{}, fmt.Errorf("object %s (%s) is not a %s", arg,
				p.domain.TypeName(p.objects[id].Type), p.domain.TypeName(pred.Params[i]))
		}
		atom.Args[i] = id
	}
	return atom, nil
}

// Atom resolves a ground literal by names, applying the same checks as
// NewProblem. The negation flag is ignored.
func (p *Problem) Atom(l Literal) (Atom, error) {
	return p.ground(l)
}

// Domain returns the domain the problem is bound to.
func (p *Problem) Domain() *Domain {
	return p.domain
}

// Spec returns the specification the problem was built from.
func (p *Problem) Spec() ProblemSpec {
	return p.spec
}

// Objects returns constants and objects in handle order.
func (p *Problem) Objects() []Object {
	return append([]Object(nil), p.objects...)
}

// Object resolves an object or constant by name.
func (p *Problem) Object(name string) (Object, bool) {
	id, ok := p.objectIndex[name]
	if !ok {
		return Object{}, false
	}
	return p.objects[id], true
}

// ObjectByID returns the object for a handle.
func (p *Problem) ObjectByID(id ObjectID) Object {
	return p.objects[id]
}

// ObjectsOfType returns every object whose type is t or one of its
// subtypes, in handle order.
func (p *Problem) ObjectsOfType(t TypeID) []ObjectID {
	var out []ObjectID
	for _, o := range p.objects {
		if p.domain.IsSubtype(o.Type, t) {
			out = append(out, o.ID)
		}
	}
	return out
}

// Init returns the initial atoms without duplicates.
func (p *Problem) Init() []Atom {
	return append([]Atom(nil), p.init...)
}

// Goal returns the goal literals.
func (p *Problem) Goal() []GoalLiteral {
	return append([]GoalLiteral(nil), p.goal...)
}

// FormatAtom renders an atom as "(pred a b)".
func (p *Problem) FormatAtom(a Atom) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(p.domain.predicates[a.Predicate].Name)
	for _, arg := range a.Args {
		b.WriteByte(' ')
		b.WriteString(p.objects[arg].Name)
	}
	b.WriteByte(')')
	return b.String()
}

// FormatGoal renders a goal literal, wrapping negations in "(not ...)".
func (p *Problem) FormatGoal(g GoalLiteral) string {
	if g.Negated {
		return "(not " + p.FormatAtom(g.Atom) + ")"
	}
	return p.FormatAtom(g.Atom)
}
