package domain

import (
	"fmt"
	"strings"
)

// RootType is the implicit ancestor of every type.
const RootType = "object"

// Integer handles resolved at load time.
type (
	TypeID      int
	PredicateID int
	ObjectID    int
)

// NoType marks the absent parent of the root type.
const NoType TypeID = -1

// Type is a resolved type node.
type Type struct {
	ID     TypeID
	Name   string
	Parent TypeID
}

// Predicate is a resolved predicate signature.
type Predicate struct {
	ID     PredicateID
	Name   string
	Params []TypeID
}

// Object is a resolved object or constant.
type Object struct {
	ID   ObjectID
	Name string
	Type TypeID
}

// Term is an argument of a schema literal: either a parameter index or a
// fixed object (a domain constant).
type Term struct {
	Var    int // parameter index, or -1 when Object is set
	Object ObjectID
}

// SchemaLiteral is a literal of an action schema with resolved handles.
type SchemaLiteral struct {
	Predicate PredicateID
	Terms     []Term
	Negated   bool
}

// Instantiate binds the literal's variables to args.
func (l SchemaLiteral) Instantiate(args []ObjectID) Atom {
	bound := make([]ObjectID, len(l.Terms))
	for i, t := range l.Terms {
		if t.Var >= 0 {
			bound[i] = args[t.Var]
		} else {
			bound[i] = t.Object
		}
	}
	return Atom{Predicate: l.Predicate, Args: bound}
}

// Action is a resolved action schema.
type Action struct {
	Name       string
	ParamNames []string
	ParamTypes []TypeID
	Pre        []SchemaLiteral
	Add        []SchemaLiteral
	Del        []SchemaLiteral
}

// Arity returns the number of parameters.
func (a *Action) Arity() int {
	return len(a.ParamTypes)
}

// Atom is a ground predicate application.
type Atom struct {
	Predicate PredicateID
	Args      []ObjectID
}

// Domain is a validated, immutable planning domain.
type Domain struct {
	Name string

	spec        DomainSpec
	types       []Type
	typeIndex   map[string]TypeID
	predicates  []Predicate
	predIndex   map[string]PredicateID
	actions     []*Action
	actionIndex map[string]int
	constants   []Object
	constIndex  map[string]ObjectID
	static      []bool
}

// NewDomain validates spec and resolves every name to a handle.
// All defects are collected into a single *SchemaError.
func NewDomain(spec DomainSpec) (*Domain, error) {
	d := &Domain{
		Name:        spec.Name,
		spec:        spec,
		typeIndex:   map[string]TypeID{RootType: 0},
		predIndex:   make(map[string]PredicateID),
		actionIndex: make(map[string]int),
		constIndex:  make(map[string]ObjectID),
	}
	var issues []Issue
	report := func(subject, format string, args ...any) {
		issues = append(issues, Issue{Subject: subject, Reason: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(spec.Name) == "" {
		report("domain", "name is required")
	}

	d.resolveTypes(spec.Types, report)

	for _, c := range spec.Constants {
		subject := "constant " + c.Name
		if _, dup := d.constIndex[c.Name]; dup {
			report(subject, "duplicate constant")
			continue
		}
		t, ok := d.lookupType(c.Type)
		if !ok {
			report(subject, "unknown type %q", c.Type)
			continue
		}
		id := ObjectID(len(d.constants))
		d.constants = append(d.constants, Object{ID: id, Name: c.Name, Type: t})
		d.constIndex[c.Name] = id
	}

	for _, p := range spec.Predicates {
		subject := "predicate " + p.Name
		if _, dup := d.predIndex[p.Name]; dup {
			report(subject, "duplicate predicate")
			continue
		}
		pred := Predicate{ID: PredicateID(len(d.predicates)), Name: p.Name}
		for _, param := range p.Params {
			t, ok := d.lookupType(param.Type)
			if !ok {
				report(subject, "parameter %s has unknown type %q", param.Name, param.Type)
				t = 0
			}
			pred.Params = append(pred.Params, t)
		}
		d.predIndex[p.Name] = pred.ID
		d.predicates = append(d.predicates, pred)
	}

	for _, a := range spec.Actions {
		subject := "action " + a.Name
		if _, dup := d.actionIndex[a.Name]; dup {
			report(subject, "duplicate action")
			continue
		}
		act := d.resolveAction(a, func(format string, args ...any) { report(subject, format, args...) })
		d.actionIndex[a.Name] = len(d.actions)
		d.actions = append(d.actions, act)
	}

	if len(issues) > 0 {
		return nil, &SchemaError{Domain: spec.Name, Issues: issues}
	}

	d.static = make([]bool, len(d.predicates))
	for i := range d.static {
		d.static[i] = true
	}
	for _, a := range d.actions {
		for _, l := range append(append([]SchemaLiteral(nil), a.Add...), a.Del...) {
			d.static[l.Predicate] = false
		}
	}
	return d, nil
}

func (d *Domain) resolveTypes(specs []TypeSpec, report func(string, string, ...any)) {
	d.types = []Type{{ID: 0, Name: RootType, Parent: NoType}}
	parents := make(map[TypeID]string)
	for _, t := range specs {
		if t.Name == RootType {
			if t.Parent != "" {
				report("type "+RootType, "root type cannot have a parent")
			}
			continue
		}
		if _, dup := d.typeIndex[t.Name]; dup {
			report("type "+t.Name, "duplicate type")
			continue
		}
		id := TypeID(len(d.types))
		d.types = append(d.types, Type{ID: id, Name: t.Name, Parent: 0})
		d.typeIndex[t.Name] = id
		parents[id] = t.Parent
	}
	for id := TypeID(1); int(id) < len(d.types); id++ {
		parent := parents[id]
		if parent == "" {
			continue
		}
		pid, ok := d.typeIndex[parent]
		if !ok {
			report("type "+d.types[id].Name, "unknown supertype %q", parent)
			continue
		}
		d.types[id].Parent = pid
	}
	for id := range d.types {
		seen := make(map[TypeID]bool)
		for cur := TypeID(id); cur != NoType; cur = d.types[cur].Parent {
			if seen[cur] {
				if cur == TypeID(id) {
					report("type "+d.types[id].Name, "cyclic type hierarchy")
					// Break the cycle so later subtype checks terminate.
					d.types[id].Parent = 0
				}
				break
			}
			seen[cur] = true
		}
	}
}

func (d *Domain) resolveAction(a ActionSpec, report func(string, ...any)) *Action {
	act := &Action{Name: a.Name}
	params := make(map[string]int)
	for i, p := range a.Params {
		if !strings.HasPrefix(p.Name, "?") {
			report("parameter %q must start with '?'", p.Name)
		}
		if _, dup := params[p.Name]; dup {
			report("duplicate parameter %s", p.Name)
		}
		t, ok := d.lookupType(p.Type)
		if !ok {
			report("parameter %s has unknown type %q", p.Name, p.Type)
			t = 0
		}
		params[p.Name] = i
		act.ParamNames = append(act.ParamNames, p.Name)
		act.ParamTypes = append(act.ParamTypes, t)
	}

	resolve := func(section string, lits []Literal, allowNegated bool) []SchemaLiteral {
		var out []SchemaLiteral
		for _, l := range lits {
			where := fmt.Sprintf("%s literal %s", section, l)
			if l.Negated && !allowNegated {
				report("%s: effects must be positive", where)
				continue
			}
			pid, ok := d.predIndex[l.Predicate]
			if !ok {
				report("%s: undeclared predicate %q", where, l.Predicate)
				continue
			}
			pred := d.predicates[pid]
			if len(l.Args) != len(pred.Params) {
				report("%s: predicate %s expects %d arguments, got %d", where, pred.Name, len(pred.Params), len(l.Args))
				continue
			}
			sl := SchemaLiteral{Predicate: pid, Negated: l.Negated}
			valid := true
			for i, arg := range l.Args {
				slot := pred.Params[i]
				if strings.HasPrefix(arg, "?") {
					idx, ok := params[arg]
					if !ok {
						report("%s: undeclared variable %s", where, arg)
						valid = false
						continue
					}
					if !d.IsSubtype(act.ParamTypes[idx], slot) {
						report("%s: argument %d (%s - %s) is not a %s", where, i+1, arg,
							d.types[act.ParamTypes[idx]].Name, d.types[slot].Name)
						valid = false
						continue
					}
					sl.Terms = append(sl.Terms, Term{Var: idx})
					continue
				}
				cid, ok := d.constIndex[arg]
				if !ok {
					report("%s: unknown constant %q", where, arg)
					valid = false
					continue
				}
				if !d.IsSubtype(d.constants[cid].Type, slot) {
					report("%s: constant %s is not a %s", where, arg, d.types[slot].Name)
					valid = false
					continue
				}
				sl.Terms = append(sl.Terms, Term{Var: -1, Object: cid})
			}
			if valid {
				out = append(out, sl)
			}
		}
		return out
	}

	act.Pre = resolve("precondition", a.Pre, true)
	act.Add = resolve("add", a.Add, false)
	act.Del = resolve("delete", a.Del, false)
	return act
}

func (d *Domain) lookupType(name string) (TypeID, bool) {
	if name == "" {
		return 0, true
	}
	id, ok := d.typeIndex[name]
	return id, ok
}

// Spec returns the specification the domain was built from.
func (d *Domain) Spec() DomainSpec {
	return d.spec
}

// Type resolves a type name.
func (d *Domain) Type(name string) (TypeID, bool) {
	id, ok := d.typeIndex[name]
	return id, ok
}

// TypeName returns the name of a type handle.
func (d *Domain) TypeName(id TypeID) string {
	return d.types[id].Name
}

// Types returns the resolved types in declaration order, root first.
func (d *Domain) Types() []Type {
	return append([]Type(nil), d.types...)
}

// IsSubtype reports whether sub equals super or descends from it.
func (d *Domain) IsSubtype(sub, super TypeID) bool {
	for cur := sub; cur != NoType; cur = d.types[cur].Parent {
		if cur == super {
			return true
		}
	}
	return false
}

// Predicate resolves a predicate name.
func (d *Domain) Predicate(name string) (Predicate, bool) {
	id, ok := d.predIndex[name]
	if !ok {
		return Predicate{}, false
	}
	return d.predicates[id], true
}

// PredicateByID returns the predicate for a handle.
func (d *Domain) PredicateByID(id PredicateID) Predicate {
	return d.predicates[id]
}

// Predicates returns all predicates in declaration order.
func (d *Domain) Predicates() []Predicate {
	return append([]Predicate(nil), d.predicates...)
}

// IsStatic reports whether no action adds or deletes atoms of the predicate.
func (d *Domain) IsStatic(id PredicateID) bool {
	return d.static[id]
}

// MovesAlong reports whether loc atoms only change by single hops over adj:
// every action adding (loc ?m ?to) also requires (loc ?m ?from) and
// (adj ?from ?to) and deletes (loc ?m ?from). Both predicates must be binary.
func (d *Domain) MovesAlong(adj, loc PredicateID) bool {
	if len(d.predicates[adj].Params) != 2 || len(d.predicates[loc].Params) != 2 {
		return false
	}
	for _, a := range d.actions {
		for _, add := range a.Add {
			if add.Predicate == loc && !a.hops(add, adj, loc) {
				return false
			}
		}
	}
	return true
}

func (a *Action) hops(add SchemaLiteral, adj, loc PredicateID) bool {
	mover, to := add.Terms[0], add.Terms[1]
	for _, pre := range a.Pre {
		if pre.Negated || pre.Predicate != loc || pre.Terms[0] != mover {
			continue
		}
		from := pre.Terms[1]
		if hasLiteral(a.Pre, adj, from, to) && hasLiteral(a.Del, loc, mover, from) {
			return true
		}
	}
	return false
}

func hasLiteral(lits []SchemaLiteral, pred PredicateID, terms ...Term) bool {
	for _, l := range lits {
		if l.Negated || l.Predicate != pred || len(l.Terms) != len(terms) {
			continue
		}
		match := true
		for i, t := range terms {
			if l.Terms[i] != t {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Action resolves an action schema by name.
func (d *Domain) Action(name string) (*Action, bool) {
	i, ok := d.actionIndex[name]
	if !ok {
		return nil, false
	}
	return d.actions[i], true
}

// Actions returns the action schemas in declaration order.
func (d *Domain) Actions() []*Action {
	return append([]*Action(nil), d.actions...)
}

// Constants returns the domain constants in declaration order.
func (d *Domain) Constants() []Object {
	return append([]Object(nil), d.constants...)
}
