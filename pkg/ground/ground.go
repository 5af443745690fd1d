// Package ground expands action schemas into ground actions over the
// objects of a problem, and interns every ground atom they mention.
package ground

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ErrGroundingLimit is returned when grounding would exceed the configured action limit.
var ErrGroundingLimit = errors.New("grounding limit exceeded")

// AtomID indexes the atom table of a Table.
type AtomID int

// Literal is a ground, possibly negated, atom reference.
type Literal struct {
	Atom    AtomID
	Negated bool
}

// Action is a ground action. It is immutable once built.
type Action struct {
	ID       int
	Schema   *domain.Action
	Args     []domain.ObjectID
	ArgNames []string
	Pre      []Literal
	Add      []AtomID
	Del      []AtomID
}

// Name returns the schema name.
func (a *Action) Name() string {
	return a.Schema.Name
}

// Step returns the plan step naming this action.
func (a *Action) Step() domain.Step {
	return domain.Step{Action: a.Schema.Name, Args: append([]string(nil), a.ArgNames...)}
}

func (a *Action) String() string {
	return a.Step().String()
}

// UngroundableAction records a schema with no type-consistent instantiation.
type UngroundableAction struct {
	Action string `json:"action"`
	Param  string `json:"param"`
	Type   string `json:"type"`
}

func (u UngroundableAction) String() string {
	return fmt.Sprintf("action %s has no instances: no object of type %s for %s", u.Action, u.Type, u.Param)
}

// Table is the grounded view of a problem, shared read-only by search runs.
type Table struct {
	Problem      *domain.Problem
	Actions      []*Action
	Init         []AtomID
	Goal         []Literal
	Ungroundable []UngroundableAction

	atoms  []domain.Atom
	index  map[string]AtomID
	byStep map[string]*Action
}

// NumAtoms returns the size of the atom table.
func (t *Table) NumAtoms() int {
	return len(t.atoms)
}

// Atom returns the atom behind an ID.
func (t *Table) Atom(id AtomID) domain.Atom {
	return t.atoms[id]
}

// AtomID looks up an interned atom.
func (t *Table) AtomID(a domain.Atom) (AtomID, bool) {
	id, ok := t.index[atomKey(a)]
	return id, ok
}

// FormatAtom renders an interned atom.
func (t *Table) FormatAtom(id AtomID) string {
	return t.Problem.FormatAtom(t.atoms[id])
}

// FormatLiteral renders a ground literal.
func (t *Table) FormatLiteral(l Literal) string {
	if l.Negated {
		return "(not " + t.FormatAtom(l.Atom) + ")"
	}
	return t.FormatAtom(l.Atom)
}

// Lookup finds the ground action for a plan step.
func (t *Table) Lookup(step domain.Step) (*Action, bool) {
	a, ok := t.byStep[step.String()]
	return a, ok
}

// Option configures grounding.
type Option func(*config)

type config struct {
	maxActions int
}

// WithMaxActions caps the number of ground actions. Zero means unlimited.
func WithMaxActions(n int) Option {
	return func(c *config) {
		c.maxActions = n
	}
}

// Ground instantiates every action schema of p over its type-consistent
// object tuples. Enumeration follows schema order, then object declaration
// order with the last parameter varying fastest, so grounding the same
// problem twice yields identical tables.
func Ground(ctx context.Context, p *domain.Problem, opts ...Option) (*Table, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Table{
		Problem: p,
		index:   make(map[string]AtomID),
		byStep:  make(map[string]*Action),
	}

	for _, a := range p.Init() {
		t.Init = append(t.Init, t.intern(a))
	}
	for _, g := range p.Goal() {
		t.Goal = append(t.Goal, Literal{Atom: t.intern(g.Atom), Negated: g.Negated})
	}

	d := p.Domain()
	for _, schema := range d.Actions() {
		candidates := make([][]domain.ObjectID, schema.Arity())
		empty := false
		for i, typ := range schema.ParamTypes {
			candidates[i] = p.ObjectsOfType(typ)
			if len(candidates[i]) == 0 {
				t.Ungroundable = append(t.Ungroundable, UngroundableAction{
					Action: schema.Name,
					Param:  schema.ParamNames[i],
					Type:   d.TypeName(typ),
				})
				empty = true
				break
			}
		}
		if empty {
			continue
		}

		odometer := make([]int, len(candidates))
		for {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("grounding interrupted: %w", err)
			}
			if cfg.maxActions > 0 && len(t.Actions) >= cfg.maxActions {
				return nil, fmt.Errorf("%w: more than %d actions", ErrGroundingLimit, cfg.maxActions)
			}

			args := make([]domain.ObjectID, len(candidates))
			for i, pos := range odometer {
				args[i] = candidates[i][pos]
			}
			t.add(schema, args)

			if !advance(odometer, candidates) {
				break
			}
		}
	}
	return t, nil
}

// advance moves the odometer to the next tuple and reports false after the last one.
func advance(odometer []int, candidates [][]domain.ObjectID) bool {
	for i := len(odometer) - 1; i >= 0; i-- {
		odometer[i]++
		if odometer[i] < len(candidates[i]) {
			return true
		}
		odometer[i] = 0
	}
	return false
}

func (t *Table) add(schema *domain.Action, args []domain.ObjectID) {
	a := &Action{
		ID:     len(t.Actions),
		Schema: schema,
		Args:   args,
	}
	for _, id := range args {
		a.ArgNames = append(a.ArgNames, t.Problem.ObjectByID(id).Name)
	}
	for _, l := range schema.Pre {
		a.Pre = append(a.Pre, Literal{Atom: t.intern(l.Instantiate(args)), Negated: l.Negated})
	}
	for _, l := range schema.Add {
		a.Add = append(a.Add, t.intern(l.Instantiate(args)))
	}
	for _, l := range schema.Del {
		a.Del = append(a.Del, t.intern(l.Instantiate(args)))
	}
	t.Actions = append(t.Actions, a)
	t.byStep[a.String()] = a
}

func (t *Table) intern(a domain.Atom) AtomID {
	key := atomKey(a)
	if id, ok := t.index[key]; ok {
		return id
	}
	id := AtomID(len(t.atoms))
	t.atoms = append(t.atoms, a)
	t.index[key] = id
	return id
}

func atomKey(a domain.Atom) string {
	buf := make([]byte, 0, binary.MaxVarintLen64*(len(a.Args)+1))
	buf = binary.AppendUvarint(buf, uint64(a.Predicate))
	for _, arg := range a.Args {
		buf = binary.AppendUvarint(buf, uint64(arg))
	}
	return string(buf)
}
