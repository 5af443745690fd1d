// Package validate replays plans against the planning model.
//
// Validation works on the Domain and Problem directly and never consults a
// ground.Table, so it can certify plans produced by any planner.
package validate

import (
	"fmt"
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// StepDiff lists the atoms a step made true and false.
type StepDiff struct {
	Step    int      `json:"step"`
	Action  string   `json:"action"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// IsEmpty reports whether the step changed nothing.
func (d StepDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Result is returned for a valid plan.
type Result struct {
	Final []string   `json:"final"`
	Trace []StepDiff `json:"trace"`
}

// Plan replays steps from the initial state of p. The first inapplicable
// step yields a *domain.ValidationError; a plan that runs to completion
// without satisfying the goal yields a *domain.GoalNotReachedError.
func Plan(p *domain.Problem, steps []domain.Step) (*Result, error) {
	d := p.Domain()
	current := make(map[string]struct{})
	for _, a := range p.Init() {
		current[p.FormatAtom(a)] = struct{}{}
	}

	res := &Result{}
	for i, step := range steps {
		fail := func(reason string, err error) error {
			return &domain.ValidationError{Step: i, Action: step.String(), Reason: reason, Err: err}
		}

		schema, ok := d.Action(step.Action)
		if !ok {
			return nil, fail(fmt.Sprintf("unknown action %q", step.Action), domain.ErrUnknownAction)
		}
		if len(step.Args) != schema.Arity() {
			return nil, fail(fmt.Sprintf("expects %d arguments, got %d", schema.Arity(), len(step.Args)), nil)
		}
		args := make([]domain.ObjectID, len(step.Args))
		for j, name := range step.Args {
			obj, ok := p.Object(name)
			if !ok {
				return nil, fail(fmt.Sprintf("undeclared object %q", name), nil)
			}
			if !d.IsSubtype(obj.Type, schema.ParamTypes[j]) {
				return nil, fail(fmt.Sprintf("object %s (%s) is not a %s for %s",
					name, d.TypeName(obj.Type), d.TypeName(schema.ParamTypes[j]), schema.ParamNames[j]), nil)
			}
			args[j] = obj.ID
		}

		for _, l := range schema.Pre {
			atom := p.FormatAtom(l.Instantiate(args))
			_, holds := current[atom]
			if holds != l.Negated {
				continue
			}
			lit := atom
			if l.Negated {
				lit = "(not " + atom + ")"
			}
			return nil, &domain.ValidationError{
				Step:    i,
				Action:  step.String(),
				Literal: lit,
				Missing: !l.Negated,
			}
		}

		added := make(map[string]struct{}, len(schema.Add))
		for _, l := range schema.Add {
			added[p.FormatAtom(l.Instantiate(args))] = struct{}{}
		}
		diff := StepDiff{Step: i, Action: step.String()}
		for _, l := range schema.Del {
			atom := p.FormatAtom(l.Instantiate(args))
			if _, keep := added[atom]; keep {
				continue
			}
			if _, ok := current[atom]; ok {
				delete(current, atom)
				diff.Removed = append(diff.Removed, atom)
			}
		}
		for atom := range added {
			if _, ok := current[atom]; !ok {
				current[atom] = struct{}{}
				diff.Added = append(diff.Added, atom)
			}
		}
		slices.Sort(diff.Added)
		slices.Sort(diff.Removed)
		res.Trace = append(res.Trace, diff)
	}

	var unmet []string
	for _, g := range p.Goal() {
		_, holds := current[p.FormatAtom(g.Atom)]
		if holds == g.Negated {
			unmet = append(unmet, p.FormatGoal(g))
		}
	}
	if len(unmet) > 0 {
		return nil, &domain.GoalNotReachedError{Unmet: unmet}
	}

	for atom := range current {
		res.Final = append(res.Final, atom)
	}
	slices.Sort(res.Final)
	return res, nil
}
