package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/wayfinder/pkg/ground"
	"github.com/aretw0/wayfinder/pkg/state"
)

// Infinite marks a state from which the goal cannot be reached. Informed
// strategies prune such states.
const Infinite = math.MaxInt32

// ErrHeuristicUnavailable is returned when a heuristic cannot be built for a problem.
var ErrHeuristicUnavailable = errors.New("heuristic unavailable")

// Heuristic estimates the number of actions left to reach the goal.
// Implementations are built once per grounded table and must be safe for
// concurrent use.
type Heuristic interface {
	Name() string
	Estimate(*state.State) int
}

type blank struct{}

// Blank returns the zero heuristic. A* with it behaves like uniform-cost search.
func Blank() Heuristic { return blank{} }

func (blank) Name() string { return "blank" }

func (blank) Estimate(*state.State) int { return 0 }

type goalCount struct {
	goal []ground.Literal
}

// GoalCount counts unsatisfied goal literals. It is not admissible in
// general and is meant for greedy search.
func GoalCount(t *ground.Table) Heuristic {
	return goalCount{goal: t.Goal}
}

func (goalCount) Name() string { return "goalcount" }

func (g goalCount) Estimate(s *state.State) int {
	n := 0
	for _, l := range g.goal {
		if !state.Holds(s, l) {
			n++
		}
	}
	return n
}

// placement is one candidate position of a mover with its distance to the target.
type placement struct {
	atom ground.AtomID
	dist int
}

type adjacency struct {
	goals [][]placement
}

// Adjacency estimates the remaining moves from precomputed shortest-path
// distances over a static binary adjacency relation. For each positive goal
// literal (location m g) it looks up the current (location m x) and takes
// the hop distance from x to g; the estimate is the maximum over goals.
// It is only built when every action that moves a mover does so along a
// single adjacency edge, which keeps it admissible.
func Adjacency(t *ground.Table, adjacencyPred, locationPred string) (Heuristic, error) {
	p := t.Problem
	d := p.Domain()

	rel, err := p.Relation(adjacencyPred)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeuristicUnavailable, err)
	}
	if !d.IsStatic(rel.Predicate.ID) {
		return nil, fmt.Errorf("%w: relation %q is modified by actions", ErrHeuristicUnavailable, adjacencyPred)
	}
	loc, ok := d.Predicate(locationPred)
	if !ok || len(loc.Params) != 2 {
		return nil, fmt.Errorf("%w: %q is not a binary predicate", ErrHeuristicUnavailable, locationPred)
	}
	if !d.MovesAlong(rel.Predicate.ID, loc.ID) {
		return nil, fmt.Errorf("%w: some action changes %q without a %q hop", ErrHeuristicUnavailable, locationPred, adjacencyPred)
	}

	h := &adjacency{}
	for _, g := range t.Goal {
		goalAtom := t.Atom(g.Atom)
		if g.Negated || goalAtom.Predicate != loc.ID {
			continue
		}
		mover, target := goalAtom.Args[0], goalAtom.Args[1]
		distTo := rel.DistancesTo(target)

		var candidates []placement
		for id := 0; id < t.NumAtoms(); id++ {
			a := t.Atom(ground.AtomID(id))
			if a.Predicate != loc.ID || a.Args[0] != mover {
				continue
			}
			dist, reachable := distTo[a.Args[1]]
			if !reachable {
				dist = Infinite
			}
			candidates = append(candidates, placement{atom: ground.AtomID(id), dist: dist})
		}
		h.goals = append(h.goals, candidates)
	}
	return h, nil
}

func (adjacency) Name() string { return "adjacency" }

func (h *adjacency) Estimate(s *state.State) int {
	best := 0
	for _, candidates := range h.goals {
		for _, c := range candidates {
			if !s.Has(c.atom) {
				continue
			}
			if c.dist == Infinite {
				return Infinite
			}
			best = max(best, c.dist)
			break
		}
	}
	return best
}
