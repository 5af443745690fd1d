package invariant

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Checker is a pluggable pre-flight check.
type Checker interface {
	Name() string
	Check(ctx context.Context, p *domain.Problem) (Findings, error)
}

// Run executes checkers in order and concatenates their findings.
func Run(ctx context.Context, p *domain.Problem, checkers ...Checker) (Findings, error) {
	var all Findings
	for _, c := range checkers {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		fs, err := c.Check(ctx, p)
		if err != nil {
			return all, fmt.Errorf("check %s: %w", c.Name(), err)
		}
		all = append(all, fs...)
	}
	return all, nil
}

// Navigation returns the standard checks for a navigation-style domain.
func Navigation(adjacency, location string) []Checker {
	return []Checker{
		Symmetry{Predicate: adjacency},
		Isolated{Predicate: adjacency},
		Reachability{Adjacency: adjacency, Location: location},
	}
}

// Symmetry warns about every edge (p a b) of the initial state whose
// inverse (p b a) is absent. One-way edges are legal, so this is never fatal.
type Symmetry struct {
	Predicate string
}

func (s Symmetry) Name() string { return "symmetry" }

func (s Symmetry) Check(_ context.Context, p *domain.Problem) (Findings, error) {
	rel, err := p.Relation(s.Predicate)
	if err != nil {
		return nil, err
	}
	var fs Findings
	for _, from := range rel.Nodes {
		for _, to := range rel.Successors(from) {
			if rel.HasEdge(to, from) {
				continue
			}
			edge := domain.Atom{Predicate: rel.Predicate.ID, Args: []domain.ObjectID{from, to}}
			inverse := domain.Atom{Predicate: rel.Predicate.ID, Args: []domain.ObjectID{to, from}}
			fs = append(fs, Finding{
				Check:    s.Name(),
				Severity: SeverityWarning,
				Subject:  p.FormatAtom(edge),
				Message:  fmt.Sprintf("%s has no inverse %s", p.FormatAtom(edge), p.FormatAtom(inverse)),
			})
		}
	}
	return fs, nil
}

// Isolated warns about objects of the relation's node type that have no edge at all.
type Isolated struct {
	Predicate string
}

func (i Isolated) Name() string { return "isolated" }

func (i Isolated) Check(_ context.Context, p *domain.Problem) (Findings, error) {
	rel, err := p.Relation(i.Predicate)
	if err != nil {
		return nil, err
	}
	var fs Findings
	for _, id := range p.ObjectsOfType(rel.Predicate.Params[0]) {
		if rel.Degree(id) > 0 {
			continue
		}
		name := p.ObjectByID(id).Name
		fs = append(fs, Finding{
			Check:    i.Name(),
			Severity: SeverityWarning,
			Subject:  name,
			Message:  fmt.Sprintf("%s has no %s edge", name, i.Predicate),
		})
	}
	return fs, nil
}

// Reachability proves a navigation goal unreachable when, for a goal
// (location m g) and initial (location m s), g cannot be reached from s
// over the adjacency relation. It only applies when no action modifies the
// adjacency relation and every move is a single adjacency hop; otherwise
// it emits a warning and skips.
type Reachability struct {
	Adjacency string
	Location  string
}

func (r Reachability) Name() string { return "reachability" }

func (r Reachability) Check(_ context.Context, p *domain.Problem) (Findings, error) {
	rel, err := p.Relation(r.Adjacency)
	if err != nil {
		return nil, err
	}
	loc, ok := p.Domain().Predicate(r.Location)
	if !ok || len(loc.Params) != 2 {
		return nil, fmt.Errorf("location predicate %q must be declared and binary", r.Location)
	}
	if !p.Domain().IsStatic(rel.Predicate.ID) {
		return Findings{{
			Check:    r.Name(),
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("skipped: %s is modified by actions", r.Adjacency),
		}}, nil
	}
	if !p.Domain().MovesAlong(rel.Predicate.ID, loc.ID) {
		return Findings{{
			Check:    r.Name(),
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("skipped: some action changes %s without a %s hop", r.Location, r.Adjacency),
		}}, nil
	}

	start := make(map[domain.ObjectID][]domain.ObjectID)
	for _, a := range p.Init() {
		if a.Predicate == loc.ID {
			start[a.Args[0]] = append(start[a.Args[0]], a.Args[1])
		}
	}

	var fs Findings
	for _, g := range p.Goal() {
		if g.Negated || g.Atom.Predicate != loc.ID {
			continue
		}
		mover, target := g.Atom.Args[0], g.Atom.Args[1]
		moverName := p.ObjectByID(mover).Name
		origins := start[mover]
		if len(origins) == 0 {
			fs = append(fs, Finding{
				Check:    r.Name(),
				Severity: SeverityWarning,
				Subject:  moverName,
				Message:  fmt.Sprintf("skipped: %s has no initial location", moverName),
			})
			continue
		}

		reachable := false
		for _, origin := range origins {
			if _, ok := rel.Distances(origin)[target]; ok {
				reachable = true
				break
			}
		}
		if !reachable {
			fs = append(fs, Finding{
				Check:    r.Name(),
				Severity: SeverityFatal,
				Subject:  p.FormatGoal(g),
				Message: fmt.Sprintf("%s cannot reach %s from %s", moverName,
					p.ObjectByID(target).Name, p.ObjectByID(origins[0]).Name),
			})
		}
	}
	return fs, nil
}
