package testutils

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/require"
)

// NavigationDomain is a single-robot navigation domain over a location graph.
func NavigationDomain() domain.DomainSpec {
	return domain.DomainSpec{
		Name: "navigation",
		Types: []domain.TypeSpec{
			{Name: "location"},
			{Name: "robot"},
		},
		Predicates: []domain.PredicateSpec{
			{Name: "at", Params: []domain.Param{{Name: "?r", Type: "robot"}, {Name: "?l", Type: "location"}}},
			{Name: "connected", Params: []domain.Param{{Name: "?a", Type: "location"}, {Name: "?b", Type: "location"}}},
		},
		Actions: []domain.ActionSpec{
			{
				Name: "navigate",
				Params: []domain.Param{
					{Name: "?r", Type: "robot"},
					{Name: "?from", Type: "location"},
					{Name: "?to", Type: "location"},
				},
				Pre: []domain.Literal{domain.Pos("at", "?r", "?from"), domain.Pos("connected", "?from", "?to")},
				Add: []domain.Literal{domain.Pos("at", "?r", "?to")},
				Del: []domain.Literal{domain.Pos("at", "?r", "?from")},
			},
		},
	}
}

// NavigationProblem places robot r1 at start with goal (at r1 goal).
// Each edge is declared in both directions when bidirectional is set.
func NavigationProblem(locations []string, edges [][2]string, bidirectional bool, start, goal string) domain.ProblemSpec {
	spec := domain.ProblemSpec{
		Name:    "nav-" + start + "-" + goal,
		Domain:  "navigation",
		Objects: []domain.ObjectSpec{{Name: "r1", Type: "robot"}},
		Init:    []domain.Literal{domain.Pos("at", "r1", start)},
		Goal:    []domain.Literal{domain.Pos("at", "r1", goal)},
	}
	for _, l := range locations {
		spec.Objects = append(spec.Objects, domain.ObjectSpec{Name: l, Type: "location"})
	}
	for _, e := range edges {
		spec.Init = append(spec.Init, domain.Pos("connected", e[0], e[1]))
		if bidirectional {
			spec.Init = append(spec.Init, domain.Pos("connected", e[1], e[0]))
		}
	}
	return spec
}

// Chain links locations in order with bidirectional edges, from the first to the last.
func Chain(locations ...string) domain.ProblemSpec {
	var edges [][2]string
	for i := 0; i+1 < len(locations); i++ {
		edges = append(edges, [2]string{locations[i], locations[i+1]})
	}
	return NavigationProblem(locations, edges, true, locations[0], locations[len(locations)-1])
}

// MustProblem builds a domain and problem or fails the test.
func MustProblem(t testing.TB, d domain.DomainSpec, p domain.ProblemSpec) *domain.Problem {
	t.Helper()

	dom, err := domain.NewDomain(d)
	require.NoError(t, err)
	prob, err := domain.NewProblem(dom, p)
	require.NoError(t, err)
	return prob
}

// GripperDomain is a two-room gripper domain exercising typed objects,
// negative preconditions and multi-atom effects.
func GripperDomain() domain.DomainSpec {
	return domain.DomainSpec{
		Name:  "gripper",
		Types: []domain.TypeSpec{{Name: "room"}, {Name: "ball"}, {Name: "gripper"}},
		Predicates: []domain.PredicateSpec{
			{Name: "at-robby", Params: []domain.Param{{Name: "?r", Type: "room"}}},
			{Name: "at", Params: []domain.Param{{Name: "?b", Type: "ball"}, {Name: "?r", Type: "room"}}},
			{Name: "carry", Params: []domain.Param{{Name: "?b", Type: "ball"}, {Name: "?g", Type: "gripper"}}},
			{Name: "busy", Params: []domain.Param{{Name: "?g", Type: "gripper"}}},
		},
		Actions: []domain.ActionSpec{
			{
				Name:   "move",
				Params: []domain.Param{{Name: "?from", Type: "room"}, {Name: "?to", Type: "room"}},
				Pre:    []domain.Literal{domain.Pos("at-robby", "?from")},
				Add:    []domain.Literal{domain.Pos("at-robby", "?to")},
				Del:    []domain.Literal{domain.Pos("at-robby", "?from")},
			},
			{
				Name:   "pick",
				Params: []domain.Param{{Name: "?b", Type: "ball"}, {Name: "?r", Type: "room"}, {Name: "?g", Type: "gripper"}},
				Pre: []domain.Literal{
					domain.Pos("at", "?b", "?r"), domain.Pos("at-robby", "?r"), domain.Neg("busy", "?g"),
				},
				Add: []domain.Literal{domain.Pos("carry", "?b", "?g"), domain.Pos("busy", "?g")},
				Del: []domain.Literal{domain.Pos("at", "?b", "?r")},
			},
			{
				Name:   "drop",
				Params: []domain.Param{{Name: "?b", Type: "ball"}, {Name: "?r", Type: "room"}, {Name: "?g", Type: "gripper"}},
				Pre:    []domain.Literal{domain.Pos("carry", "?b", "?g"), domain.Pos("at-robby", "?r")},
				Add:    []domain.Literal{domain.Pos("at", "?b", "?r")},
				Del:    []domain.Literal{domain.Pos("carry", "?b", "?g"), domain.Pos("busy", "?g")},
			},
		},
	}
}

// GripperProblem moves n balls from rooma to roomb with a single gripper.
func GripperProblem(balls ...string) domain.ProblemSpec {
	spec := domain.ProblemSpec{
		Name:   "gripper",
		Domain: "gripper",
		Objects: []domain.ObjectSpec{
			{Name: "rooma", Type: "room"}, {Name: "roomb", Type: "room"}, {Name: "left", Type: "gripper"},
		},
		Init: []domain.Literal{domain.Pos("at-robby", "rooma")},
	}
	for _, b := range balls {
		spec.Objects = append(spec.Objects, domain.ObjectSpec{Name: b, Type: "ball"})
		spec.Init = append(spec.Init, domain.Pos("at", b, "rooma"))
		spec.Goal = append(spec.Goal, domain.Pos("at", b, "roomb"))
	}
	return spec
}

// TeleportDomain extends NavigationDomain with a teleport action that moves
// the robot over a separate (portal ?from ?to) relation.
func TeleportDomain() domain.DomainSpec {
	d := NavigationDomain()
	d.Predicates = append(d.Predicates, domain.PredicateSpec{
		Name:   "portal",
		Params: []domain.Param{{Name: "?a", Type: "location"}, {Name: "?b", Type: "location"}},
	})
	d.Actions = append(d.Actions, domain.ActionSpec{
		Name: "teleport",
		Params: []domain.Param{
			{Name: "?r", Type: "robot"},
			{Name: "?from", Type: "location"},
			{Name: "?to", Type: "location"},
		},
		Pre: []domain.Literal{domain.Pos("at", "?r", "?from"), domain.Pos("portal", "?from", "?to")},
		Add: []domain.Literal{domain.Pos("at", "?r", "?to")},
		Del: []domain.Literal{domain.Pos("at", "?r", "?from")},
	})
	return d
}

// PortalProblem has two disconnected clusters {base, pharmacy} and
// {ward_a, ward_b} joined only by a portal from pharmacy to ward_a.
func PortalProblem() domain.ProblemSpec {
	spec := NavigationProblem([]string{"base", "pharmacy", "ward_a", "ward_b"},
		[][2]string{{"base", "pharmacy"}, {"ward_a", "ward_b"}}, true, "base", "ward_b")
	spec.Init = append(spec.Init, domain.Pos("portal", "pharmacy", "ward_a"))
	return spec
}

// ShortcutProblem is a chain base-b-c-d-room with a spur base-a and a
// portal from a to room, so the shortest plan is two steps.
func ShortcutProblem() domain.ProblemSpec {
	spec := NavigationProblem([]string{"base", "a", "b", "c", "d", "room"},
		[][2]string{{"base", "b"}, {"b", "c"}, {"c", "d"}, {"d", "room"}, {"base", "a"}}, true, "base", "room")
	spec.Init = append(spec.Init, domain.Pos("portal", "a", "room"))
	return spec
}
