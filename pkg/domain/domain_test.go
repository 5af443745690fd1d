package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomain_Valid(t *testing.T) {
	d, err := domain.NewDomain(testutils.NavigationDomain())
	require.NoError(t, err)

	assert.Equal(t, "navigation", d.Name)
	nav, ok := d.Action("navigate")
	require.True(t, ok)
	assert.Equal(t, 3, nav.Arity())
	assert.Len(t, nav.Pre, 2)

	at, _ := d.Predicate("at")
	connected, _ := d.Predicate("connected")
	assert.False(t, d.IsStatic(at.ID))
	assert.True(t, d.IsStatic(connected.ID))
}

func TestDomain_MovesAlong(t *testing.T) {
	noDelete := testutils.NavigationDomain()
	noDelete.Actions[0].Del = nil

	wrongEdge := testutils.NavigationDomain()
	wrongEdge.Actions[0].Pre[1] = domain.Pos("connected", "?to", "?from")

	withPick := testutils.NavigationDomain()
	withPick.Predicates = append(withPick.Predicates, domain.PredicateSpec{
		Name: "ready", Params: []domain.Param{{Name: "?r", Type: "robot"}},
	})
	withPick.Actions = append(withPick.Actions, domain.ActionSpec{
		Name:   "charge",
		Params: []domain.Param{{Name: "?r", Type: "robot"}, {Name: "?l", Type: "location"}},
		Pre:    []domain.Literal{domain.Pos("at", "?r", "?l")},
		Add:    []domain.Literal{domain.Pos("ready", "?r")},
	})

	tests := []struct {
		name string
		spec domain.DomainSpec
		want bool
	}{
		{"single hop", testutils.NavigationDomain(), true},
		{"unrelated effects", withPick, true},
		{"teleport", testutils.TeleportDomain(), false},
		{"location kept", noDelete, false},
		{"reversed edge", wrongEdge, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := domain.NewDomain(tt.spec)
			require.NoError(t, err)
			at, _ := d.Predicate("at")
			connected, _ := d.Predicate("connected")
			assert.Equal(t, tt.want, d.MovesAlong(connected.ID, at.ID))
		})
	}
}

func TestNewDomain_Subtypes(t *testing.T) {
	spec := domain.DomainSpec{
		Name: "fleet",
		Types: []domain.TypeSpec{
			{Name: "vehicle"},
			{Name: "robot", Parent: "vehicle"},
			{Name: "drone", Parent: "robot"},
		},
		Predicates: []domain.PredicateSpec{
			{Name: "ready", Params: []domain.Param{{Name: "?v", Type: "vehicle"}}},
		},
		Actions: []domain.ActionSpec{{
			Name:   "arm",
			Params: []domain.Param{{Name: "?d", Type: "drone"}},
			Add:    []domain.Literal{domain.Pos("ready", "?d")},
		}},
	}
	d, err := domain.NewDomain(spec)
	require.NoError(t, err)

	vehicle, _ := d.Type("vehicle")
	drone, _ := d.Type("drone")
	root, _ := d.Type(domain.RootType)
	assert.True(t, d.IsSubtype(drone, vehicle))
	assert.True(t, d.IsSubtype(drone, root))
	assert.False(t, d.IsSubtype(vehicle, drone))
}

func TestNewDomain_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.DomainSpec)
		subject string
		reason  string
	}{
		{
			name:    "unknown parameter type",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Params[0].Type = "droid" },
			subject: "action navigate",
			reason:  `unknown type "droid"`,
		},
		{
			name: "duplicate predicate",
			mutate: func(s *domain.DomainSpec) {
				s.Predicates = append(s.Predicates, s.Predicates[0])
			},
			subject: "predicate at",
			reason:  "duplicate predicate",
		},
		{
			name: "duplicate action",
			mutate: func(s *domain.DomainSpec) {
				s.Actions = append(s.Actions, s.Actions[0])
			},
			subject: "action navigate",
			reason:  "duplicate action",
		},
		{
			name:    "arity mismatch",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Add[0] = domain.Pos("at", "?r") },
			subject: "action navigate",
			reason:  "expects 2 arguments, got 1",
		},
		{
			name:    "undeclared predicate",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Pre[1] = domain.Pos("linked", "?from", "?to") },
			subject: "action navigate",
			reason:  `undeclared predicate "linked"`,
		},
		{
			name:    "undeclared variable",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Add[0] = domain.Pos("at", "?r", "?there") },
			subject: "action navigate",
			reason:  "undeclared variable ?there",
		},
		{
			name:    "type mismatch",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Pre[1] = domain.Pos("connected", "?r", "?to") },
			subject: "action navigate",
			reason:  "is not a location",
		},
		{
			name:    "negated effect",
			mutate:  func(s *domain.DomainSpec) { s.Actions[0].Add[0].Negated = true },
			subject: "action navigate",
			reason:  "effects must be positive",
		},
		{
			name: "cyclic types",
			mutate: func(s *domain.DomainSpec) {
				s.Types = append(s.Types, domain.TypeSpec{Name: "a", Parent: "b"}, domain.TypeSpec{Name: "b", Parent: "a"})
			},
			subject: "type a",
			reason:  "cyclic type hierarchy",
		},
		{
			name: "unknown supertype",
			mutate: func(s *domain.DomainSpec) {
				s.Types = append(s.Types, domain.TypeSpec{Name: "drone", Parent: "aircraft"})
			},
			subject: "type drone",
			reason:  `unknown supertype "aircraft"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testutils.NavigationDomain()
			tt.mutate(&spec)

			_, err := domain.NewDomain(spec)
			var schemaErr *domain.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "navigation", schemaErr.Domain)

			found := false
			for _, issue := range schemaErr.Issues {
				if issue.Subject == tt.subject && strings.Contains(issue.Reason, tt.reason) {
					found = true
				}
			}
			assert.True(t, found, "expected issue %q on %q, got %v", tt.reason, tt.subject, schemaErr.Issues)
		})
	}
}

func TestNewDomain_CollectsAllIssues(t *testing.T) {
	spec := testutils.NavigationDomain()
	spec.Actions[0].Params[0].Type = "droid"
	spec.Actions[0].Add[0] = domain.Pos("at", "?r", "?there")

	_, err := domain.NewDomain(spec)
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.GreaterOrEqual(t, len(schemaErr.Issues), 2)
	assert.Contains(t, err.Error(), "issues")
}

func TestNewDomain_Constants(t *testing.T) {
	spec := testutils.NavigationDomain()
	spec.Constants = []domain.ObjectSpec{{Name: "dock", Type: "location"}}
	spec.Actions = append(spec.Actions, domain.ActionSpec{
		Name:   "recall",
		Params: []domain.Param{{Name: "?r", Type: "robot"}, {Name: "?from", Type: "location"}},
		Pre:    []domain.Literal{domain.Pos("at", "?r", "?from")},
		Add:    []domain.Literal{domain.Pos("at", "?r", "dock")},
		Del:    []domain.Literal{domain.Pos("at", "?r", "?from")},
	})
	d, err := domain.NewDomain(spec)
	require.NoError(t, err)

	recall, ok := d.Action("recall")
	require.True(t, ok)
	assert.Equal(t, -1, recall.Add[0].Terms[1].Var)

	p := testutils.Chain("base", "pharmacy")
	p.Objects = append(p.Objects, domain.ObjectSpec{Name: "dock", Type: "location"})
	_, err = domain.NewProblem(d, p)
	var problemErr *domain.ProblemError
	require.ErrorAs(t, err, &problemErr)
	assert.Contains(t, err.Error(), "redeclares a domain constant")
}

func TestNewProblem_Errors(t *testing.T) {
	d, err := domain.NewDomain(testutils.NavigationDomain())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*domain.ProblemSpec)
		reason string
	}{
		{"wrong domain", func(p *domain.ProblemSpec) { p.Domain = "logistics" }, `references domain "logistics"`},
		{"unknown object type", func(p *domain.ProblemSpec) {
			p.Objects = append(p.Objects, domain.ObjectSpec{Name: "x", Type: "droid"})
		}, `unknown type "droid"`},
		{"duplicate object", func(p *domain.ProblemSpec) {
			p.Objects = append(p.Objects, domain.ObjectSpec{Name: "base", Type: "location"})
		}, "duplicate object"},
		{"undeclared object in init", func(p *domain.ProblemSpec) {
			p.Init = append(p.Init, domain.Pos("connected", "base", "lab"))
		}, `undeclared object "lab"`},
		{"ill-typed goal", func(p *domain.ProblemSpec) {
			p.Goal = []domain.Literal{domain.Pos("at", "base", "r1")}
		}, "is not a robot"},
		{"negated init", func(p *domain.ProblemSpec) {
			p.Init = append(p.Init, domain.Neg("at", "r1", "pharmacy"))
		}, "initial atoms must be positive"},
		{"variable in goal", func(p *domain.ProblemSpec) {
			p.Goal = []domain.Literal{domain.Pos("at", "?r", "pharmacy")}
		}, "variable ?r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testutils.Chain("base", "pharmacy")
			tt.mutate(&spec)

			_, err := domain.NewProblem(d, spec)
			var problemErr *domain.ProblemError
			require.ErrorAs(t, err, &problemErr)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestProblem_ObjectsOfType(t *testing.T) {
	p := testutils.MustProblem(t, testutils.NavigationDomain(), testutils.Chain("base", "reception", "room"))

	location, _ := p.Domain().Type("location")
	var names []string
	for _, id := range p.ObjectsOfType(location) {
		names = append(names, p.ObjectByID(id).Name)
	}
	assert.Equal(t, []string{"base", "reception", "room"}, names)

	root, _ := p.Domain().Type(domain.RootType)
	assert.Len(t, p.ObjectsOfType(root), 4)
}

func TestProblem_DeduplicatesInit(t *testing.T) {
	spec := testutils.Chain("base", "pharmacy")
	spec.Init = append(spec.Init, domain.Pos("at", "r1", "base"))
	p := testutils.MustProblem(t, testutils.NavigationDomain(), spec)
	assert.Len(t, p.Init(), 3)
}

func TestRelation_Distances(t *testing.T) {
	p := testutils.MustProblem(t, testutils.NavigationDomain(),
		testutils.Chain("base", "reception", "corridor", "room"))

	rel, err := p.Relation("connected")
	require.NoError(t, err)

	base, _ := p.Object("base")
	room, _ := p.Object("room")
	assert.Equal(t, 3, rel.Distances(base.ID)[room.ID])
	assert.Equal(t, 3, rel.DistancesTo(room.ID)[base.ID])
	corridor, _ := p.Object("corridor")
	assert.True(t, rel.HasEdge(corridor.ID, room.ID))
	assert.False(t, rel.HasEdge(base.ID, room.ID))

	_, err = p.Relation("at")
	require.NoError(t, err)
	_, err = p.Relation("missing")
	assert.Error(t, err)
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want domain.Outcome
	}{
		{nil, domain.OutcomeSolved},
		{&domain.SchemaError{Domain: "d", Issues: []domain.Issue{{Subject: "x", Reason: "y"}}}, domain.OutcomeSchemaError},
		{&domain.ProblemError{Problem: "p", Err: domain.ErrUnknownDomain}, domain.OutcomeProblemError},
		{&domain.ValidationError{Step: 2}, domain.OutcomeValidationError},
		{&domain.GoalNotReachedError{Unmet: []string{"(at r1 room)"}}, domain.OutcomeValidationError},
		{domain.ErrUnreachable, domain.OutcomeUnreachable},
		{errors.Join(errors.New("search"), domain.ErrBudgetExceeded), domain.OutcomeBudgetExceeded},
		{errors.New("disk full"), domain.OutcomeError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.OutcomeOf(tt.err))
	}
}
