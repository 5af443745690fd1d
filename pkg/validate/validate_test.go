package validate_test

import (
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nav(from, to string) domain.Step {
	return domain.Step{Action: "navigate", Args: []string{"r1", from, to}}
}

func chainProblem(t *testing.T) *domain.Problem {
	return testutils.MustProblem(t, testutils.NavigationDomain(),
		testutils.Chain("base", "reception", "corridor", "room"))
}

func TestPlan_Valid(t *testing.T) {
	p := chainProblem(t)

	res, err := validate.Plan(p, []domain.Step{
		nav("base", "reception"), nav("reception", "corridor"), nav("corridor", "room"),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Final, "(at r1 room)")
	assert.NotContains(t, res.Final, "(at r1 base)")

	require.Len(t, res.Trace, 3)
	assert.Equal(t, []string{"(at r1 reception)"}, res.Trace[0].Added)
	assert.Equal(t, []string{"(at r1 base)"}, res.Trace[0].Removed)
}

func TestPlan_PreconditionViolatedAtStepK(t *testing.T) {
	p := chainProblem(t)
	valid := []domain.Step{nav("base", "reception"), nav("reception", "corridor"), nav("corridor", "room")}

	for k := range valid {
		t.Run(valid[k].String(), func(t *testing.T) {
			plan := append([]domain.Step(nil), valid...)
			// jump from the wrong origin: (at r1 room) is missing at step k
			plan[k] = nav("room", valid[k].Args[2])

			_, err := validate.Plan(p, plan)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, k, vErr.Step)
			assert.Equal(t, "(at r1 room)", vErr.Literal)
			assert.True(t, vErr.Missing)
		})
	}
}

func TestPlan_NegativePreconditionViolated(t *testing.T) {
	p := testutils.MustProblem(t, testutils.GripperDomain(), testutils.GripperProblem("b1", "b2"))

	_, err := validate.Plan(p, []domain.Step{
		{Action: "pick", Args: []string{"b1", "rooma", "left"}},
		{Action: "pick", Args: []string{"b2", "rooma", "left"}},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 1, vErr.Step)
	assert.Equal(t, "(not (busy left))", vErr.Literal)
	assert.False(t, vErr.Missing)
	assert.Contains(t, err.Error(), "extra")
}

func TestPlan_StructuralErrors(t *testing.T) {
	p := chainProblem(t)

	tests := []struct {
		name   string
		step   domain.Step
		reason string
	}{
		{"unknown action", domain.Step{Action: "teleport", Args: []string{"r1", "room"}}, "unknown action"},
		{"arity", domain.Step{Action: "navigate", Args: []string{"r1", "base"}}, "expects 3 arguments, got 2"},
		{"undeclared object", nav("base", "lab"), `undeclared object "lab"`},
		{"wrong type", domain.Step{Action: "navigate", Args: []string{"base", "base", "reception"}}, "is not a robot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate.Plan(p, []domain.Step{nav("base", "reception"), tt.step})
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, 1, vErr.Step)
			assert.Contains(t, vErr.Reason, tt.reason)
		})
	}

	_, err := validate.Plan(p, []domain.Step{{Action: "teleport"}})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestPlan_GoalNotReached(t *testing.T) {
	p := chainProblem(t)

	_, err := validate.Plan(p, []domain.Step{nav("base", "reception")})
	assert.ErrorIs(t, err, domain.ErrGoalNotReached)

	var gErr *domain.GoalNotReachedError
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, []string{"(at r1 room)"}, gErr.Unmet)

	_, err = validate.Plan(p, nil)
	assert.ErrorIs(t, err, domain.ErrGoalNotReached)
}
