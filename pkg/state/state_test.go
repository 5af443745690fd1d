package state_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ground"
	"github.com/aretw0/wayfinder/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainTable(t *testing.T, locations ...string) *ground.Table {
	t.Helper()
	p := testutils.MustProblem(t, testutils.NavigationDomain(), testutils.Chain(locations...))
	table, err := ground.Ground(context.Background(), p)
	require.NoError(t, err)
	return table
}

func TestState_BitsetBasics(t *testing.T) {
	s := state.New(130, 0, 64, 129)
	assert.True(t, s.Has(64))
	assert.False(t, s.Has(65))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []ground.AtomID{0, 64, 129}, s.Atoms())

	same := state.New(130, 129, 0, 64)
	assert.Equal(t, s.Key(), same.Key())
	assert.True(t, s.Equal(same))
	assert.NotEqual(t, s.Key(), state.New(130, 0, 64).Key())
}

func TestSuccessors_OnlyApplicable(t *testing.T) {
	table := chainTable(t, "base", "reception", "corridor")
	s := state.Initial(table)

	var steps []string
	for a, next := range state.Successors(s, table.Actions) {
		steps = append(steps, a.String())
		assert.True(t, next.Has(a.Add[0]))
		assert.False(t, next.Has(a.Del[0]))
	}
	assert.Equal(t, []string{"(navigate r1 base reception)"}, steps)

	// the source state is untouched
	assert.True(t, s.Equal(state.Initial(table)))
}

func TestSuccessors_StopsEarly(t *testing.T) {
	spec := testutils.NavigationProblem([]string{"hub", "a", "b", "c"},
		[][2]string{{"hub", "a"}, {"hub", "b"}, {"hub", "c"}}, true, "hub", "c")
	p := testutils.MustProblem(t, testutils.NavigationDomain(), spec)
	table, err := ground.Ground(context.Background(), p)
	require.NoError(t, err)

	total := 0
	for range state.Successors(state.Initial(table), table.Actions) {
		total++
	}
	assert.Equal(t, 3, total)

	calls := 0
	for range state.Successors(state.Initial(table), table.Actions) {
		calls++
		break
	}
	assert.Equal(t, 1, calls)
}

func TestApply_AddWinsOverDelete(t *testing.T) {
	table := chainTable(t, "base", "pharmacy")
	// navigate r1 base base: at r1 base is both deleted and added
	loop, ok := table.Lookup(domain.Step{Action: "navigate", Args: []string{"r1", "base", "base"}})
	require.True(t, ok)

	s := state.Initial(table)
	assert.False(t, state.Applicable(s, loop), "no (connected base base) edge")

	next := state.Apply(s, loop)
	assert.True(t, next.Has(loop.Add[0]))
	assert.True(t, next.Equal(s))
}

func TestHolds_ClosedWorld(t *testing.T) {
	table := chainTable(t, "base", "pharmacy")
	s := state.Initial(table)
	atBase := table.Init[0]

	assert.True(t, state.Holds(s, ground.Literal{Atom: atBase}))
	assert.False(t, state.Holds(s, ground.Literal{Atom: atBase, Negated: true}))
	assert.False(t, state.Satisfies(s, table.Goal))
}
