package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navigation() *dsl.DomainBuilder {
	return dsl.NewDomain("navigation").
		Type("location").
		Type("robot").
		Predicate("at", "robot", "location").
		Predicate("connected", "location", "location").
		Action("navigate").
		Param("?r", "robot").Param("?from", "location").Param("?to", "location").
		Pre("at", "?r", "?from").Pre("connected", "?from", "?to").
		Add("at", "?r", "?to").
		Del("at", "?r", "?from").
		Done()
}

func TestBuilder_Domain(t *testing.T) {
	d, err := navigation().Build()
	require.NoError(t, err)

	assert.Equal(t, "navigation", d.Name)
	assert.Equal(t, testutils.NavigationDomain().Actions, d.Spec().Actions)

	at, ok := d.Predicate("at")
	require.True(t, ok)
	assert.Equal(t, 2, len(at.Params))
}

func TestBuilder_SimpleFlow(t *testing.T) {
	d, err := navigation().Build()
	require.NoError(t, err)

	p, err := dsl.NewProblem("to-ward", "navigation").
		Objects("robot", "r1").
		Objects("location", "base", "pharmacy", "ward").
		Init("at", "r1", "base").
		Link("connected", "base", "pharmacy").
		Link("connected", "pharmacy", "ward").
		Goal("at", "r1", "ward").
		Build(d)
	require.NoError(t, err)
	assert.Len(t, p.Init(), 5)

	report, err := wayfinder.New().Solve(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, report.Plan, 2)
	assert.Equal(t, "(navigate r1 pharmacy ward)", report.Plan[1].String())
}

func TestBuilder_ActionResumes(t *testing.T) {
	b := dsl.NewDomain("lights").
		Type("lamp").
		Predicate("on", "lamp").
		Action("switch_on").Param("?l", "lamp").PreNot("on", "?l").
		Action("switch_off").Param("?l", "lamp").Pre("on", "?l").Del("on", "?l").
		Done()
	b.Action("switch_on").Add("on", "?l")

	spec := b.Spec()
	require.Len(t, spec.Actions, 2)
	assert.Equal(t, "switch_on", spec.Actions[0].Name)
	assert.Equal(t, []domain.Literal{domain.Pos("on", "?l")}, spec.Actions[0].Add)
	assert.True(t, spec.Actions[0].Pre[0].Negated)

	_, err := b.Build()
	assert.NoError(t, err)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("undeclared type", func(t *testing.T) {
		_, err := dsl.NewDomain("broken").
			Predicate("at", "robot").
			Build()
		var schemaErr *domain.SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("unknown object", func(t *testing.T) {
		d, err := navigation().Build()
		require.NoError(t, err)

		_, err = dsl.NewProblem("lost", "navigation").
			Objects("robot", "r1").
			Init("at", "r1", "mars").
			Goal("at", "r1", "mars").
			Build(d)
		var problemErr *domain.ProblemError
		assert.ErrorAs(t, err, &problemErr)
	})
}

func TestBuilder_GoalNot(t *testing.T) {
	spec := dsl.NewProblem("p", "d").GoalNot("on", "l1").Spec()
	require.Len(t, spec.Goal, 1)
	assert.Equal(t, "(not (on l1))", spec.Goal[0].String())
}
