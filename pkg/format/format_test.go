package format_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvedReport() *domain.Report {
	return &domain.Report{
		ID:       "r-1",
		Domain:   "navigation",
		Problem:  "nav-base-pharmacy",
		Strategy: "bfs",
		Outcome:  domain.OutcomeSolved,
		Plan: []domain.Step{
			{Action: "navigate", Args: []string{"r1", "base", "central_corridor"}},
			{Action: "navigate", Args: []string{"r1", "central_corridor", "pharmacy"}},
		},
	}
}

func unreachableReport() *domain.Report {
	return &domain.Report{ID: "r-2", Outcome: domain.OutcomeUnreachable, Detail: "goal unreachable"}
}

func render(t *testing.T, f format.Format, r *domain.Report, opts format.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, format.Write(&buf, f, r, opts))
	return buf.String()
}

func TestParse(t *testing.T) {
	f, err := format.Parse(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, format.JSON, f)

	_, err = format.Parse("xml")
	assert.Error(t, err)
	assert.Len(t, format.Formats(), 5)
}

func TestHumanize(t *testing.T) {
	labels := map[string]string{"pharmacy": "Pharmacy (ground floor)"}
	assert.Equal(t, "central corridor", format.Humanize("central_corridor", labels))
	assert.Equal(t, "Pharmacy (ground floor)", format.Humanize("pharmacy", labels))
	assert.Equal(t, "room 101", format.Humanize("room_101", nil))
}

func TestRaw(t *testing.T) {
	out := render(t, format.Raw, solvedReport(), format.Options{})
	assert.Equal(t, "(navigate r1 base central_corridor)\n(navigate r1 central_corridor pharmacy)\n; Plan length: 2\n", out)

	out = render(t, format.Raw, unreachableReport(), format.Options{})
	assert.Equal(t, "; unreachable: goal unreachable\n", out)
}

func TestJSON(t *testing.T) {
	var res format.Result
	require.NoError(t, json.Unmarshal([]byte(render(t, format.JSON, solvedReport(), format.Options{})), &res))
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "bfs", res.Planner)
	assert.Equal(t, 2, res.NumActions)
	assert.Equal(t, "pharmacy", res.Destination)
	assert.Equal(t, "(navigate r1 central_corridor pharmacy)", res.Plan[1])

	require.NoError(t, json.Unmarshal([]byte(render(t, format.JSON, unreachableReport(), format.Options{})), &res))
	assert.Equal(t, "unreachable", res.Status)
}

func TestAPI(t *testing.T) {
	opts := format.Options{Labels: map[string]string{"pharmacy": "farmácia"}, Goal: "pharmacy"}

	out := render(t, format.API, solvedReport(), opts)
	assert.JSONEq(t, `{"task":"navigate","destination":"pharmacy","destination_label":"farmácia"}`, out)

	out = render(t, format.API, unreachableReport(), opts)
	assert.JSONEq(t, `{"task":"navigate","destination":"pharmacy","status":"no_path"}`, out)
}

func TestWaypoints(t *testing.T) {
	out := render(t, format.Waypoints, solvedReport(), format.Options{})
	assert.JSONEq(t, `{
		"intent": "NAVIGATE",
		"task": "navigate",
		"destination": "pharmacy",
		"destination_label": "pharmacy",
		"waypoints": ["base", "central_corridor", "pharmacy"],
		"waypoint_labels": ["base", "central corridor", "pharmacy"],
		"priority": "normal",
		"constraints": [],
		"eta_seconds": 60
	}`, out)
}

func TestPretty(t *testing.T) {
	report := solvedReport()
	report.Warnings = []string{"[warning] symmetry: one-way edge"}
	trace := []validate.StepDiff{{Step: 0, Action: "(navigate r1 base central_corridor)", Added: []string{"(at r1 central_corridor)"}}}

	out := render(t, format.Pretty, report, format.Options{Trace: trace})
	assert.Contains(t, out, "# nav-base-pharmacy")
	assert.Contains(t, out, "1. `(navigate r1 base central_corridor)`")
	assert.Contains(t, out, "Destination: **pharmacy**")
	assert.Contains(t, out, "| 1 | `(navigate r1 base central_corridor)` | (at r1 central_corridor) |  |")
	assert.Contains(t, out, "## Warnings")
}

func TestGoalOf(t *testing.T) {
	p := testutils.MustProblem(t, testutils.NavigationDomain(), testutils.Chain("base", "ward"))
	assert.Equal(t, "ward", format.GoalOf(p))
}
