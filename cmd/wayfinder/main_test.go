package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wardPlan = `(navigate r1 base reception)
(navigate r1 reception pharmacy)
(navigate r1 pharmacy ward_a)
`

// library writes the navigation domain and the ward-route problem into a
// fresh directory, plus an empty config directory.
func library(t *testing.T) (dir, configDir string) {
	t.Helper()
	dir = t.TempDir()
	configDir = t.TempDir()
	for _, env := range []string{"WAYFINDER_STRATEGY", "WAYFINDER_FORMAT", "WAYFINDER_STORE", "WAYFINDER_DIR", "WAYFINDER_LIBRARY"} {
		t.Setenv(env, "")
	}

	islands := strings.Replace(testutils.WardRouteYAML, "name: ward-route", "name: islands", 1)
	islands = strings.Replace(islands, "  - (connected pharmacy ward_a)\n  - (connected ward_a pharmacy)\n", "", 1)

	files := map[string]string{
		"navigation.yaml": testutils.NavigationDomainYAML,
		"ward-route.yaml": testutils.WardRouteYAML,
		"islands.yaml":    islands,
		"plan.txt":        wardPlan,
		"bad-plan.txt":    "(navigate r1 base ward_a)\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir, configDir
}

func execute(t *testing.T, dir, configDir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config-dir", configDir, "--dir", dir}, args...)
	code = run(context.Background(), full, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Solve(t *testing.T) {
	dir, configDir := library(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		contains []string
	}{
		{
			name:     "raw plan from library",
			args:     []string{"solve", "ward-route"},
			wantCode: exitSuccess,
			contains: []string{wardPlan, "; Plan length: 3"},
		},
		{
			name:     "problem file",
			args:     []string{"solve", filepath.Join(dir, "ward-route.yaml"), "-s", "astar"},
			wantCode: exitSuccess,
			contains: []string{"; Plan length: 3"},
		},
		{
			name:     "api format with label",
			args:     []string{"solve", "ward-route", "-f", "api", "--label", "ward_a=Ward A"},
			wantCode: exitSuccess,
			contains: []string{`"destination":"ward_a"`, `"destination_label":"Ward A"`},
		},
		{
			name:     "waypoints format",
			args:     []string{"solve", "ward-route", "-f", "waypoints"},
			wantCode: exitSuccess,
			contains: []string{`"waypoints":["base","reception","pharmacy","ward_a"]`, `"eta_seconds":90`},
		},
		{
			name:     "pretty format",
			args:     []string{"solve", "ward-route", "-f", "pretty"},
			wantCode: exitSuccess,
			contains: []string{"# ward-route", "## Trace", "Destination: **ward a**"},
		},
		{
			name:     "unreachable goal",
			args:     []string{"solve", "islands"},
			wantCode: exitNoPlan,
			contains: []string{"; unreachable"},
		},
		{
			name:     "node budget",
			args:     []string{"solve", "ward-route", "--max-nodes", "1"},
			wantCode: exitNoPlan,
			contains: []string{"; budget_exceeded"},
		},
		{
			name:     "unknown format",
			args:     []string{"solve", "ward-route", "-f", "xml"},
			wantCode: exitUsage,
		},
		{
			name:     "unknown strategy",
			args:     []string{"solve", "ward-route", "-s", "dijkstra"},
			wantCode: exitUsage,
		},
		{
			name:     "missing problem",
			args:     []string{"solve", "nowhere"},
			wantCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, dir, configDir, tt.args...)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestRun_SolveOutputFile(t *testing.T) {
	dir, configDir := library(t)
	dest := filepath.Join(t.TempDir(), "plan.txt")

	code, _, stderr := execute(t, dir, configDir, "solve", "ward-route", "-f", "json", "-o", dest)
	require.Equal(t, exitSuccess, code, stderr)

	saved, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, wardPlan+"; Plan length: 3\n", string(saved))

	code, stdout, stderr := execute(t, dir, configDir, "validate", "ward-route", dest)
	assert.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, stdout, "; Plan length: 3")
}

func TestRun_Compare(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, stderr := execute(t, dir, configDir, "solve", "ward-route", "--compare", "-f", "json")
	require.Equal(t, exitSuccess, code, stderr)

	var results []struct {
		Status     string `json:"status"`
		Planner    string `json:"planner"`
		NumActions int    `json:"num_actions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "success", r.Status, r.Planner)
		assert.GreaterOrEqual(t, r.NumActions, 3, r.Planner)
	}
}

func TestRun_Validate(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, _ := execute(t, dir, configDir, "validate", "ward-route", filepath.Join(dir, "plan.txt"))
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "; Plan length: 3")

	code, stdout, stderr := execute(t, dir, configDir, "validate", "ward-route", filepath.Join(dir, "bad-plan.txt"))
	assert.Equal(t, exitNoPlan, code)
	assert.Contains(t, stdout, "; validation_error")
	assert.Contains(t, stderr, "Error:")

	code, stdout, _ = execute(t, dir, configDir, "validate", "ward-route", filepath.Join(dir, "bad-plan.txt"), "-f", "json")
	assert.Equal(t, exitNoPlan, code)
	assert.Contains(t, stdout, `"step": 0`)
}

func TestRun_ValidateStdin(t *testing.T) {
	dir, configDir := library(t)

	var out, errOut bytes.Buffer
	args := []string{"--config-dir", configDir, "--dir", dir, "validate", "ward-route", "-"}
	code := run(context.Background(), args, strings.NewReader(wardPlan), &out, &errOut)
	assert.Equal(t, exitSuccess, code, errOut.String())
}

func TestRun_Check(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, _ := execute(t, dir, configDir, "check", "ward-route")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "No findings.")

	code, stdout, _ = execute(t, dir, configDir, "check", "islands", "--json")
	assert.Equal(t, exitNoPlan, code)
	assert.Contains(t, stdout, "reachability")
}

func TestRun_Graph(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, stderr := execute(t, dir, configDir, "graph", "ward-route", "--solve")
	require.Equal(t, exitSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "graph LR"))
	assert.Contains(t, stdout, "class ward_a current;")

	code, _, _ = execute(t, dir, configDir, "graph", "ward-route", "--relation", "nope")
	assert.Equal(t, exitUsage, code)
}

func TestRun_ListAndStrategies(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, _ := execute(t, dir, configDir, "list")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "navigation")
	assert.Contains(t, stdout, "ward-route")

	code, stdout, _ = execute(t, dir, configDir, "list", "--kind", "domain")
	assert.Equal(t, exitSuccess, code)
	assert.NotContains(t, stdout, "ward-route")

	code, stdout, _ = execute(t, dir, configDir, "strategies")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "bfs (default)")
	assert.Contains(t, stdout, "astar")
}

func TestRun_Reports(t *testing.T) {
	dir, configDir := library(t)
	reports := filepath.Join(t.TempDir(), "reports")
	cfg := "store: file\nreports_dir: " + reports + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "wayfinder.yaml"), []byte(cfg), 0o644))

	code, stdout, stderr := execute(t, dir, configDir, "solve", "ward-route", "-f", "json")
	require.Equal(t, exitSuccess, code, stderr)

	var res struct {
		ReportID string `json:"report_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.NotEmpty(t, res.ReportID)

	code, stdout, _ = execute(t, dir, configDir, "report", "list")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, res.ReportID)

	code, stdout, _ = execute(t, dir, configDir, "report", "show", res.ReportID, "-f", "raw")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "; Plan length: 3")

	code, _, _ = execute(t, dir, configDir, "report", "delete", res.ReportID)
	assert.Equal(t, exitSuccess, code)

	code, _, _ = execute(t, dir, configDir, "report", "show", res.ReportID)
	assert.Equal(t, exitUsage, code)
}

func TestRun_ReportsWithoutStore(t *testing.T) {
	dir, configDir := library(t)

	code, _, stderr := execute(t, dir, configDir, "report", "list")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "no report store configured")
}

func TestRun_Version(t *testing.T) {
	dir, configDir := library(t)

	code, stdout, _ := execute(t, dir, configDir, "version")
	assert.Equal(t, exitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "wayfinder version "))
}

func TestRun_ReportsEncrypted(t *testing.T) {
	dir, configDir := library(t)
	reports := filepath.Join(t.TempDir(), "reports")
	cfg := "store: file\n" +
		"reports_dir: " + reports + "\n" +
		"encryption_key: 000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f\n" +
		"redact: ['^ward_']\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "wayfinder.yaml"), []byte(cfg), 0o644))

	code, stdout, stderr := execute(t, dir, configDir, "solve", "ward-route", "-f", "json")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, stdout, "ward_a", "output is not redacted")

	var res struct {
		ReportID string `json:"report_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))

	raw, err := os.ReadFile(filepath.Join(reports, res.ReportID+".json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "reception", "report body is sealed")

	code, stdout, _ = execute(t, dir, configDir, "report", "show", res.ReportID, "-f", "raw")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "(navigate r1 pharmacy ***)")

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "wayfinder.yaml"), []byte("store: file\nencryption_key: short\n"), 0o644))
	code, _, _ = execute(t, dir, configDir, "solve", "ward-route")
	assert.Equal(t, exitUsage, code)
}
