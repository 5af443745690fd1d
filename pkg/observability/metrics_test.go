package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_RecordsSearches(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	planner := wayfinder.New(wayfinder.WithHooks(metrics.Hooks()))
	ctx := context.Background()
	_, err = planner.SolveSpecs(ctx, testutils.NavigationDomain(), testutils.Chain("a", "b", "c"))
	require.NoError(t, err)
	_, _ = planner.SolveSpecs(ctx, testutils.NavigationDomain(),
		testutils.NavigationProblem([]string{"a", "b"}, nil, false, "a", "b"))

	out := scrape(t, reg)
	assert.Contains(t, out, `wayfinder_searches_total{outcome="solved",strategy="bfs"} 1`)
	assert.Contains(t, out, `wayfinder_searches_total{outcome="unreachable",strategy="bfs"} 1`)
	assert.Contains(t, out, `wayfinder_search_duration_seconds_count{strategy="bfs"} 2`)
	assert.Contains(t, out, `wayfinder_search_expanded_nodes_count{strategy="bfs"} 2`)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChain_RunsInOrder(t *testing.T) {
	var calls []string
	record := func(name string) domain.SearchHooks {
		return domain.SearchHooks{
			OnSearchEnd: func(context.Context, *domain.SearchEvent) { calls = append(calls, name) },
		}
	}

	hooks := observability.Chain(record("first"), domain.SearchHooks{}, record("second"))
	assert.Nil(t, hooks.OnSearchStart)
	require.NotNil(t, hooks.OnSearchEnd)

	hooks.OnSearchEnd(context.Background(), &domain.SearchEvent{})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	hooks := observability.LogHooks(logger)

	ev := &domain.SearchEvent{
		Problem:  "nav-a-b",
		Strategy: "bfs",
		Outcome:  domain.OutcomeSolved,
		Stats:    domain.SearchStats{Expanded: 3, Elapsed: time.Millisecond},
	}
	hooks.OnSearchStart(context.Background(), ev)
	hooks.OnExpand(context.Background(), ev)
	hooks.OnSearchEnd(context.Background(), ev)

	out := buf.String()
	assert.Contains(t, out, `"msg":"search_start"`)
	assert.Contains(t, out, `"msg":"search_end"`)
	assert.Contains(t, out, `"outcome":"solved"`)
	assert.NotContains(t, out, "search_expand")
}
