package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the search collectors.
type Metrics struct {
	Searches *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Expanded *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_searches_total",
				Help: "Total number of finished searches",
			},
			[]string{"strategy", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wayfinder_search_duration_seconds",
				Help:    "Wall-clock duration of searches",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"strategy"},
		),
		Expanded: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wayfinder_search_expanded_nodes",
				Help:    "Nodes expanded per search",
				Buckets: prometheus.ExponentialBuckets(1, 10, 7),
			},
			[]string{"strategy"},
		),
	}
	for _, c := range []prometheus.Collector{m.Searches, m.Duration, m.Expanded} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records every finished search.
func (m *Metrics) Hooks() domain.SearchHooks {
	return domain.SearchHooks{
		OnSearchEnd: func(_ context.Context, e *domain.SearchEvent) {
			m.Searches.WithLabelValues(e.Strategy, string(e.Outcome)).Inc()
			m.Duration.WithLabelValues(e.Strategy).Observe(e.Stats.Elapsed.Seconds())
			m.Expanded.WithLabelValues(e.Strategy).Observe(float64(e.Stats.Expanded))
		},
	}
}

// LogHooks logs search start and end. Expansions are only logged when the
// logger is enabled for a level below Debug.
func LogHooks(logger *slog.Logger) domain.SearchHooks {
	return domain.SearchHooks{
		OnSearchStart: func(ctx context.Context, e *domain.SearchEvent) {
			logger.InfoContext(ctx, "search_start",
				"problem", e.Problem,
				"strategy", e.Strategy,
			)
		},
		OnExpand: func(ctx context.Context, e *domain.SearchEvent) {
			if logger.Enabled(ctx, slog.LevelDebug-4) {
				logger.Log(ctx, slog.LevelDebug-4, "search_expand",
					"problem", e.Problem,
					"depth", e.Depth,
					"expanded", e.Stats.Expanded,
				)
			}
		},
		OnSearchEnd: func(ctx context.Context, e *domain.SearchEvent) {
			logger.InfoContext(ctx, "search_end",
				"problem", e.Problem,
				"strategy", e.Strategy,
				"outcome", e.Outcome,
				"depth", e.Depth,
				"expanded", e.Stats.Expanded,
				"generated", e.Stats.Generated,
				"elapsed", e.Stats.Elapsed,
			)
		},
	}
}

// Chain combines several hook sets; each callback runs in order.
func Chain(sets ...domain.SearchHooks) domain.SearchHooks {
	var starts, expands, ends []func(context.Context, *domain.SearchEvent)
	for _, s := range sets {
		if s.OnSearchStart != nil {
			starts = append(starts, s.OnSearchStart)
		}
		if s.OnExpand != nil {
			expands = append(expands, s.OnExpand)
		}
		if s.OnSearchEnd != nil {
			ends = append(ends, s.OnSearchEnd)
		}
	}
	return domain.SearchHooks{
		OnSearchStart: fanOut(starts),
		OnExpand:      fanOut(expands),
		OnSearchEnd:   fanOut(ends),
	}
}

func fanOut(fns []func(context.Context, *domain.SearchEvent)) func(context.Context, *domain.SearchEvent) {
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, e *domain.SearchEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
