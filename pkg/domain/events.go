package domain

import (
	"context"
	"time"
)

// SearchStats summarises the work done by one search run.
type SearchStats struct {
	Expanded    int           `json:"expanded"`
	Generated   int           `json:"generated"`
	Duplicates  int           `json:"duplicates"`
	MaxFrontier int           `json:"max_frontier"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// SearchEvent is passed to SearchHooks.
type SearchEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Problem   string      `json:"problem"`
	Strategy  string      `json:"strategy"`
	Depth     int         `json:"depth,omitempty"`
	Outcome   Outcome     `json:"outcome,omitempty"`
	Stats     SearchStats `json:"stats"`
}

// SearchHooks defines callbacks for search observability.
// OnExpand runs once per expanded node and should stay cheap.
type SearchHooks struct {
	OnSearchStart func(context.Context, *SearchEvent)
	OnExpand      func(context.Context, *SearchEvent)
	OnSearchEnd   func(context.Context, *SearchEvent)
}
