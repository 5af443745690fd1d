// Package search explores the state space of a grounded problem.
//
// An Engine is configured once and may run any number of searches
// concurrently: each call to Search owns its frontier and visited set,
// while the ground.Table is shared read-only.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ground"
	"github.com/aretw0/wayfinder/pkg/state"
)

// Budget bounds a search run. Zero values mean unbounded.
type Budget struct {
	MaxNodes int           `json:"max_nodes,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// Result is the outcome of one search run.
// Outcome is one of solved, unreachable or budget_exceeded.
type Result struct {
	Strategy  Strategy
	Heuristic string
	Outcome   domain.Outcome
	Plan      []*ground.Action
	Stats     domain.SearchStats
	Reason    string
}

// Steps returns the plan as named steps.
func (r *Result) Steps() []domain.Step {
	steps := make([]domain.Step, len(r.Plan))
	for i, a := range r.Plan {
		steps[i] = a.Step()
	}
	return steps
}

// Err maps a negative outcome to its sentinel error.
func (r *Result) Err() error {
	switch r.Outcome {
	case domain.OutcomeUnreachable:
		return domain.ErrUnreachable
	case domain.OutcomeBudgetExceeded:
		return fmt.Errorf("%w: %s", domain.ErrBudgetExceeded, r.Reason)
	}
	return nil
}

type node struct {
	state  *state.State
	key    string
	parent *node
	action *ground.Action
	g      int
	h      int
	f      int
	seq    int
}

// Engine runs searches with a fixed configuration.
type Engine struct {
	strategy  Strategy
	heuristic Heuristic
	budget    Budget
	logger    *slog.Logger
	hooks     domain.SearchHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the frontier discipline (default: bfs).
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithHeuristic sets the heuristic used by informed strategies (default: blank).
func WithHeuristic(h Heuristic) Option {
	return func(e *Engine) {
		e.heuristic = h
	}
}

// WithBudget bounds every search run.
func WithBudget(b Budget) Option {
	return func(e *Engine) {
		e.budget = b
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.SearchHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategy:  BFS,
		heuristic: Blank(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.heuristic == nil {
		e.heuristic = Blank()
	}
	return e
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Search looks for a plan from the initial state of t to a goal state.
// A nil error means the search ran; the Result carries the outcome.
func (e *Engine) Search(ctx context.Context, t *ground.Table) (*Result, error) {
	if _, err := ParseStrategy(string(e.strategy)); err != nil {
		return nil, err
	}

	run := &run{
		engine:  e,
		table:   t,
		started: time.Now(),
		result: &Result{
			Strategy:  e.strategy,
			Heuristic: e.heuristic.Name(),
		},
	}
	if e.budget.Timeout > 0 {
		run.deadline = run.started.Add(e.budget.Timeout)
	}

	e.logger.Debug("search started",
		"problem", t.Problem.Name,
		"strategy", e.strategy,
		"heuristic", e.heuristic.Name(),
		"actions", len(t.Actions),
		"atoms", t.NumAtoms())
	e.emit(ctx, e.hooks.OnSearchStart, run.event(0))

	if e.strategy.informed() {
		run.bestFirst(ctx)
	} else {
		run.blind(ctx)
	}

	res := run.result
	res.Stats.Elapsed = time.Since(run.started)
	e.logger.Debug("search finished",
		"problem", t.Problem.Name,
		"outcome", res.Outcome,
		"plan_length", len(res.Plan),
		"expanded", res.Stats.Expanded,
		"generated", res.Stats.Generated,
		"elapsed", res.Stats.Elapsed)
	e.emit(ctx, e.hooks.OnSearchEnd, run.event(len(res.Plan)))
	return res, nil
}

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.SearchEvent), ev *domain.SearchEvent) {
	if hook != nil {
		hook(ctx, ev)
	}
}

type run struct {
	engine   *Engine
	table    *ground.Table
	started  time.Time
	deadline time.Time
	result   *Result
	seq      int
}

func (r *run) event(depth int) *domain.SearchEvent {
	return &domain.SearchEvent{
		Timestamp: time.Now(),
		Problem:   r.table.Problem.Name,
		Strategy:  string(r.engine.strategy),
		Depth:     depth,
		Outcome:   r.result.Outcome,
		Stats:     r.result.Stats,
	}
}

func (r *run) newNode(s *state.State, parent *node, a *ground.Action) *node {
	r.seq++
	n := &node{state: s, key: s.Key(), parent: parent, action: a, seq: r.seq}
	if parent != nil {
		n.g = parent.g + 1
	}
	return n
}

// exhausted checks the budget before an expansion and records the reason.
func (r *run) exhausted(ctx context.Context) bool {
	var reason string
	switch {
	case r.engine.budget.MaxNodes > 0 && r.result.Stats.Expanded >= r.engine.budget.MaxNodes:
		reason = fmt.Sprintf("node budget of %d expansions reached", r.engine.budget.MaxNodes)
	case !r.deadline.IsZero() && time.Now().After(r.deadline):
		reason = fmt.Sprintf("timeout after %s", r.engine.budget.Timeout)
	case ctx.Err() != nil:
		reason = ctx.Err().Error()
	default:
		return false
	}
	r.result.Outcome = domain.OutcomeBudgetExceeded
	r.result.Reason = reason
	return true
}

func (r *run) expand(ctx context.Context, n *node) {
	r.result.Stats.Expanded++
	if r.engine.hooks.OnExpand != nil {
		r.engine.hooks.OnExpand(ctx, r.event(n.g))
	}
}

func (r *run) track(f frontier) {
	if l := f.len(); l > r.result.Stats.MaxFrontier {
		r.result.Stats.MaxFrontier = l
	}
}

func (r *run) solved(n *node) {
	var plan []*ground.Action
	for cur := n; cur.parent != nil; cur = cur.parent {
		plan = append(plan, cur.action)
	}
	for i, j := 0, len(plan)-1; i < j; i, j = i+1, j-1 {
		plan[i], plan[j] = plan[j], plan[i]
	}
	r.result.Outcome = domain.OutcomeSolved
	r.result.Plan = plan
}

// blind runs breadth-first or depth-first search. The goal test happens
// when a node is generated, which keeps breadth-first plans shortest.
func (r *run) blind(ctx context.Context) {
	root := r.newNode(state.Initial(r.table), nil, nil)
	if state.Satisfies(root.state, r.table.Goal) {
		r.solved(root)
		return
	}

	visited := map[string]struct{}{root.key: {}}
	open := newFrontier(r.engine.strategy)
	open.push(root)
	r.track(open)

	for open.len() > 0 {
		if r.exhausted(ctx) {
			return
		}
		n := open.pop()
		r.expand(ctx, n)

		for a, next := range state.Successors(n.state, r.table.Actions) {
			r.result.Stats.Generated++
			child := r.newNode(next, n, a)
			if _, seen := visited[child.key]; seen {
				r.result.Stats.Duplicates++
				continue
			}
			visited[child.key] = struct{}{}
			if state.Satisfies(next, r.table.Goal) {
				r.solved(child)
				return
			}
			open.push(child)
		}
		r.track(open)
	}
	r.result.Outcome = domain.OutcomeUnreachable
}

// bestFirst runs A* or greedy search. The goal test happens on expansion,
// and a state is reopened when reached again through a cheaper path.
func (r *run) bestFirst(ctx context.Context) {
	h := r.engine.heuristic
	root := r.newNode(state.Initial(r.table), nil, nil)
	root.h = h.Estimate(root.state)
	if root.h >= Infinite {
		r.result.Outcome = domain.OutcomeUnreachable
		return
	}

	bestG := map[string]int{root.key: 0}
	open := newFrontier(r.engine.strategy)
	open.push(root)
	r.track(open)

	for open.len() > 0 {
		if r.exhausted(ctx) {
			return
		}
		n := open.pop()
		if g := bestG[n.key]; n.g > g {
			continue
		}
		if state.Satisfies(n.state, r.table.Goal) {
			r.solved(n)
			return
		}
		r.expand(ctx, n)

		for a, next := range state.Successors(n.state, r.table.Actions) {
			r.result.Stats.Generated++
			child := r.newNode(next, n, a)
			if g, seen := bestG[child.key]; seen && g <= child.g {
				r.result.Stats.Duplicates++
				continue
			}
			child.h = h.Estimate(next)
			if child.h >= Infinite {
				continue
			}
			bestG[child.key] = child.g
			open.push(child)
		}
		r.track(open)
	}
	r.result.Outcome = domain.OutcomeUnreachable
}
