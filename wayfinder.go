package wayfinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/wayfinder/internal/search"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ground"
	"github.com/aretw0/wayfinder/pkg/invariant"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/registry"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Auto picks astar when navigation predicates are configured and bfs otherwise.
const Auto = "auto"

// Heuristic names accepted by WithHeuristic.
const (
	HeuristicBlank     = "blank"
	HeuristicGoalCount = "goalcount"
	HeuristicAdjacency = "adjacency"
)

// Planner is the high-level entry point of the library. It runs the
// invariant checks, grounds the problem, searches for a plan, certifies it
// with the validator and condenses everything into a domain.Report.
//
// A Planner is safe for concurrent use.
type Planner struct {
	strategy   string
	heuristic  string
	budget     search.Budget
	maxActions int
	adjacency  string
	location   string
	checkers   []invariant.Checker
	hooks      domain.SearchHooks
	store      ports.ReportStore
	registry   *registry.Registry
	logger     *slog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithStrategy selects the search strategy by name (default: bfs).
// "auto" is accepted in addition to the search strategies.
func WithStrategy(name string) Option {
	return func(p *Planner) {
		p.strategy = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithHeuristic selects the heuristic of informed strategies by name.
// When unset, adjacency is used if navigation is configured, otherwise
// blank for astar and goalcount for greedy.
func WithHeuristic(name string) Option {
	return func(p *Planner) {
		p.heuristic = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithMaxNodes caps the number of expansions per search.
func WithMaxNodes(n int) Option {
	return func(p *Planner) {
		p.budget.MaxNodes = n
	}
}

// WithTimeout caps the wall-clock time of each search.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.budget.Timeout = d
	}
}

// WithMaxActions caps the size of the ground action set.
func WithMaxActions(n int) Option {
	return func(p *Planner) {
		p.maxActions = n
	}
}

// WithNavigation declares the binary adjacency predicate and the binary
// location predicate of a navigation-style domain. It enables the
// adjacency heuristic and the symmetry, isolation and reachability checks.
func WithNavigation(adjacency, location string) Option {
	return func(p *Planner) {
		p.adjacency = adjacency
		p.location = location
	}
}

// WithCheckers registers additional pre-flight checks.
func WithCheckers(checkers ...invariant.Checker) Option {
	return func(p *Planner) {
		p.checkers = append(p.checkers, checkers...)
	}
}

// WithHooks registers observability hooks passed to every search.
func WithHooks(hooks domain.SearchHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithStore persists every report produced by the planner.
func WithStore(store ports.ReportStore) Option {
	return func(p *Planner) {
		p.store = store
	}
}

// WithRegistry shares a domain registry with the planner.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Planner) {
		p.registry = r
	}
}

// WithLogger sets a custom structured logger for the planner.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New initializes a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		strategy: string(search.BFS),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.registry == nil {
		p.registry = registry.New()
	}
	return p
}

// Registry returns the domains known to the planner.
func (p *Planner) Registry() *registry.Registry {
	return p.registry
}

// With returns a copy of the planner with opts applied on top of its
// configuration. The copy shares the registry, store and hooks.
func (p *Planner) With(opts ...Option) *Planner {
	c := *p
	c.checkers = slices.Clone(p.checkers)
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Load reads a problem through loader and binds it with Resolve.
func (p *Planner) Load(ctx context.Context, loader ports.DefinitionLoader, problemID string) (*domain.Problem, error) {
	spec, err := loader.LoadProblem(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %q: %w", problemID, err)
	}
	return p.Resolve(ctx, loader, spec)
}

// Resolve loads and registers the domain spec references, then binds spec
// to it. The domain is looked up by ID first and then by name among the
// listed definitions; a domain already registered under that name is used
// when the loader has none. A nil loader only consults the registry.
func (p *Planner) Resolve(ctx context.Context, loader ports.DefinitionLoader, spec domain.ProblemSpec) (*domain.Problem, error) {
	if loader == nil {
		return p.registry.Problem(spec)
	}

	ds, err := loadDomain(ctx, loader, spec.Domain)
	switch {
	case errors.Is(err, domain.ErrDefinitionNotFound):
		if _, rerr := p.registry.Domain(spec.Domain); rerr != nil {
			return nil, fmt.Errorf("failed to load domain %q: %w", spec.Domain, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load domain %q: %w", spec.Domain, err)
	default:
		return p.Bind(ds, spec)
	}
	return p.registry.Problem(spec)
}

// Bind registers d and binds pr to that domain, whatever else is
// registered under the same name by the time pr is checked.
func (p *Planner) Bind(d domain.DomainSpec, pr domain.ProblemSpec) (*domain.Problem, error) {
	dom, err := p.registry.Load(d)
	if err != nil {
		return nil, err
	}
	return domain.NewProblem(dom, pr)
}

func loadDomain(ctx context.Context, loader ports.DefinitionLoader, name string) (domain.DomainSpec, error) {
	ds, err := loader.LoadDomain(ctx, name)
	if !errors.Is(err, domain.ErrDefinitionNotFound) {
		return ds, err
	}
	refs, lerr := loader.List(ctx)
	if lerr != nil {
		return domain.DomainSpec{}, lerr
	}
	for _, ref := range refs {
		if ref.Kind == ports.KindDomain && ref.Name == name {
			return loader.LoadDomain(ctx, ref.ID)
		}
	}
	return domain.DomainSpec{}, err
}

// StrategyInfo describes a selectable strategy.
type StrategyInfo = search.StrategyInfo

// Strategies lists the selectable strategies in preference order, "auto" first.
func Strategies() []StrategyInfo {
	auto := StrategyInfo{
		Name:        search.Strategy(Auto),
		Description: "astar with the adjacency heuristic for navigation domains, otherwise bfs",
		Optimal:     true,
	}
	return append([]StrategyInfo{auto}, search.Strategies()...)
}

func (p *Planner) resolveStrategy(name string) (search.Strategy, error) {
	if name == "" || name == Auto {
		if p.adjacency != "" {
			return search.AStar, nil
		}
		return search.BFS, nil
	}
	return search.ParseStrategy(name)
}

// newReport stamps a fresh report for the given problem.
func (p *Planner) newReport(domainName, problemName string) *domain.Report {
	return &domain.Report{
		ID:        uuid.NewString(),
		Domain:    domainName,
		Problem:   problemName,
		CreatedAt: p.now().UTC(),
	}
}

// Fail records err as the outcome of a request that never reached the
// planner, typically a domain or problem that failed to load.
func (p *Planner) Fail(ctx context.Context, domainName, problemName string, err error) (*domain.Report, error) {
	r := p.newReport(domainName, problemName)
	return r, p.finish(ctx, r, err)
}

// finish classifies err into the report, logs and persists it.
// The returned error is err, or a store failure when err is nil.
func (p *Planner) finish(ctx context.Context, r *domain.Report, err error) error {
	r.Outcome = domain.OutcomeOf(err)
	if err != nil {
		r.Detail = err.Error()
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			step := verr.Step
			r.Step = &step
		}
	}

	p.logger.Info("planning finished",
		"report", r.ID,
		"domain", r.Domain,
		"problem", r.Problem,
		"strategy", r.Strategy,
		"outcome", r.Outcome,
		"plan_length", len(r.Plan),
		"warnings", len(r.Warnings))

	if p.store != nil {
		if serr := p.store.Save(ctx, r); serr != nil {
			p.logger.Error("failed to save report", "report", r.ID, "err", serr)
			if err == nil {
				return fmt.Errorf("failed to save report: %w", serr)
			}
		}
	}
	return err
}

// SolveSpecs registers the domain and solves the problem. Malformed input
// is reported with a schema_error or problem_error outcome.
func (p *Planner) SolveSpecs(ctx context.Context, d domain.DomainSpec, pr domain.ProblemSpec) (*domain.Report, error) {
	prob, err := p.Bind(d, pr)
	if err != nil {
		var serr *domain.SchemaError
		if errors.As(err, &serr) {
			return p.Fail(ctx, d.Name, pr.Name, err)
		}
		return p.Fail(ctx, pr.Domain, pr.Name, err)
	}
	return p.Solve(ctx, prob)
}

// SolveSpec solves a problem whose domain is already registered.
func (p *Planner) SolveSpec(ctx context.Context, spec domain.ProblemSpec) (*domain.Report, error) {
	prob, err := p.registry.Problem(spec)
	if err != nil {
		return p.Fail(ctx, spec.Domain, spec.Name, err)
	}
	return p.Solve(ctx, prob)
}

// prepared is the strategy-independent part of a solve: findings of the
// pre-flight checks and the ground action set.
type prepared struct {
	table    *ground.Table
	warnings []string
}

// prepare runs the checks and grounds the problem. A non-nil error is a
// final outcome for every strategy.
func (p *Planner) prepare(ctx context.Context, prob *domain.Problem) (*prepared, error) {
	pre := &prepared{}

	findings, err := p.Check(ctx, prob)
	pre.warnings = findings.Messages()
	if err != nil {
		if ctx.Err() != nil {
			return pre, fmt.Errorf("%w: %v", domain.ErrBudgetExceeded, err)
		}
		return pre, err
	}
	if findings.Fatal() {
		var fatal []string
		for _, f := range findings {
			if f.Severity == invariant.SeverityFatal {
				fatal = append(fatal, f.Message)
			}
		}
		return pre, fmt.Errorf("%w: %s", domain.ErrUnreachable, strings.Join(fatal, "; "))
	}

	var gopts []ground.Option
	if p.maxActions > 0 {
		gopts = append(gopts, ground.WithMaxActions(p.maxActions))
	}
	table, err := ground.Ground(ctx, prob, gopts...)
	if err != nil {
		if errors.Is(err, ground.ErrGroundingLimit) || ctx.Err() != nil {
			return pre, fmt.Errorf("%w: grounding: %v", domain.ErrBudgetExceeded, err)
		}
		return pre, fmt.Errorf("grounding: %w", err)
	}
	for _, u := range table.Ungroundable {
		pre.warnings = append(pre.warnings, "[info] ungroundable: "+u.String())
	}
	pre.table = table
	return pre, nil
}

// Check runs the registered and navigation checks without searching.
func (p *Planner) Check(ctx context.Context, prob *domain.Problem) (invariant.Findings, error) {
	checkers := append([]invariant.Checker(nil), p.checkers...)
	if p.adjacency != "" {
		d := prob.Domain()
		_, hasAdj := d.Predicate(p.adjacency)
		_, hasLoc := d.Predicate(p.location)
		if hasAdj && hasLoc {
			checkers = append(checkers, invariant.Navigation(p.adjacency, p.location)...)
		} else {
			p.logger.Info("navigation predicates not declared by domain, skipping navigation checks",
				"domain", d.Name, "adjacency", p.adjacency, "location", p.location)
		}
	}
	return invariant.Run(ctx, prob, checkers...)
}

// Solve plans for a loaded problem with the configured strategy.
// The report is always returned; the error mirrors a negative outcome so
// callers can use errors.Is with the domain sentinels.
func (p *Planner) Solve(ctx context.Context, prob *domain.Problem) (*domain.Report, error) {
	r := p.newReport(prob.Domain().Name, prob.Name)

	strategy, err := p.resolveStrategy(p.strategy)
	if err != nil {
		return r, p.finish(ctx, r, err)
	}
	r.Strategy = string(strategy)

	pre, err := p.prepare(ctx, prob)
	r.Warnings = pre.warnings
	if err != nil {
		return r, p.finish(ctx, r, err)
	}
	return r, p.finish(ctx, r, p.search(ctx, r, pre, strategy))
}

// Compare solves the problem with several strategies in parallel over one
// ground action set. Reports are returned in the order of strategies. A
// failure in one strategy does not stop the others; the first is returned.
func (p *Planner) Compare(ctx context.Context, prob *domain.Problem, strategies ...string) ([]*domain.Report, error) {
	if len(strategies) == 0 {
		for _, info := range search.Strategies() {
			strategies = append(strategies, string(info.Name))
		}
	}
	resolved := make([]search.Strategy, len(strategies))
	for i, name := range strategies {
		s, err := p.resolveStrategy(strings.ToLower(name))
		if err != nil {
			return nil, err
		}
		resolved[i] = s
	}

	pre, prepErr := p.prepare(ctx, prob)
	reports := make([]*domain.Report, len(resolved))

	var g errgroup.Group
	for i, s := range resolved {
		r := p.newReport(prob.Domain().Name, prob.Name)
		r.Strategy = string(s)
		r.Warnings = append([]string(nil), pre.warnings...)
		reports[i] = r

		g.Go(func() error {
			err := prepErr
			if err == nil {
				err = p.search(ctx, r, pre, s)
			}
			err = p.finish(ctx, r, err)
			if domain.OutcomeOf(err) == domain.OutcomeError {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

// search runs one strategy over the prepared table and certifies the plan.
func (p *Planner) search(ctx context.Context, r *domain.Report, pre *prepared, strategy search.Strategy) error {
	h, warnings, err := p.heuristicFor(pre.table, strategy)
	if err != nil {
		return err
	}
	r.Warnings = append(r.Warnings, warnings...)

	engine := search.New(
		search.WithStrategy(strategy),
		search.WithHeuristic(h),
		search.WithBudget(p.budget),
		search.WithHooks(p.hooks),
		search.WithLogger(p.logger),
	)
	res, err := engine.Search(ctx, pre.table)
	if err != nil {
		return err
	}
	r.Stats = res.Stats
	if res.Outcome != domain.OutcomeSolved {
		return res.Err()
	}

	r.Plan = res.Steps()
	if _, err := validate.Plan(pre.table.Problem, r.Plan); err != nil {
		// A sound search never gets here.
		return fmt.Errorf("plan failed certification: %v", err)
	}
	return nil
}

// heuristicFor builds the heuristic for a strategy. Unavailable heuristics
// fall back to blank with a warning.
func (p *Planner) heuristicFor(t *ground.Table, strategy search.Strategy) (search.Heuristic, []string, error) {
	if strategy == search.BFS || strategy == search.DFS {
		return search.Blank(), nil, nil
	}

	name := p.heuristic
	if name == "" {
		switch {
		case p.adjacency != "":
			name = HeuristicAdjacency
		case strategy == search.Greedy:
			name = HeuristicGoalCount
		default:
			name = HeuristicBlank
		}
	}

	var warnings []string
	switch name {
	case HeuristicBlank:
		return search.Blank(), nil, nil
	case HeuristicGoalCount:
		if strategy == search.AStar {
			warnings = append(warnings, "[warning] heuristic: goalcount is not admissible, the plan may not be optimal")
		}
		return search.GoalCount(t), warnings, nil
	case HeuristicAdjacency:
		if p.adjacency == "" {
			return search.Blank(), []string{"[warning] heuristic: adjacency needs navigation predicates, using blank"}, nil
		}
		h, err := search.Adjacency(t, p.adjacency, p.location)
		if err != nil {
			if errors.Is(err, search.ErrHeuristicUnavailable) {
				return search.Blank(), []string{"[warning] heuristic: " + err.Error() + ", using blank"}, nil
			}
			return nil, nil, err
		}
		return h, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown heuristic %q", name)
	}
}

// Validate replays an externally produced plan. A valid plan yields a
// solved report; a defective one a validation_error report naming the step.
func (p *Planner) Validate(ctx context.Context, prob *domain.Problem, steps []domain.Step) (*domain.Report, *validate.Result, error) {
	r := p.newReport(prob.Domain().Name, prob.Name)
	r.Plan = steps

	res, err := validate.Plan(prob, steps)
	return r, res, p.finish(ctx, r, err)
}
