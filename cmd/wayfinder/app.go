package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	loamAdapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/adapters/sqlite"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/aretw0/wayfinder/pkg/persistence/middleware"
	"github.com/aretw0/wayfinder/pkg/ports"
	"golang.org/x/term"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Exit codes.
const (
	exitSuccess = 0
	exitNoPlan  = 1
	exitUsage   = 2
)

// app holds what every command shares once the config is loaded.
type app struct {
	configDir string
	logLevel  string
	dir       string
	cfg       *Config
	logger    *slog.Logger
	metrics   *observability.Metrics

	closers []func() error
}

func (a *app) init() error {
	cfg, err := loadConfig(resolveConfigDir(a.configDir))
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.dir != "" {
		cfg.Dir = a.dir
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	a.cfg = cfg
	a.logger = logging.New(level)
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// loader opens the definition library named by the config.
func (a *app) loader() (ports.DefinitionLoader, error) {
	switch a.cfg.Library {
	case "", "file":
		return file.NewLoader(a.cfg.Dir), nil
	case "loam":
		return loamAdapter.Open(a.cfg.Dir)
	default:
		return nil, &exitError{code: exitUsage, err: fmt.Errorf("unknown library %q (want file or loam)", a.cfg.Library)}
	}
}

// store opens the report store named by the config, wrapped with the
// configured redaction and encryption; nil means reports are not kept.
func (a *app) store() (ports.ReportStore, error) {
	store, err := a.backend()
	if err != nil || store == nil {
		return store, err
	}

	var mws []middleware.Middleware
	if len(a.cfg.Redact) > 0 {
		mw, err := middleware.NewRedactionMiddleware(a.cfg.Redact)
		if err != nil {
			return nil, &exitError{code: exitUsage, err: err}
		}
		mws = append(mws, mw)
	}
	if a.cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(a.cfg.EncryptionKey)
		if err != nil {
			return nil, &exitError{code: exitUsage, err: err}
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Wrap(store, mws...), nil
}

func (a *app) backend() (ports.ReportStore, error) {
	switch a.cfg.Store {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.NewStore(), nil
	case "file":
		return file.NewStore(a.cfg.ReportsDir), nil
	case "redis":
		s := redisAdapter.New(a.cfg.RedisAddr, "", 0)
		a.closers = append(a.closers, s.Close)
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	default:
		return nil, &exitError{code: exitUsage, err: fmt.Errorf("unknown store %q (want none, memory, file, redis or sqlite)", a.cfg.Store)}
	}
}

// planner builds a Planner from the config with extra options applied last.
func (a *app) planner(store ports.ReportStore, opts ...wayfinder.Option) *wayfinder.Planner {
	base := []wayfinder.Option{
		wayfinder.WithStrategy(a.cfg.Strategy),
		wayfinder.WithTimeout(a.cfg.Timeout),
		wayfinder.WithMaxNodes(a.cfg.MaxNodes),
		wayfinder.WithMaxActions(a.cfg.MaxActions),
		wayfinder.WithLogger(a.logger),
	}
	if a.metrics != nil {
		base = append(base, wayfinder.WithHooks(observability.Chain(observability.LogHooks(a.logger), a.metrics.Hooks())))
	} else {
		base = append(base, wayfinder.WithHooks(observability.LogHooks(a.logger)))
	}
	if a.cfg.Heuristic != "" {
		base = append(base, wayfinder.WithHeuristic(a.cfg.Heuristic))
	}
	if a.cfg.Adjacency != "" && a.cfg.Location != "" {
		base = append(base, wayfinder.WithNavigation(a.cfg.Adjacency, a.cfg.Location))
	}
	if store != nil {
		base = append(base, wayfinder.WithStore(store))
	}
	return wayfinder.New(append(base, opts...)...)
}

// problem resolves arg to a problem. An existing .yaml, .yml or .json file
// is read directly; anything else is an ID in the definition library. An
// explicit domain file takes precedence over the library.
func (a *app) problem(ctx context.Context, planner *wayfinder.Planner, loader ports.DefinitionLoader, arg, domainFile string) (*domain.Problem, error) {
	var (
		spec domain.ProblemSpec
		err  error
	)
	if isDefinitionFile(arg) {
		spec, err = readProblem(arg)
	} else {
		spec, err = loader.LoadProblem(ctx, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %q: %w", arg, err)
	}

	if domainFile == "" {
		return planner.Resolve(ctx, loader, spec)
	}
	ds, err := readDomain(domainFile)
	if err != nil {
		return nil, err
	}
	return planner.Bind(ds, spec)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readDoc(path string, want ports.Kind) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := file.Parse(path, data)
	if err != nil {
		return nil, err
	}
	kind, err := file.KindOf(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if kind != want {
		return nil, fmt.Errorf("%s: is a %s, expected a %s", path, kind, want)
	}
	return raw, nil
}

func readDomain(path string) (domain.DomainSpec, error) {
	raw, err := readDoc(path, ports.KindDomain)
	if err != nil {
		return domain.DomainSpec{}, err
	}
	return file.DecodeDomain(raw)
}

func readProblem(path string) (domain.ProblemSpec, error) {
	raw, err := readDoc(path, ports.KindProblem)
	if err != nil {
		return domain.ProblemSpec{}, err
	}
	return file.DecodeProblem(raw)
}

// readPlan reads a plan file, or standard input for "-".
func readPlan(path string, stdin io.Reader) ([]domain.Step, error) {
	if path == "-" {
		return domain.ParsePlan(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return domain.ParsePlan(f)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// render writes the report in format f. Pretty output goes through glamour
// when w is a terminal and stays plain Markdown otherwise.
func render(w io.Writer, f format.Format, r *domain.Report, opts format.Options) error {
	if f != format.Pretty || !isTerminal(w) {
		return format.Write(w, f, r, opts)
	}
	width := 0
	if fd, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(fd.Fd())); err == nil {
			width = cols
		}
	}
	renderer, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := renderer(format.Markdown(r, opts))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// outcomeError turns a non-solved report into an exit code.
func outcomeError(r *domain.Report, err error) error {
	if r.Solved() {
		return err
	}
	code := exitNoPlan
	switch r.Outcome {
	case domain.OutcomeSchemaError, domain.OutcomeProblemError, domain.OutcomeError:
		code = exitUsage
	}
	return &exitError{code: code, err: err}
}

// labels merges the configured labels with per-command overrides.
func (a *app) labels(overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(a.cfg.Labels)+len(overrides))
	for k, v := range a.cfg.Labels {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// statusLine is a short coloured summary for stderr.
func statusLine(w io.Writer, r *domain.Report) {
	if !isTerminal(w) {
		return
	}
	fmt.Fprintf(w, "%s %s/%s (%d steps, %d nodes, %s)",
		tui.Status(r.Outcome), r.Domain, r.Problem, len(r.Plan), r.Stats.Expanded, r.Stats.Elapsed)
	if r.ID != "" {
		fmt.Fprintf(w, " report %s", r.ID)
	}
	fmt.Fprintln(w)
}
