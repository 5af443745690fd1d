package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/invariant"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodyBytes bounds request bodies; larger problems belong in the definition library.
const maxBodyBytes = 4 << 20

// Spec parses and validates the embedded OpenAPI document.
func Spec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// Server serves the planner over HTTP.
type Server struct {
	Planner  *wayfinder.Planner
	Loader   ports.DefinitionLoader
	Store    ports.ReportStore
	Gatherer prometheus.Gatherer
	Labels   map[string]string
	Logger   *slog.Logger

	apiVersion string
}

// Option configures the Server.
type Option func(*Server)

// WithLoader resolves problem_id requests through loader.
func WithLoader(loader ports.DefinitionLoader) Option {
	return func(s *Server) { s.Loader = loader }
}

// WithStore serves stored reports under /reports.
func WithStore(store ports.ReportStore) Option {
	return func(s *Server) { s.Store = store }
}

// WithGatherer exposes the gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLabels sets the display labels used by the api and waypoints formats.
func WithLabels(labels map[string]string) Option {
	return func(s *Server) { s.Labels = labels }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// NewHandler creates a new HTTP handler for the planner.
func NewHandler(planner *wayfinder.Planner, opts ...Option) (http.Handler, error) {
	s := &Server{Planner: planner}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc, err := Spec(context.Background())
	if err != nil {
		return nil, err
	}
	s.apiVersion = doc.Info.Version

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/strategies", s.ListStrategies)
	r.Get("/definitions", s.ListDefinitions)
	r.Post("/solve", s.Solve)
	r.Post("/validate", s.Validate)
	r.Post("/check", s.Check)
	r.Get("/reports", s.ListReports)
	r.Get("/reports/{id}", s.GetReport)
	r.Delete("/reports/{id}", s.DeleteReport)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProblemRequest names the problem to work on: a problem_id resolved by the
// definition loader, or an inline problem with an optional inline domain.
type ProblemRequest struct {
	ProblemID string              `json:"problem_id,omitempty"`
	Domain    *domain.DomainSpec  `json:"domain,omitempty"`
	Problem   *domain.ProblemSpec `json:"problem,omitempty"`
}

// SolveRequest is the body of POST /solve.
type SolveRequest struct {
	ProblemRequest
	Strategy  string `json:"strategy,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
	Format    string `json:"format,omitempty"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	ProblemRequest
	Plan []string `json:"plan"`
}

// ValidateResponse is the reply of POST /validate.
type ValidateResponse struct {
	Report  string              `json:"report_id"`
	Valid   bool                `json:"valid"`
	Outcome domain.Outcome      `json:"outcome"`
	Detail  string              `json:"detail,omitempty"`
	Step    *int                `json:"step,omitempty"`
	Final   []string            `json:"final,omitempty"`
	Trace   []validate.StepDiff `json:"trace,omitempty"`
}

// CheckResponse is the reply of POST /check.
type CheckResponse struct {
	Fatal    bool               `json:"fatal"`
	Findings invariant.Findings `json:"findings"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Outcome domain.Outcome `json:"outcome,omitempty"`
	Report  string         `json:"report_id,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "wayfinder-http",
		"version":     strings.TrimSpace(wayfinder.Version),
		"api_version": s.apiVersion,
	})
}

// ListStrategies handles the GET /strategies request.
func (s *Server) ListStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wayfinder.Strategies())
}

// ListDefinitions handles the GET /definitions request.
func (s *Server) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	if s.Loader == nil {
		writeJSON(w, http.StatusOK, []ports.DefinitionRef{})
		return
	}
	refs, err := s.Loader.List(r.Context())
	if err != nil {
		s.Logger.Error("ListDefinitions failed", "err", err)
		writeError(w, http.StatusInternalServerError, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

// Solve handles the POST /solve request.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	var body SolveRequest
	if !s.decode(w, r, &body) {
		return
	}
	f := format.JSON
	if body.Format != "" {
		parsed, err := format.Parse(body.Format)
		if err != nil || (parsed != format.JSON && parsed != format.API && parsed != format.Waypoints) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", body.Format), nil)
			return
		}
		f = parsed
	}

	var opts []wayfinder.Option
	if body.Strategy != "" {
		opts = append(opts, wayfinder.WithStrategy(body.Strategy))
	}
	if body.Heuristic != "" {
		opts = append(opts, wayfinder.WithHeuristic(body.Heuristic))
	}
	planner := s.Planner.With(opts...)

	prob, report, err := s.resolve(r.Context(), planner, body.ProblemRequest)
	if err == nil {
		report, err = planner.Solve(r.Context(), prob)
	}
	if status := statusOf(report.Outcome, err); status != http.StatusOK {
		writeError(w, status, err, report)
		return
	}

	var opt format.Options
	opt.Labels = s.Labels
	if prob != nil {
		opt.Goal = format.GoalOf(prob)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := format.Write(w, f, report, opt); err != nil {
		s.Logger.Error("Solve response encode failed", "err", err)
	}
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if !s.decode(w, r, &body) {
		return
	}
	steps, err := domain.ParsePlan(strings.NewReader(strings.Join(body.Plan, "\n")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	prob, report, err := s.resolve(r.Context(), s.Planner, body.ProblemRequest)
	if err != nil {
		writeError(w, statusOf(report.Outcome, err), err, report)
		return
	}

	report, res, err := s.Planner.Validate(r.Context(), prob, steps)
	resp := ValidateResponse{
		Report:  report.ID,
		Valid:   err == nil,
		Outcome: report.Outcome,
		Detail:  report.Detail,
		Step:    report.Step,
	}
	if res != nil {
		resp.Final = res.Final
		resp.Trace = res.Trace
	}
	writeJSON(w, http.StatusOK, resp)
}

// Check handles the POST /check request.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	var body ProblemRequest
	if !s.decode(w, r, &body) {
		return
	}
	prob, report, err := s.resolve(r.Context(), s.Planner, body)
	if err != nil {
		writeError(w, statusOf(report.Outcome, err), err, report)
		return
	}

	findings, err := s.Planner.Check(r.Context(), prob)
	if err != nil {
		s.Logger.Error("Check failed", "err", err)
		writeError(w, http.StatusInternalServerError, err, nil)
		return
	}
	if findings == nil {
		findings = invariant.Findings{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{Fatal: findings.Fatal(), Findings: findings})
}

// ListReports handles the GET /reports request.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("ListReports failed", "err", err)
		writeError(w, http.StatusInternalServerError, err, nil)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetReport handles the GET /reports/{id} request.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.Store == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id), nil)
		return
	}
	report, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, err, nil)
		return
	}
	if err != nil {
		s.Logger.Error("GetReport failed", "report", id, "err", err)
		writeError(w, http.StatusInternalServerError, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles the DELETE /reports/{id} request.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.Store != nil {
		if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.Logger.Error("DeleteReport failed", "err", err)
			writeError(w, http.StatusInternalServerError, err, nil)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolve turns a request into a problem. On failure the returned report
// records the outcome and has been persisted by the planner.
func (s *Server) resolve(ctx context.Context, planner *wayfinder.Planner, req ProblemRequest) (*domain.Problem, *domain.Report, error) {
	fail := func(domainName, problemName string, err error) (*domain.Problem, *domain.Report, error) {
		report, err := planner.Fail(ctx, domainName, problemName, err)
		return nil, report, err
	}

	switch {
	case req.ProblemID != "" && req.Problem != nil:
		return fail("", req.ProblemID, errors.New("problem_id and problem are mutually exclusive"))
	case req.ProblemID != "":
		if s.Loader == nil {
			return fail("", req.ProblemID, errors.New("no definition library configured"))
		}
		prob, err := planner.Load(ctx, s.Loader, req.ProblemID)
		if err != nil {
			return fail("", req.ProblemID, err)
		}
		return prob, nil, nil
	case req.Problem == nil:
		return fail("", "", errors.New("problem_id or problem is required"))
	}

	var (
		prob *domain.Problem
		err  error
	)
	if req.Domain != nil {
		prob, err = planner.Bind(*req.Domain, *req.Problem)
		var serr *domain.SchemaError
		if errors.As(err, &serr) {
			return fail(req.Domain.Name, req.Problem.Name, err)
		}
	} else {
		prob, err = planner.Resolve(ctx, s.Loader, *req.Problem)
	}
	if err != nil {
		return fail(req.Problem.Domain, req.Problem.Name, err)
	}
	return prob, nil, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), nil)
		return false
	}
	return true
}

// statusOf maps an outcome to an HTTP status. Unreachable goals and
// exhausted budgets are answers, not request failures.
func statusOf(o domain.Outcome, err error) int {
	if errors.Is(err, domain.ErrDefinitionNotFound) {
		return http.StatusNotFound
	}
	switch o {
	case domain.OutcomeSolved, domain.OutcomeUnreachable, domain.OutcomeBudgetExceeded, domain.OutcomeValidationError:
		return http.StatusOK
	case domain.OutcomeSchemaError, domain.OutcomeProblemError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, report *domain.Report) {
	resp := errorResponse{Error: http.StatusText(status)}
	if err != nil {
		resp.Error = err.Error()
	}
	if report != nil {
		resp.Outcome = report.Outcome
		resp.Report = report.ID
	}
	writeJSON(w, status, resp)
}
