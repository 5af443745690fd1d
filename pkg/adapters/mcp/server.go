package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/invariant"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProblemArgs names the problem a tool works on: a problem_id resolved by
// the definition library, or inline YAML/JSON documents.
type ProblemArgs struct {
	ProblemID string `json:"problem_id,omitempty"`
	Domain    string `json:"domain,omitempty"`
	Problem   string `json:"problem,omitempty"`
}

// SolveArgs are the arguments of solve_problem.
type SolveArgs struct {
	ProblemArgs
	Strategy string `json:"strategy,omitempty"`
}

// ValidateArgs are the arguments of validate_plan.
type ValidateArgs struct {
	ProblemArgs
	Plan string `json:"plan"`
}

// SolveResponse aligns with the JSON output format of the CLI and HTTP API.
type SolveResponse = format.Result

// ValidateResponse describes a replayed plan.
type ValidateResponse struct {
	Report  string              `json:"report_id" jsonschema_description:"ID of the stored report"`
	Valid   bool                `json:"valid" jsonschema_description:"Whether every step applies and the goal holds at the end"`
	Outcome domain.Outcome      `json:"outcome"`
	Detail  string              `json:"detail,omitempty" jsonschema_description:"Why the plan is invalid"`
	Step    *int                `json:"step,omitempty" jsonschema_description:"0-based index of the failing step"`
	Final   []string            `json:"final,omitempty" jsonschema_description:"Atoms true after the last step"`
	Trace   []validate.StepDiff `json:"trace,omitempty"`
}

// CheckResponse lists invariant findings.
type CheckResponse struct {
	Fatal    bool               `json:"fatal" jsonschema_description:"A finding proves the goal unreachable"`
	Findings invariant.Findings `json:"findings"`
}

// Server wraps the Planner and exposes it as an MCP Server.
type Server struct {
	planner   *wayfinder.Planner
	loader    ports.DefinitionLoader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. The loader may be nil, in
// which case only inline definitions are accepted.
func NewServer(planner *wayfinder.Planner, loader ports.DefinitionLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		planner:   planner,
		loader:    loader,
		logger:    logger,
		mcpServer: server.NewMCPServer("wayfinder-mcp", strings.TrimSpace(wayfinder.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it
// down when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func problemOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("problem_id", mcp.Description("ID of a problem in the definition library (see list_definitions)")),
		mcp.WithString("domain", mcp.Description("Inline domain document (YAML or JSON), used with problem")),
		mcp.WithString("problem", mcp.Description("Inline problem document (YAML or JSON)")),
	}
}

func (s *Server) registerTools() {
	// TOOL: solve_problem
	solveOpts := append(problemOptions(),
		mcp.WithDescription("Search for a plan. Literals are s-expressions such as (at r1 base)."),
		mcp.WithString("strategy", mcp.Description("bfs, astar, greedy, dfs or auto (optional)")),
		mcp.WithOutputSchema[SolveResponse](),
	)
	s.mcpServer.AddTool(mcp.NewTool("solve_problem", solveOpts...), mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: validate_plan
	validateOpts := append(problemOptions(),
		mcp.WithDescription("Replay a plan step by step and report the first defect."),
		mcp.WithString("plan", mcp.Required(), mcp.Description("One step per line, e.g. (navigate r1 base pharmacy)")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(mcp.NewTool("validate_plan", validateOpts...), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: check_problem
	checkOpts := append(problemOptions(),
		mcp.WithDescription("Run the invariant checks (symmetry, isolated locations, reachability) without searching."),
		mcp.WithOutputSchema[CheckResponse](),
	)
	s.mcpServer.AddTool(mcp.NewTool("check_problem", checkOpts...), mcp.NewStructuredToolHandler(s.handleCheck))

	// TOOL: list_definitions
	s.mcpServer.AddTool(mcp.NewTool("list_definitions",
		mcp.WithDescription("List the domains and problems of the definition library."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refs, err := s.definitions(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(refs)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) definitions(ctx context.Context) ([]ports.DefinitionRef, error) {
	if s.loader == nil {
		return []ports.DefinitionRef{}, nil
	}
	return s.loader.List(ctx)
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args SolveArgs) (SolveResponse, error) {
	planner := s.planner
	if args.Strategy != "" {
		planner = planner.With(wayfinder.WithStrategy(args.Strategy))
	}
	prob, err := s.resolve(ctx, planner, args.ProblemArgs)
	if err != nil {
		return SolveResponse{}, err
	}

	report, err := planner.Solve(ctx, prob)
	switch domain.OutcomeOf(err) {
	case domain.OutcomeSolved, domain.OutcomeUnreachable, domain.OutcomeBudgetExceeded:
	default:
		return SolveResponse{}, err
	}

	return format.ResultOf(report), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	steps, err := domain.ParsePlan(strings.NewReader(args.Plan))
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("invalid plan: %w", err)
	}
	prob, err := s.resolve(ctx, s.planner, args.ProblemArgs)
	if err != nil {
		return ValidateResponse{}, err
	}

	report, res, err := s.planner.Validate(ctx, prob, steps)
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
	return resp, nil
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args ProblemArgs) (CheckResponse, error) {
	prob, err := s.resolve(ctx, s.planner, args)
	if err != nil {
		return CheckResponse{}, err
	}
	findings, err := s.planner.Check(ctx, prob)
	if err != nil {
		return CheckResponse{}, fmt.Errorf("check failed: %w", err)
	}
	if findings == nil {
		findings = invariant.Findings{}
	}
	return CheckResponse{Fatal: findings.Fatal(), Findings: findings}, nil
}

// resolve loads the problem named by args. Failures are recorded as
// reports by the planner before being returned to the client.
func (s *Server) resolve(ctx context.Context, planner *wayfinder.Planner, args ProblemArgs) (*domain.Problem, error) {
	prob, name, err := s.load(ctx, planner, args)
	if err != nil {
		s.logger.Warn("MCP: problem rejected", "problem", name, "err", err)
		_, err = planner.Fail(ctx, "", name, err)
		return nil, err
	}
	return prob, nil
}

func (s *Server) load(ctx context.Context, planner *wayfinder.Planner, args ProblemArgs) (*domain.Problem, string, error) {
	switch {
	case args.ProblemID != "" && args.Problem != "":
		return nil, args.ProblemID, errors.New("problem_id and problem are mutually exclusive")
	case args.ProblemID != "":
		if s.loader == nil {
			return nil, args.ProblemID, errors.New("no definition library configured")
		}
		prob, err := planner.Load(ctx, s.loader, args.ProblemID)
		return prob, args.ProblemID, err
	case args.Problem == "":
		return nil, "", errors.New("problem_id or problem is required")
	}

	var inline *domain.DomainSpec
	if args.Domain != "" {
		raw, err := file.Parse("domain.yaml", []byte(args.Domain))
		if err != nil {
			return nil, "", fmt.Errorf("domain: %w", err)
		}
		spec, err := file.DecodeDomain(raw)
		if err != nil {
			return nil, "", fmt.Errorf("domain: %w", err)
		}
		inline = &spec
	}

	raw, err := file.Parse("problem.yaml", []byte(args.Problem))
	if err != nil {
		return nil, "", fmt.Errorf("problem: %w", err)
	}
	spec, err := file.DecodeProblem(raw)
	if err != nil {
		return nil, "", fmt.Errorf("problem: %w", err)
	}
	if inline != nil {
		prob, err := planner.Bind(*inline, spec)
		return prob, spec.Name, err
	}
	prob, err := planner.Resolve(ctx, s.loader, spec)
	return prob, spec.Name, err
}

func (s *Server) registerResources() {
	// EXPOSE: wayfinder://strategies
	s.mcpServer.AddResource(mcp.NewResource("wayfinder://strategies", "Search Strategies",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(wayfinder.Strategies())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "wayfinder://strategies",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: wayfinder://definitions
	s.mcpServer.AddResource(mcp.NewResource("wayfinder://definitions", "Definition Library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		refs, err := s.definitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list definitions: %w", err)
		}
		jsonBytes, _ := json.Marshal(refs)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "wayfinder://definitions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
