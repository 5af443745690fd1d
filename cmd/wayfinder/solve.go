package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/validate"
	"github.com/spf13/cobra"
)

type solveFlags struct {
	domain    string
	strategy  string
	heuristic string
	format    string
	output    string
	timeout   time.Duration
	maxNodes  int
	compare   bool
	labels    map[string]string
}

func newSolveCmd(a *app) *cobra.Command {
	var flags solveFlags
	cmd := &cobra.Command{
		Use:   "solve PROBLEM",
		Short: "Search for a plan",
		Long: `Solves PROBLEM, a library ID or a problem file, and prints the plan.

Formats:
  raw        one (action arg ...) per line and a "; Plan length: N" trailer
  json       status, planner, plan, num_actions and destination
  api        the navigation command for a robot API
  waypoints  the navigation command with waypoints and an ETA
  pretty     a Markdown summary with the state trace

The exit status is 0 when a plan was found, 1 when the goal is unreachable or
the search budget ran out and 2 for invalid input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.domain, "domain", "", "domain file, instead of looking the domain up in the library")
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", "", "search strategy (see 'wayfinder strategies')")
	cmd.Flags().StringVar(&flags.heuristic, "heuristic", "", "heuristic: blank, goalcount or adjacency")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: raw, json, api, waypoints or pretty")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "also save the plan in raw format to this file")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "search time limit (default from config: 60s)")
	cmd.Flags().IntVar(&flags.maxNodes, "max-nodes", 0, "maximum number of expanded nodes (0 means unlimited)")
	cmd.Flags().BoolVar(&flags.compare, "compare", false, "run every search strategy and print a comparison")
	cmd.Flags().StringToStringVar(&flags.labels, "label", nil, "display label for an object, e.g. --label ward_a='Ward A'")
	return cmd
}

func (a *app) solve(cmd *cobra.Command, arg string, flags solveFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	name := a.cfg.Format
	if cmd.Flags().Changed("format") {
		name = flags.format
	}
	f, err := format.Parse(name)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	var opts []wayfinder.Option
	if cmd.Flags().Changed("strategy") {
		opts = append(opts, wayfinder.WithStrategy(flags.strategy))
	}
	if cmd.Flags().Changed("heuristic") {
		opts = append(opts, wayfinder.WithHeuristic(flags.heuristic))
	}
	if cmd.Flags().Changed("timeout") {
		opts = append(opts, wayfinder.WithTimeout(flags.timeout))
	}
	if cmd.Flags().Changed("max-nodes") {
		opts = append(opts, wayfinder.WithMaxNodes(flags.maxNodes))
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	loader, err := a.loader()
	if err != nil {
		return err
	}
	planner := a.planner(store, opts...)

	prob, err := a.problem(ctx, planner, loader, arg, flags.domain)
	if err != nil {
		report, err := planner.Fail(ctx, "", arg, err)
		return outcomeError(report, err)
	}

	if flags.compare {
		return compare(ctx, out, planner, prob, f)
	}

	report, err := planner.Solve(ctx, prob)
	fopts := format.Options{Labels: a.labels(flags.labels), Goal: format.GoalOf(prob)}
	if f == format.Pretty && report.Solved() {
		if res, verr := validate.Plan(prob, report.Plan); verr == nil {
			fopts.Trace = res.Trace
		}
	}
	if rerr := render(out, f, report, fopts); rerr != nil {
		return rerr
	}
	statusLine(cmd.ErrOrStderr(), report)

	if flags.output != "" && report.Solved() {
		var buf bytes.Buffer
		if werr := format.Write(&buf, format.Raw, report, fopts); werr != nil {
			return werr
		}
		if werr := os.WriteFile(flags.output, buf.Bytes(), 0o644); werr != nil {
			return fmt.Errorf("failed to save plan: %w", werr)
		}
		a.logger.Info("plan saved", "path", flags.output, "steps", len(report.Plan))
	}
	return outcomeError(report, err)
}

// compare runs every strategy and prints one line (or JSON object) per strategy.
func compare(ctx context.Context, out io.Writer, planner *wayfinder.Planner, prob *domain.Problem, f format.Format) error {
	reports, err := planner.Compare(ctx, prob)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	if f == format.JSON {
		results := make([]format.Result, len(reports))
		for i, r := range reports {
			results[i] = format.ResultOf(r)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tOUTCOME\tSTEPS\tEXPANDED\tELAPSED")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.Strategy, r.Outcome, len(r.Plan), r.Stats.Expanded, r.Stats.Elapsed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		if r.Solved() {
			return nil
		}
	}
	return &exitError{code: exitNoPlan, err: fmt.Errorf("no strategy found a plan")}
}
