package main

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var domainFile, relation, planFile string
	var solve bool
	cmd := &cobra.Command{
		Use:   "graph PROBLEM",
		Short: "Export the location graph visualization",
		Long: `Outputs a Mermaid diagram (graph LR) of a binary relation of PROBLEM, by
default the adjacency predicate from the config. With --plan or --solve the
path of the plan is highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if relation == "" {
				relation = a.cfg.Adjacency
			}

			loader, err := a.loader()
			if err != nil {
				return err
			}
			planner := a.planner(nil)
			prob, err := a.problem(ctx, planner, loader, args[0], domainFile)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			var plan []domain.Step
			switch {
			case planFile != "":
				if plan, err = readPlan(planFile, cmd.InOrStdin()); err != nil {
					return &exitError{code: exitUsage, err: err}
				}
			case solve:
				report, err := planner.Solve(ctx, prob)
				if report.Outcome == domain.OutcomeError {
					return err
				}
				if !report.Solved() {
					a.logger.Warn("no plan to highlight", "outcome", report.Outcome, "detail", report.Detail)
				}
				plan = report.Plan
			}

			overlay := &graph.Overlay{Path: format.Path(plan), Goal: format.GoalOf(prob)}
			output, err := graph.Mermaid(prob, relation, a.cfg.Labels, overlay)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&domainFile, "domain", "", "domain file, instead of looking the domain up in the library")
	cmd.Flags().StringVar(&relation, "relation", "", "binary predicate to draw (default: adjacency from config)")
	cmd.Flags().StringVar(&planFile, "plan", "", "plan file whose path is highlighted")
	cmd.Flags().BoolVar(&solve, "solve", false, "solve the problem and highlight the plan")
	return cmd
}
