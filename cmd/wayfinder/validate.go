package main

import (
	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var domainFile, formatName string
	cmd := &cobra.Command{
		Use:   "validate PROBLEM PLAN",
		Short: "Check a plan against a problem",
		Long: `Replays PLAN, a file with one (action arg ...) per line or "-" for standard
input, from the initial state of PROBLEM. Lines starting with ';' are
ignored, so the output of 'wayfinder solve' can be validated as is.

The first inapplicable step is reported with its 0-based index and the
literal that does not hold. The exit status is 1 for an invalid plan.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := a.cfg.Format
			if cmd.Flags().Changed("format") {
				name = formatName
			}
			f, err := format.Parse(name)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			steps, err := readPlan(args[1], cmd.InOrStdin())
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}

			store, err := a.store()
			if err != nil {
				return err
			}
			loader, err := a.loader()
			if err != nil {
				return err
			}
			planner := a.planner(store)

			prob, err := a.problem(ctx, planner, loader, args[0], domainFile)
			if err != nil {
				report, err := planner.Fail(ctx, "", args[0], err)
				return outcomeError(report, err)
			}

			report, res, err := planner.Validate(ctx, prob, steps)
			fopts := format.Options{Labels: a.cfg.Labels, Goal: format.GoalOf(prob)}
			if res != nil {
				fopts.Trace = res.Trace
			}
			if rerr := render(cmd.OutOrStdout(), f, report, fopts); rerr != nil {
				return rerr
			}
			statusLine(cmd.ErrOrStderr(), report)
			return outcomeError(report, err)
		},
	}
	cmd.Flags().StringVar(&domainFile, "domain", "", "domain file, instead of looking the domain up in the library")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: raw, json or pretty")
	return cmd
}
