package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/invariant"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var domainFile string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "check PROBLEM",
		Short: "Run the invariant checks without searching",
		Long: `Validates the domain and problem, then runs the navigation checks over the
adjacency predicate: one-way edges, isolated locations and goals that cannot
be reached from the start. The exit status is 1 when a check proves the
goal unreachable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loader, err := a.loader()
			if err != nil {
				return err
			}
			planner := a.planner(nil)

			prob, err := a.problem(ctx, planner, loader, args[0], domainFile)
			if err != nil {
				report, err := planner.Fail(ctx, "", args[0], err)
				return outcomeError(report, err)
			}

			findings, err := planner.Check(ctx, prob)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if findings == nil {
					findings = invariant.Findings{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(findings); err != nil {
					return err
				}
			} else if len(findings) == 0 {
				fmt.Fprintln(out, "No findings.")
			} else {
				for _, f := range findings {
					fmt.Fprintln(out, f)
				}
			}

			if findings.Fatal() {
				return &exitError{code: exitNoPlan}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domainFile, "domain", "", "domain file, instead of looking the domain up in the library")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print findings as JSON")
	return cmd
}
