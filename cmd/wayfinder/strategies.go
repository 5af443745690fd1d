package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/wayfinder"
	"github.com/spf13/cobra"
)

func newStrategiesCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the search strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(wayfinder.Strategies())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tOPTIMAL\tINFORMED\tDESCRIPTION")
			for _, s := range wayfinder.Strategies() {
				mark := ""
				if string(s.Name) == a.cfg.Strategy {
					mark = " (default)"
				}
				fmt.Fprintf(tw, "%s%s\t%t\t%t\t%s\n", s.Name, mark, s.Optimal, s.Informed, s.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print strategies as JSON")
	return cmd
}
