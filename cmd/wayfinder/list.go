package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var kind string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the definitions in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.loader()
			if err != nil {
				return err
			}
			refs, err := loader.List(cmd.Context())
			if err != nil {
				return err
			}

			filtered := make([]ports.DefinitionRef, 0, len(refs))
			for _, r := range refs {
				if kind == "" || string(r.Kind) == kind {
					filtered = append(filtered, r)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}
			if len(filtered) == 0 {
				fmt.Fprintf(out, "No definitions in %s\n", a.cfg.Dir)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tNAME")
			for _, r := range filtered {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Kind, r.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list definitions of this kind: domain or problem")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print definitions as JSON")
	return cmd
}
