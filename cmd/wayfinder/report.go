package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/format"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect stored planning reports",
		Long: `Reports are kept when a store is configured (store: memory, file, redis or
sqlite). Every solve and validate run saves one. Its ID is the report_id of
the JSON output.`,
	}
	cmd.AddCommand(newReportListCmd(a), newReportShowCmd(a), newReportDeleteCmd(a))
	return cmd
}

func (a *app) requireStore() (ports.ReportStore, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &exitError{code: exitUsage, err: errors.New("no report store configured (set store in wayfinder.yaml or WAYFINDER_STORE)")}
	}
	return store, nil
}

func newReportListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored report IDs, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newReportShowCmd(a *app) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.Parse(formatName)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			report, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f, report, format.Options{Labels: a.cfg.Labels})
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", string(format.JSON), "output format")
	return cmd
}

func newReportDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a stored report",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			return store.Delete(cmd.Context(), args[0])
		},
	}
}
