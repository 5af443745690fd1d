package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd(_ *app) *cobra.Command {
	var banner bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wayfinder",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := strings.TrimSpace(wayfinder.Version)
			out := cmd.OutOrStdout()
			if banner && isTerminal(out) {
				tui.PrintBanner(out, version)
				return
			}
			fmt.Fprintf(out, "wayfinder version %s\n", version)
		},
	}
	cmd.Flags().BoolVar(&banner, "banner", false, "print the banner when attached to a terminal")
	return cmd
}
