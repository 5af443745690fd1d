package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "wayfinder",
		Short: "Wayfinder is a typed STRIPS planner",
		Long: `Wayfinder reads planning domains and problems written in YAML or JSON,
searches for a plan and checks plans produced elsewhere.

Definitions are looked up in the library directory (--dir) by ID, which is
the file path relative to the library without extension, or read directly
when a .yaml, .yml or .json path is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $WAYFINDER_CONFIG_DIR or .wayfinder)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default: warn)")
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "definition library directory (default: .)")

	root.AddCommand(
		newSolveCmd(a),
		newValidateCmd(a),
		newCheckCmd(a),
		newGraphCmd(a),
		newStrategiesCmd(a),
		newListCmd(a),
		newReportCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(a),
	)
	return root, a
}
