package main

import (
	"fmt"

	mcpAdapter "github.com/aretw0/wayfinder/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	var transport string
	var port int
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long: `Exposes the planner to MCP clients as tools (solve_problem, validate_plan,
check_problem, list_definitions) and resources (wayfinder://strategies,
wayfinder://definitions). Logs go to standard error so the stdio transport
keeps standard output for the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			loader, err := a.loader()
			if err != nil {
				return err
			}
			srv := mcpAdapter.NewServer(a.planner(store), loader, a.logger)

			switch transport {
			case "stdio":
				return srv.ServeStdio()
			case "sse":
				return srv.ServeSSE(cmd.Context(), port)
			default:
				return &exitError{code: exitUsage, err: fmt.Errorf("unknown transport %q (want stdio or sse)", transport)}
			}
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "transport: stdio or sse")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port for the sse transport")
	return cmd
}
