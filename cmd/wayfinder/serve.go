package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP planning server",
		Long: `Starts a JSON API over HTTP. Problems are resolved from the library (--dir)
or sent inline. Reports are kept in the configured store, or in memory when
none is configured, and Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}
			a.metrics = metrics

			store, err := a.store()
			if err != nil {
				return err
			}
			if store == nil {
				store = memory.NewStore()
			}
			loader, err := a.loader()
			if err != nil {
				return err
			}
			planner := a.planner(store)

			handler, err := httpAdapter.NewHandler(planner,
				httpAdapter.WithLoader(loader),
				httpAdapter.WithStore(store),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLabels(a.cfg.Labels),
				httpAdapter.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("Starting Wayfinder server", "address", srv.Addr, "dir", a.cfg.Dir, "store", a.cfg.Store)
				fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				a.logger.Info("Shutdown signal received")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
					return srv.Close()
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Wayfinder server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	return cmd
}
