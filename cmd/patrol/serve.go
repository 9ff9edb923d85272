package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/patrol/internal/cli"
	"github.com/aretw0/patrol/internal/presentation/tui"
	httpAdapter "github.com/aretw0/patrol/pkg/adapters/http"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Exposes trace, search and persisted analysis over a JSON HTTP API, plus Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}

		var hooks []domain.LifecycleHooks
		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.Metrics.Enabled {
			metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}
			hooks = append(hooks, metrics.Hooks())
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(prometheus.DefaultGatherer))
		}

		eng, err := cli.NewEngine(cfg, logger, hooks...)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		p, err := cli.NewPersistence(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		mgr := cli.NewManager(eng, p, logger)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           httpAdapter.NewHandler(eng, mgr, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr())
			logger.Info("Starting Patrol Server", "address", srv.Addr, "store", cfg.Store.Backend, "workers", eng.Workers())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown...", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("Patrol Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Int("workers", 0, "Concurrent probes per search (0 = one per CPU)")
	serveCmd.Flags().Bool("exhaustive", false, "Probe every empty cell instead of only the baseline trail")
}
