package main

import (
	"context"
	"time"

	"lead-qualifier/internal/common/config"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var withWorkers bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), withWorkers)
		},
	}
	cmd.Flags().BoolVar(&withWorkers, "with-workers", false, "also register the Zeebe job workers")
	return cmd
}

func runServe(ctx context.Context, withWorkers bool) error {
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if withWorkers {
		stop, err := startWorkers(ctx, a)
		if err != nil {
			return err
		}
		defer stop()
	}

	server := newHTTPServer(a)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cfg.Server.Address,
			config.GetDuration(cfg.Server.ReadTimeout),
			config.GetDuration(cfg.Server.WriteTimeout))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
