package main

import (
	"context"

	"lead-qualifier/internal/common/camunda"
	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/extraction"
	cl "lead-qualifier/internal/workers/qualification/classify-lead"
	elm "lead-qualifier/internal/workers/qualification/extract-lead-metadata"

	"github.com/spf13/cobra"
)

func workersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "Run the Zeebe job workers for extraction and classification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			stop, err := startWorkers(ctx, a)
			if err != nil {
				return err
			}
			defer stop()

			<-ctx.Done()
			log.Info("shutting down workers", nil)
			return nil
		},
	}
}

// startWorkers connects to the gateway and opens every enabled worker. The
// returned func closes the workers and then the client.
func startWorkers(ctx context.Context, a *app) (func(), error) {
	client, err := camunda.NewClient(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
	if err != nil {
		return nil, err
	}

	manager := camunda.NewManager(client.Zeebe(), log)
	manager.Register(elm.TaskType, config.GetWorkerConfig(cfg, elm.TaskType),
		elm.NewHandler(elm.LoadConfig(cfg), a.industries, extraction.NewEngine(nil), log))
	manager.Register(cl.TaskType, config.GetWorkerConfig(cfg, cl.TaskType),
		cl.NewHandler(cl.LoadConfig(cfg), a.industries, log))

	return func() {
		manager.Stop()
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("zeebe client close failed", nil)
		}
	}, nil
}
