package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger

	rootCmd = &cobra.Command{
		Use:               "lead-qualifier",
		Short:             "Conversational lead qualification service",
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (console, json)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(workersCmd())
	rootCmd.AddCommand(replayCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if zapLog != nil {
		_ = zapLog.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initRuntime(_ *cobra.Command, _ []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	return nil
}
