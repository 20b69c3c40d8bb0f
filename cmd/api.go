package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/psds-microservice/admin-console/internal/application"
	"github.com/psds-microservice/admin-console/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the console HTTP API",
	RunE:  runAPI,
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := application.NewAPI(cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := app.Run(ctx); err != nil {
		logger.Error("api stopped", zap.Error(err))
		return err
	}
	return nil
}
