package cmd

import (
	"fmt"

	"github.com/psds-microservice/admin-console/internal/config"
	"github.com/psds-microservice/admin-console/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !cfg.UsesDatabase() {
		return fmt.Errorf("migrate: SESSION_STORE=%s has no database", cfg.SessionStore)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if err := database.MigrateUp(cfg.DatabaseURL(), logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrate up: ok")
	return nil
}
