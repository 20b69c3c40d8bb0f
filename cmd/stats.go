package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psds-microservice/admin-console/internal/application"
	"github.com/psds-microservice/admin-console/internal/config"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/spf13/cobra"
)

var statsSessionID string

var kycCmd = &cobra.Command{
	Use:   "kyc",
	Short: "KYC review commands",
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Support ticket commands",
}

var kycStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print KYC application counts by status for a persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStats(cmd, session.ModuleKYC)
	},
}

var ticketStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print support ticket counts by status for a persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStats(cmd, session.ModuleTickets)
	},
}

func init() {
	for _, c := range []*cobra.Command{kycStatsCmd, ticketStatsCmd} {
		c.Flags().StringVar(&statsSessionID, "session", "", "console session id (the bearer token returned at login)")
		_ = c.MarkFlagRequired("session")
	}
	kycCmd.AddCommand(kycStatsCmd)
	ticketsCmd.AddCommand(ticketStatsCmd)
}

func printStats(cmd *cobra.Command, module string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	store, err := application.NewStore(cfg, logger)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, nil, logger)
	if _, err := sessions.Rehydrate(ctx); err != nil {
		return err
	}
	sess, err := sessions.Get(ctx, statsSessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", statsSessionID, err)
	}
	if !sess.HasPermission(module, session.LevelView) {
		return fmt.Errorf("session %s has no %s access to %s", statsSessionID, session.LevelView, module)
	}

	client := application.NewClient(cfg, logger)
	var st model.Stats
	if module == session.ModuleKYC {
		st, err = client.KYCStats(ctx, sess.Token)
	} else {
		st, err = client.InquiryStats(ctx, sess.Token)
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
