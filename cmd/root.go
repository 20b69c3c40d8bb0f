package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "admin-console",
	Short: "Marketplace admin console API: KYC review, support tickets, content and staff (PSDS)",
	RunE:  runAPI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(kycCmd)
	rootCmd.AddCommand(ticketsCmd)
}
