package main

import (
	"github.com/spf13/cobra"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/app/bootstrap"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply the embedded schema to the PostgreSQL database named by DB_URL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := bootstrap.RunMigrations(cmd.Context(), configFile); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
