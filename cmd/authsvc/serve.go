package main

import (
	"github.com/spf13/cobra"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/app/bootstrap"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		Long: `Start the public HTTP API and the internal gRPC token verifier. With the
memory store backend the banned-token pruner runs in the same process.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runtime, err := bootstrap.NewRuntime(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			return runtime.RunAPI(cmd.Context())
		},
	}
}
