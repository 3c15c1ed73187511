package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigPath = "configs/default.yaml"

var configFile string

// NewRootCmd creates the root command for the authsvc CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authsvc",
		Short: "Authentication service",
		Long: `authsvc issues and verifies session tokens for the platform: sign-up,
login with optional email second factor, token verification and logout.`,
		SilenceUsage: true,
	}

	cmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	cmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigPath, "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// wordSepNormalizeFunc accepts underscores wherever a flag name uses dashes.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
