// Package cli implements the gighall command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gighall",
	Short: "GigHall marketplace backend",
	Long: `GigHall is a marketplace backend tracking contracts between clients
and contractors, the jobs performed under those contracts, and each
party's monetary balance. Job payments move money atomically between
the two parties; deposits are capped by outstanding obligations.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.gighall/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
