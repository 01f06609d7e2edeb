// Package cli holds the surfwatch command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "surfwatch",
	Short: "Passive web-activity sensitivity engine",
	Long: "Classifies how sensitive a user's interaction with a domain is from\n" +
		"passively observed navigation events and page-content signals, detects\n" +
		"authentication federation relationships, and turns the result into an\n" +
		"attention score and a management recommendation.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
