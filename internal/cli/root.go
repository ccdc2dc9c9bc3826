// Package cli implements the Hivemind command-line interface using Cobra.
// Each subcommand maps to one engine capability (ingest, scenario, report,
// export, serve, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hivemind",
	Short: "Hivemind — collective learning analytics",
	Long: `Hivemind tracks the learning progress of a fixed collective of 40
agents across 8 tiers: running mastery and synergy statistics, randomized
training scenarios, and evolution reports, all backed by a local SQLite
store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
