// Package cli implements the SwipeDeck command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, ingest, stats,
// achievements, challenges, queue, reset).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swipedeck",
	Short: "SwipeDeck — gamified content review",
	Long: `SwipeDeck turns the content approval backlog into a game.
Review queued posts one decision at a time and earn XP, combos,
levels, achievements, and daily challenges while you work.`,
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
