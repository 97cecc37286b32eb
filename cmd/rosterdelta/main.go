// Package main provides the entry point for the rosterdelta CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guildtools/rosterdelta/cmd/rosterdelta/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterdelta",
		Short: "Snapshot/delta storage for character roster observations",
		Long: `Rosterdelta records daily observations of a character roster as sparse
deltas against a rotating full-state baseline, answers "what changed
between date A and date B" queries, and ranks weekly/monthly stat gains.

Commands:
  record       Record one observation as a daily delta
  diff         Show what changed between two recorded dates
  leaderboard  Rank characters by gain since the period start
  baseline     Show the current master baseline`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRecordCommand())
	rootCmd.AddCommand(commands.NewDiffCommand())
	rootCmd.AddCommand(commands.NewLeaderboardCommand())
	rootCmd.AddCommand(commands.NewBaselineCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
