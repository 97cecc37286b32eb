package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/guildtools/rosterdelta/internal/period"
	"github.com/guildtools/rosterdelta/internal/timex"
)

// LeaderboardCommand holds flags for the leaderboard command.
type LeaderboardCommand struct {
	configPath string
	inputPath  string
	periodType string
	metric     string
	date       string
	topN       int
	format     string
	verbose    bool
}

// NewLeaderboardCommand creates the leaderboard command: rank characters by
// AA or HP gain since the current week or month began.
func NewLeaderboardCommand() *cobra.Command {
	lc := &LeaderboardCommand{}

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank characters by gain since the period start",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}

	cmd.Flags().StringVarP(&lc.inputPath, "input", "i", "-", "Current snapshot document path (default: stdin)")
	cmd.Flags().StringVarP(&lc.periodType, "period", "p", string(period.Weekly), "Period type: weekly, monthly")
	cmd.Flags().StringVarP(&lc.metric, "metric", "m", string(period.MetricAA), "Ranking metric: aa, hp")
	cmd.Flags().StringVarP(&lc.date, "date", "d", "", "Query date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVarP(&lc.topN, "top", "n", 0, "Rows to keep (default: from config)")
	cmd.Flags().StringVar(&lc.format, "format", formatTable, "Output format: json, table")
	cmd.Flags().StringVar(&lc.configPath, "config", "", "Config file path")
	cmd.Flags().BoolVarP(&lc.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func (lc *LeaderboardCommand) run(cmd *cobra.Command, _ []string) error {
	ptype, err := period.ParseType(lc.periodType)
	if err != nil {
		return err
	}

	metric, err := period.ParseMetric(lc.metric)
	if err != nil {
		return err
	}

	date := lc.date
	if date == "" {
		date = timex.FormatDay(timeNow())
	}

	snap, err := readSnapshot(lc.inputPath)
	if err != nil {
		return err
	}

	e, err := openEnv(lc.configPath, lc.verbose)
	if err != nil {
		return err
	}
	defer e.Close()

	topN := lc.topN
	if topN <= 0 {
		topN = e.cfg.Leaderboard.TopN
	}

	rows, err := e.aggregator.Leaderboard(ptype, metric, date, topN, snap)
	if err != nil {
		return err
	}

	if lc.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	}

	renderLeaderboardTable(cmd.OutOrStdout(), metric, rows)

	return nil
}
