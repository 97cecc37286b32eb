package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/guildtools/rosterdelta/internal/period"
	"github.com/guildtools/rosterdelta/internal/timex"
)

// RecordCommand holds flags for the record command.
type RecordCommand struct {
	configPath string
	inputPath  string
	date       string
	verbose    bool
}

// NewRecordCommand creates the record command: observe one extractor
// snapshot, persist the daily delta, and refresh period bookkeeping.
func NewRecordCommand() *cobra.Command {
	rc := &RecordCommand{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one observation as a daily delta",
		Long: "Record validates an extractor snapshot document, rotates the master\n" +
			"baseline if it is due, persists the day's delta against it, and updates\n" +
			"the weekly and monthly period baselines and delta snapshots.",
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.inputPath, "input", "i", "-", "Snapshot document path (default: stdin)")
	cmd.Flags().StringVarP(&rc.date, "date", "d", "", "Observation date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func (rc *RecordCommand) run(cmd *cobra.Command, _ []string) error {
	date := rc.date
	if date == "" {
		date = timex.FormatDay(timeNow())
	}

	snap, err := readSnapshot(rc.inputPath)
	if err != nil {
		return err
	}

	e, err := openEnv(rc.configPath, rc.verbose)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.recorder.RecordDaily(snap, date)
	if err != nil {
		return err
	}

	for _, ptype := range []period.Type{period.Weekly, period.Monthly} {
		err = e.aggregator.Observe(ptype, date, snap)
		if err != nil {
			return err
		}
	}

	e.flushMetrics()

	size, err := e.deltas.Size(date)
	if err != nil {
		size = 0
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"recorded %s: %d characters changed, %d inventories changed (%s on disk)\n",
		date, len(d.CharDeltas), len(d.InvDeltas), humanize.IBytes(uint64(size)))

	return nil
}
