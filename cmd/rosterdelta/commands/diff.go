package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guildtools/rosterdelta/pkg/persist"
)

// Output format names.
const (
	formatJSON  = "json"
	formatTable = "table"
)

// ErrUnknownFormat indicates an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// DiffCommand holds flags for the diff command.
type DiffCommand struct {
	configPath string
	from       string
	to         string
	format     string
	verbose    bool
}

// NewDiffCommand creates the diff command: reconstruct the delta between
// two recorded observation days.
func NewDiffCommand() *cobra.Command {
	dc := &DiffCommand{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what changed between two recorded dates",
		Long: "Diff composes the two dates' recorded deltas into the change between\n" +
			"them. When a baseline rotation falls inside the range, both full states\n" +
			"are reconstructed and compared directly instead.",
		Args: cobra.NoArgs,
		RunE: dc.run,
	}

	cmd.Flags().StringVar(&dc.from, "from", "", "Range start date YYYY-MM-DD")
	cmd.Flags().StringVar(&dc.to, "to", "", "Range end date YYYY-MM-DD")
	cmd.Flags().StringVar(&dc.format, "format", formatJSON, "Output format: json, table")
	cmd.Flags().StringVar(&dc.configPath, "config", "", "Config file path")
	cmd.Flags().BoolVarP(&dc.verbose, "verbose", "v", false, "Verbose logging")

	cobra.CheckErr(cmd.MarkFlagRequired("from"))
	cobra.CheckErr(cmd.MarkFlagRequired("to"))

	return cmd
}

func (dc *DiffCommand) run(cmd *cobra.Command, _ []string) error {
	if dc.format != formatJSON && dc.format != formatTable {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, dc.format)
	}

	e, err := openEnv(dc.configPath, dc.verbose)
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.reconstructor.Range(dc.from, dc.to)
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			return fmt.Errorf("no delta recorded for requested date: %w", err)
		}

		return err
	}

	if dc.format == formatTable {
		renderDeltaTable(cmd.OutOrStdout(), dc.from, dc.to, d)

		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(d)
}
