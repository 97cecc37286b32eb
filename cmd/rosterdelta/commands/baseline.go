package commands

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/guildtools/rosterdelta/pkg/persist"
)

// BaselineCommand holds flags for the baseline command.
type BaselineCommand struct {
	configPath string
	verbose    bool
}

// NewBaselineCommand creates the baseline command: inspect the master
// baseline that daily deltas are recorded against.
func NewBaselineCommand() *cobra.Command {
	bc := &BaselineCommand{}

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Show the current master baseline",
		Args:  cobra.NoArgs,
		RunE:  bc.run,
	}

	cmd.Flags().StringVar(&bc.configPath, "config", "", "Config file path")
	cmd.Flags().BoolVarP(&bc.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func (bc *BaselineCommand) run(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(bc.configPath, bc.verbose)
	if err != nil {
		return err
	}
	defer e.Close()

	base, err := e.baselines.Load()
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "no baseline recorded yet")

			return nil
		}

		return err
	}

	size, sizeErr := e.baselines.Size()
	if sizeErr != nil {
		size = 0
	}

	fmt.Fprintf(cmd.OutOrStdout(), "baseline date: %s\ncharacters: %d\ninventories: %d\non disk: %s\n",
		base.BaselineDate, len(base.Characters), len(base.Inventories), humanize.IBytes(uint64(size)))

	return nil
}
