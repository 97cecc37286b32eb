package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/guildtools/rosterdelta/internal/delta"
	"github.com/guildtools/rosterdelta/internal/period"
)

var (
	gainColor = color.New(color.FgGreen)
	lossColor = color.New(color.FgRed)
)

// signed renders a change value with its sign, colored by direction.
func signed(n int) string {
	switch {
	case n > 0:
		return gainColor.Sprintf("+%d", n)
	case n < 0:
		return lossColor.Sprintf("%d", n)
	default:
		return "0"
	}
}

// renderDeltaTable prints the character and inventory changes of a
// reconstructed range as tables.
func renderDeltaTable(w io.Writer, from, to string, d *delta.Delta) {
	fmt.Fprintf(w, "Changes %s -> %s\n", from, to)

	if d.Empty() {
		fmt.Fprintln(w, "no changes")

		return
	}

	if len(d.CharDeltas) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"Character", "Class", "Level", "AA", "HP", "Status"})

		for _, name := range sortedKeys(d.CharDeltas) {
			cd := d.CharDeltas[name]

			status := ""
			if cd.IsNew {
				status = "new"
			} else if cd.IsDeleted {
				status = lossColor.Sprint("deleted")
			}

			tw.AppendRow(table.Row{
				name,
				cd.Class,
				fmt.Sprintf("%d (%s)", cd.CurrentLevel, signed(cd.LevelChange)),
				signed(cd.AATotalChange),
				signed(cd.HPChange),
				status,
			})
		}

		tw.Render()
	}

	if len(d.InvDeltas) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"Character", "Item", "Net"})

		for _, name := range sortedKeys(d.InvDeltas) {
			id := d.InvDeltas[name]

			for _, itemID := range sortedItemIDs(id.Added) {
				tw.AppendRow(table.Row{name, itemLabel(itemID, id.ItemNames), signed(id.Added[itemID])})
			}

			for _, itemID := range sortedItemIDs(id.Removed) {
				tw.AppendRow(table.Row{name, itemLabel(itemID, id.ItemNames), signed(-id.Removed[itemID])})
			}
		}

		tw.Render()
	}
}

// renderLeaderboardTable prints ranked period gains.
func renderLeaderboardTable(w io.Writer, metric period.Metric, rows []period.Entry) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no qualifying gains this period")

		return
	}

	header := "AA Gain"
	if metric == period.MetricHP {
		header = "HP Gain"
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Character", "Class", "Level", header})

	for i, row := range rows {
		tw.AppendRow(table.Row{i + 1, row.Name, row.Class, row.Level, gainColor.Sprintf("+%d", row.Gain)})
	}

	tw.Render()
}

func itemLabel(itemID int, names map[int]string) string {
	if name, ok := names[itemID]; ok {
		return fmt.Sprintf("%s (%d)", name, itemID)
	}

	return fmt.Sprintf("item %d", itemID)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sortedItemIDs(m map[int]int) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}
