package period

import (
	"sort"
)

// rank turns accumulated gains into a sorted, truncated leaderboard. Rows
// are seeded in name order so equal gains rank deterministically; the sort
// itself is stable and never reorders ties.
func rank(gains map[string]Gain, metric Metric, minAALevel, topN int) []Entry {
	names := make([]string, 0, len(gains))
	for name := range gains {
		names = append(names, name)
	}

	sort.Strings(names)

	rows := make([]Entry, 0, len(names))

	for _, name := range names {
		g := gains[name]

		var gain int

		switch metric {
		case MetricAA:
			if g.Level < minAALevel {
				continue
			}

			gain = g.AAGain
		case MetricHP:
			gain = g.HPGain
		}

		if gain <= 0 {
			continue
		}

		rows = append(rows, Entry{Name: name, Class: g.Class, Level: g.Level, Gain: gain})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Gain > rows[j].Gain
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	return rows
}
