// Package delta implements sparse change records between roster snapshots:
// computing them against a baseline, persisting them per observation day,
// composing two baseline-relative deltas into the delta between their two
// observations, and reconstructing arbitrary date ranges.
package delta

// CharacterDelta records the scalar changes of one character between two
// observations. Current values always satisfy current = previous + change,
// except for deleted characters, whose current values mirror their previous
// values and whose change fields are zero.
type CharacterDelta struct {
	LevelChange     int    `json:"level_change"`
	AATotalChange   int    `json:"aa_total_change"`
	HPChange        int    `json:"hp_change"`
	CurrentLevel    int    `json:"current_level"`
	PreviousLevel   int    `json:"previous_level"`
	CurrentAATotal  int    `json:"current_aa_total"`
	PreviousAATotal int    `json:"previous_aa_total"`
	CurrentHP       int    `json:"current_hp"`
	PreviousHP      int    `json:"previous_hp"`
	Class           string `json:"class,omitempty"`
	IsNew           bool   `json:"is_new,omitempty"`
	IsDeleted       bool   `json:"is_deleted,omitempty"`
}

// InventoryDelta records the net item count changes of one character.
// Every stored count is strictly positive, and an item id never appears in
// both Added and Removed. ItemNames carries display names seen while the
// delta was built; it is best-effort and may be incomplete.
type InventoryDelta struct {
	Added     map[int]int    `json:"added,omitempty"`
	Removed   map[int]int    `json:"removed,omitempty"`
	ItemNames map[int]string `json:"item_names,omitempty"`
}

// Delta is the sparse difference of the full population state at Date
// against the full state at BaselineDate. Characters with no change and
// inventories with no net item movement have no entry at all.
type Delta struct {
	Date         string                    `json:"date"`
	BaselineDate string                    `json:"baseline_date"`
	CharDeltas   map[string]CharacterDelta `json:"char_deltas,omitempty"`
	InvDeltas    map[string]InventoryDelta `json:"inv_deltas,omitempty"`
}

// New returns an empty delta between the two given days.
func New(date, baselineDate string) *Delta {
	return &Delta{
		Date:         date,
		BaselineDate: baselineDate,
		CharDeltas:   make(map[string]CharacterDelta),
		InvDeltas:    make(map[string]InventoryDelta),
	}
}

// Empty reports whether the delta carries no changes.
func (d *Delta) Empty() bool {
	return len(d.CharDeltas) == 0 && len(d.InvDeltas) == 0
}
