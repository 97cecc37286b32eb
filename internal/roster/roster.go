// Package roster defines the in-memory full-state model for one observation
// of the character population: per-character scalar stats and per-character
// item inventories. Snapshots are produced by the external dump extractor
// and consumed by the baseline, delta, and period packages.
package roster

// CharacterState holds the tracked scalar stats of one character at one
// observation. AATotal is stored pre-summed (spent + unspent) because deltas
// only ever compare the total.
type CharacterState struct {
	Level   int    `json:"level"`
	AATotal int    `json:"aa_total"`
	HP      int    `json:"hp"`
	Class   string `json:"class,omitempty"`
}

// Inventory holds one character's items as a multiset of item id to count,
// plus an opportunistic item id to display name cache. Names are recorded
// as seen; the map is not guaranteed complete.
type Inventory struct {
	Items     map[int]int    `json:"items,omitempty"`
	ItemNames map[int]string `json:"item_names,omitempty"`
}

// Count returns the held count of an item id, zero when absent. Absent and
// explicit zero are the same state; zero counts are never stored.
func (inv Inventory) Count(itemID int) int {
	return inv.Items[itemID]
}

// Snapshot is the full state of the population at one observation. Two
// snapshots are comparable only when keyed by the same character-name
// identity scheme.
type Snapshot struct {
	Characters  map[string]CharacterState `json:"characters"`
	Inventories map[string]Inventory      `json:"inventories,omitempty"`
}

// NewSnapshot returns an empty snapshot with allocated maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Characters:  make(map[string]CharacterState),
		Inventories: make(map[string]Inventory),
	}
}

// Clone returns a deep copy. Reconstruction mutates a baseline's snapshot
// and must not alias the loaded state.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Characters:  make(map[string]CharacterState, len(s.Characters)),
		Inventories: make(map[string]Inventory, len(s.Inventories)),
	}

	for name, ch := range s.Characters {
		out.Characters[name] = ch
	}

	for name, inv := range s.Inventories {
		items := make(map[int]int, len(inv.Items))
		for id, count := range inv.Items {
			items[id] = count
		}

		names := make(map[int]string, len(inv.ItemNames))
		for id, itemName := range inv.ItemNames {
			names[id] = itemName
		}

		out.Inventories[name] = Inventory{Items: items, ItemNames: names}
	}

	return out
}
