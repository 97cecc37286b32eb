package delta

import (
	"github.com/guildtools/rosterdelta/internal/roster"
)

// Apply reconstructs the absolute full state at d's date by replaying d on
// top of the baseline state it was recorded against. The given state is not
// mutated.
func Apply(base *roster.Snapshot, d *Delta) *roster.Snapshot {
	out := base.Clone()

	for name, cd := range d.CharDeltas {
		if cd.IsDeleted {
			delete(out.Characters, name)

			continue
		}

		prev := out.Characters[name]
		out.Characters[name] = roster.CharacterState{
			Level:   cd.CurrentLevel,
			AATotal: cd.CurrentAATotal,
			HP:      cd.CurrentHP,
			Class:   firstNonEmpty(cd.Class, prev.Class),
		}
	}

	for name, id := range d.InvDeltas {
		inv, ok := out.Inventories[name]
		if !ok {
			inv = roster.Inventory{Items: make(map[int]int), ItemNames: make(map[int]string)}
		}

		if inv.Items == nil {
			inv.Items = make(map[int]int)
		}

		for itemID, count := range id.Added {
			inv.Items[itemID] += count
		}

		for itemID, count := range id.Removed {
			remaining := inv.Items[itemID] - count
			if remaining > 0 {
				inv.Items[itemID] = remaining
			} else {
				delete(inv.Items, itemID)
			}
		}

		if len(id.ItemNames) > 0 && inv.ItemNames == nil {
			inv.ItemNames = make(map[int]string)
		}

		for itemID, itemName := range id.ItemNames {
			inv.ItemNames[itemID] = itemName
		}

		out.Inventories[name] = inv
	}

	return out
}
