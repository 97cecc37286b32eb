package delta

import (
	"github.com/guildtools/rosterdelta/internal/roster"
)

// Diff computes the sparse delta from previous to current. The result's
// Date and BaselineDate are set by the caller's context: recording against
// the master baseline, or diffing two reconstructed states.
func Diff(previous, current *roster.Snapshot, date, baselineDate string) *Delta {
	d := New(date, baselineDate)
	d.CharDeltas = nilIfEmpty(diffCharacters(previous.Characters, current.Characters))
	d.InvDeltas = nilIfEmpty(diffInventories(previous.Inventories, current.Inventories))

	return d
}

func diffCharacters(previous, current map[string]roster.CharacterState) map[string]CharacterDelta {
	out := make(map[string]CharacterDelta)

	for name := range union(previous, current) {
		prev, inPrev := previous[name]
		cur, inCur := current[name]

		// A character that vanished, or collapsed to level 0 from a real
		// level, is treated as deleted. Its current values mirror the
		// previous ones: there is no current state to report.
		deleted := inPrev && (!inCur || (cur.Level == 0 && prev.Level > 0))

		cd := CharacterDelta{
			IsNew:     !inPrev,
			IsDeleted: deleted,
			Class:     firstNonEmpty(cur.Class, prev.Class),
		}

		if deleted {
			cd.CurrentLevel = prev.Level
			cd.PreviousLevel = prev.Level
			cd.CurrentAATotal = prev.AATotal
			cd.PreviousAATotal = prev.AATotal
			cd.CurrentHP = prev.HP
			cd.PreviousHP = prev.HP
		} else {
			cd.CurrentLevel = cur.Level
			cd.PreviousLevel = prev.Level
			cd.CurrentAATotal = cur.AATotal
			cd.PreviousAATotal = prev.AATotal
			cd.CurrentHP = cur.HP
			cd.PreviousHP = prev.HP
			cd.LevelChange = cur.Level - prev.Level
			cd.AATotalChange = cur.AATotal - prev.AATotal
			cd.HPChange = cur.HP - prev.HP
		}

		if cd.LevelChange != 0 || cd.AATotalChange != 0 || cd.HPChange != 0 || cd.IsNew || cd.IsDeleted {
			out[name] = cd
		}
	}

	return out
}

func diffInventories(previous, current map[string]roster.Inventory) map[string]InventoryDelta {
	out := make(map[string]InventoryDelta)

	for name := range union(previous, current) {
		prevInv := previous[name]
		curInv := current[name]

		added := make(map[int]int)
		removed := make(map[int]int)

		for itemID, count := range curInv.Items {
			if prev := prevInv.Count(itemID); count > prev {
				added[itemID] = count - prev
			}
		}

		for itemID, count := range prevInv.Items {
			if cur := curInv.Count(itemID); count > cur {
				removed[itemID] = count - cur
			}
		}

		if len(added) == 0 && len(removed) == 0 {
			continue
		}

		names := make(map[int]string)
		for _, items := range []map[int]int{added, removed} {
			for itemID := range items {
				if n, ok := curInv.ItemNames[itemID]; ok {
					names[itemID] = n
				} else if n, ok := prevInv.ItemNames[itemID]; ok {
					names[itemID] = n
				}
			}
		}

		out[name] = InventoryDelta{
			Added:     nilIfEmpty(added),
			Removed:   nilIfEmpty(removed),
			ItemNames: nilIfEmpty(names),
		}
	}

	return out
}

// union yields the key set of both maps.
func union[V1, V2 any](a map[string]V1, b map[string]V2) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))

	for k := range a {
		keys[k] = struct{}{}
	}

	for k := range b {
		keys[k] = struct{}{}
	}

	return keys
}

// nilIfEmpty keeps persisted artifacts canonical: an empty map and an
// absent map must serialize identically, so empty maps are never stored.
func nilIfEmpty[K comparable, V any](m map[K]V) map[K]V {
	if len(m) == 0 {
		return nil
	}

	return m
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}

	return b
}
