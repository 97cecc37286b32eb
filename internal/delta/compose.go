package delta

// Compose combines two deltas recorded against the same baseline into the
// delta from a's observation to b's, in one pass over the characters that
// appear in either input. The caller must guarantee a.BaselineDate ==
// b.BaselineDate; composing across different baselines silently produces
// baseline-relative nonsense, which is why range queries go through
// Reconstructor instead of calling Compose directly.
func Compose(a, b *Delta) *Delta {
	out := New(b.Date, b.BaselineDate)
	out.CharDeltas = nilIfEmpty(composeCharacters(a.CharDeltas, b.CharDeltas))
	out.InvDeltas = nilIfEmpty(composeInventories(a.InvDeltas, b.InvDeltas))

	return out
}

func composeCharacters(a, b map[string]CharacterDelta) map[string]CharacterDelta {
	out := make(map[string]CharacterDelta)

	for name := range union(a, b) {
		ad, inA := a[name]
		bd, inB := b[name]

		// A missing entry means "unchanged since baseline" on that side, so
		// the value at that point is the other side's recorded previous.
		aLevel, aAA, aHP := ad.CurrentLevel, ad.CurrentAATotal, ad.CurrentHP
		if !inA {
			aLevel, aAA, aHP = bd.PreviousLevel, bd.PreviousAATotal, bd.PreviousHP
		}

		bLevel, bAA, bHP := bd.CurrentLevel, bd.CurrentAATotal, bd.CurrentHP
		if !inB {
			bLevel, bAA, bHP = ad.PreviousLevel, ad.PreviousAATotal, ad.PreviousHP
		}

		cd := CharacterDelta{
			LevelChange:     bLevel - aLevel,
			AATotalChange:   bAA - aAA,
			HPChange:        bHP - aHP,
			CurrentLevel:    bLevel,
			PreviousLevel:   aLevel,
			CurrentAATotal:  bAA,
			PreviousAATotal: aAA,
			CurrentHP:       bHP,
			PreviousHP:      aHP,
			Class:           firstNonEmpty(bd.Class, ad.Class),
			// The transition counts only if it happened strictly inside
			// (a, b]: a character already new at point a is not re-flagged.
			IsNew:     bd.IsNew && !ad.IsNew,
			IsDeleted: bd.IsDeleted && !ad.IsDeleted,
		}

		if cd.LevelChange != 0 || cd.AATotalChange != 0 || cd.HPChange != 0 || cd.IsNew || cd.IsDeleted {
			out[name] = cd
		}
	}

	return out
}

// composeInventories nets the two baseline-relative item movements of each
// character into the movement between the two observations.
//
// Within a single delta an item is on at most one side (added or removed),
// so each item falls into exactly one of three provenance cases, handled by
// disjoint rules rather than a single subtract-then-sign-split. That keeps
// the added/removed mutual exclusion holding by construction.
func composeInventories(a, b map[string]InventoryDelta) map[string]InventoryDelta {
	out := make(map[string]InventoryDelta)

	for name := range union(a, b) {
		ad := a[name]
		bd := b[name]

		added := make(map[int]int)
		removed := make(map[int]int)

		for itemID := range unionItems(ad, bd) {
			aAdd, aRem := ad.Added[itemID], ad.Removed[itemID]
			bAdd, bRem := bd.Added[itemID], bd.Removed[itemID]

			switch {
			case aAdd > 0 && bRem > 0:
				// Gained before a, removed by b: the two movements net.
				// Removing exactly what had been freshly gained cancels out.
				net := bRem - aAdd
				if net > 0 {
					removed[itemID] = net
				} else if net < 0 {
					added[itemID] = -net
				}
			case aRem > 0 && bAdd > 0:
				// Removed before a, re-added by b: mirrored netting.
				net := bAdd - aRem
				if net > 0 {
					added[itemID] = net
				} else if net < 0 {
					removed[itemID] = -net
				}
			default:
				// Same-side provenance: both movements are additions, or
				// both are removals, relative to the shared baseline.
				if diff := bAdd - aAdd; diff > 0 {
					added[itemID] = diff
				} else if diff < 0 {
					removed[itemID] = -diff
				}

				if diff := bRem - aRem; diff > 0 {
					removed[itemID] = diff
				} else if diff < 0 {
					added[itemID] = -diff
				}
			}
		}

		if len(added) == 0 && len(removed) == 0 {
			continue
		}

		names := make(map[int]string)
		for _, items := range []map[int]int{added, removed} {
			for itemID := range items {
				if n, ok := bd.ItemNames[itemID]; ok {
					names[itemID] = n
				} else if n, ok := ad.ItemNames[itemID]; ok {
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

func unionItems(a, b InventoryDelta) map[int]struct{} {
	items := make(map[int]struct{}, len(a.Added)+len(a.Removed)+len(b.Added)+len(b.Removed))

	for _, m := range []map[int]int{a.Added, a.Removed, b.Added, b.Removed} {
		for itemID := range m {
			items[itemID] = struct{}{}
		}
	}

	return items
}
