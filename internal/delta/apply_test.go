package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guildtools/rosterdelta/internal/roster"
)

// TestApply_RoundTrip checks that replaying diff(base, cur) on top of base
// reproduces cur exactly, for scalars and inventories, including new and
// deleted characters.
func TestApply_RoundTrip(t *testing.T) {
	t.Parallel()

	base := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
		"Gone":  {Level: 50, AATotal: 20, HP: 2500, Class: "Druid"},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 2, 205: 1}},
		"Gone":  {Items: map[int]int{300: 1}},
	})

	cur := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 61, AATotal: 150, HP: 4100, Class: "Cleric"},
		"Dan":   {Level: 8, AATotal: 0, HP: 200, Class: "Rogue"},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 1, 400: 2}},
		"Dan":   {Items: map[int]int{500: 1}},
	})

	d := Diff(base, cur, "2026-02-06", "2026-02-01")
	rebuilt := Apply(base, d)

	assert.Equal(t, cur.Characters, rebuilt.Characters)

	for name, inv := range cur.Inventories {
		assert.Equal(t, inv.Items, rebuilt.Inventories[name].Items, "inventory of %s", name)
	}
}

func TestApply_EmptyDeltaIsIdentity(t *testing.T) {
	t.Parallel()

	base := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 2}},
	})

	rebuilt := Apply(base, New("2026-02-06", "2026-02-06"))

	assert.Equal(t, base.Characters, rebuilt.Characters)
	assert.Equal(t, base.Inventories["Alice"].Items, rebuilt.Inventories["Alice"].Items)
}

func TestApply_DoesNotMutateBaseline(t *testing.T) {
	t.Parallel()

	base := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 2}},
	})

	cur := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 65, AATotal: 300, HP: 5000},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 7}},
	})

	Apply(base, Diff(base, cur, "2026-02-06", "2026-02-01"))

	assert.Equal(t, 60, base.Characters["Alice"].Level)
	assert.Equal(t, 2, base.Inventories["Alice"].Items[100])
}
