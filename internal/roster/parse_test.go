package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot_Valid(t *testing.T) {
	t.Parallel()

	doc := []byte(`{
		"characters": {
			"Alice": {"level": 60, "aa_total": 100, "hp": 4000, "class": "Cleric"},
			"Bob":   {"level": 12, "aa_total": 0, "hp": 300}
		},
		"inventories": {
			"Alice": {
				"items": {"100": 2, "205": 1},
				"item_names": {"100": "Blade of Carnage"}
			}
		}
	}`)

	snap, err := ParseSnapshot(doc)
	require.NoError(t, err)

	require.Len(t, snap.Characters, 2)
	assert.Equal(t, CharacterState{Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"}, snap.Characters["Alice"])
	assert.Equal(t, 2, snap.Inventories["Alice"].Count(100))
	assert.Equal(t, 0, snap.Inventories["Alice"].Count(999))
	assert.Equal(t, "Blade of Carnage", snap.Inventories["Alice"].ItemNames[100])
}

func TestParseSnapshot_InventoriesOptional(t *testing.T) {
	t.Parallel()

	snap, err := ParseSnapshot([]byte(`{"characters": {}}`))
	require.NoError(t, err)

	assert.NotNil(t, snap.Inventories)
	assert.Empty(t, snap.Inventories)
}

func TestParseSnapshot_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"characters": `},
		{"missing characters", `{}`},
		{"missing required stat", `{"characters": {"Alice": {"level": 60}}}`},
		{"negative level", `{"characters": {"Alice": {"level": -1, "aa_total": 0, "hp": 0}}}`},
		{"zero item count", `{"characters": {}, "inventories": {"Alice": {"items": {"100": 0}}}}`},
		{"non-numeric item id", `{"characters": {}, "inventories": {"Alice": {"items": {"sword": 1}}}}`},
		{"unknown top-level field", `{"characters": {}, "spells": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSnapshot([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestSnapshotClone_Independent(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot()
	snap.Characters["Alice"] = CharacterState{Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"}
	snap.Inventories["Alice"] = Inventory{
		Items:     map[int]int{100: 2},
		ItemNames: map[int]string{100: "Blade of Carnage"},
	}

	clone := snap.Clone()
	clone.Characters["Alice"] = CharacterState{Level: 61}
	clone.Inventories["Alice"].Items[100] = 9

	assert.Equal(t, 60, snap.Characters["Alice"].Level)
	assert.Equal(t, 2, snap.Inventories["Alice"].Items[100])
}
