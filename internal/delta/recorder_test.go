package delta

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildtools/rosterdelta/internal/baseline"
	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/internal/timex"
	"github.com/guildtools/rosterdelta/pkg/persist"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testHarness bundles the stores of one isolated storage root.
type testHarness struct {
	store     *persist.FSStore
	baselines *baseline.Store
	deltas    *Store
	recorder  *Recorder
}

func newTestHarness(t *testing.T, thresholdDays int) *testHarness {
	t.Helper()

	store, err := persist.NewFSStore(t.TempDir())
	require.NoError(t, err)

	logger := testLogger()
	codec := persist.NewGzipJSONCodec()

	baselines := baseline.NewStore(store, codec, logger)
	deltas := NewStore(store, codec, logger)

	return &testHarness{
		store:     store,
		baselines: baselines,
		deltas:    deltas,
		recorder:  NewRecorder(baselines, deltas, thresholdDays, logger, nil),
	}
}

func TestRecordDaily_FirstRunInstallsBaseline(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t, DefaultRotationThresholdDays)

	snap := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
	}, nil)

	d, err := h.recorder.RecordDaily(snap, "2026-01-01")
	require.NoError(t, err)

	assert.True(t, d.Empty())
	assert.Equal(t, "2026-01-01", d.Date)
	assert.Equal(t, "2026-01-01", d.BaselineDate)

	base, err := h.baselines.Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", base.BaselineDate)
	assert.Equal(t, 60, base.Characters["Alice"].Level)

	// The empty first-day delta is persisted so range queries can anchor.
	stored, err := h.deltas.Get("2026-01-01")
	require.NoError(t, err)
	assert.True(t, stored.Empty())
}

func TestRecordDaily_DeltaAgainstBaseline(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t, DefaultRotationThresholdDays)

	day0 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 1}},
	})

	_, err := h.recorder.RecordDaily(day0, "2026-01-01")
	require.NoError(t, err)

	day5 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 140, HP: 4000, Class: "Cleric"},
	}, map[string]roster.Inventory{
		"Alice": {Items: map[int]int{100: 2}},
	})

	d, err := h.recorder.RecordDaily(day5, "2026-01-06")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", d.BaselineDate)
	assert.Equal(t, 40, d.CharDeltas["Alice"].AATotalChange)
	assert.Equal(t, map[int]int{100: 1}, d.InvDeltas["Alice"].Added)

	stored, err := h.deltas.Get("2026-01-06")
	require.NoError(t, err)
	assert.Equal(t, d, stored)
}

func TestRecordDaily_IdempotentRerecording(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t, DefaultRotationThresholdDays)

	day0 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
	}, nil)

	_, err := h.recorder.RecordDaily(day0, "2026-01-01")
	require.NoError(t, err)

	day5 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 140, HP: 4000, Class: "Cleric"},
	}, nil)

	_, err = h.recorder.RecordDaily(day5, "2026-01-06")
	require.NoError(t, err)

	first, err := h.store.Get("delta_daily_2026-01-06.json.gz")
	require.NoError(t, err)

	_, err = h.recorder.RecordDaily(day5, "2026-01-06")
	require.NoError(t, err)

	second, err := h.store.Get("delta_daily_2026-01-06.json.gz")
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-recording the same day must be byte-identical")
}

func TestRecordDaily_RotationAtThreshold(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t, 90)

	day0 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 100, HP: 4000, Class: "Cleric"},
	}, nil)

	_, err := h.recorder.RecordDaily(day0, "2026-01-01")
	require.NoError(t, err)

	// Day 89: below threshold, baseline stays.
	day89 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 150, HP: 4000, Class: "Cleric"},
	}, nil)

	d, err := h.recorder.RecordDaily(day89, "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", d.BaselineDate)

	// Day 90: threshold reached, baseline rotates; the delta is recorded
	// against the fresh baseline so the day itself shows no change.
	day90 := snapshotWith(map[string]roster.CharacterState{
		"Alice": {Level: 60, AATotal: 155, HP: 4000, Class: "Cleric"},
	}, nil)

	d, err = h.recorder.RecordDaily(day90, "2026-04-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", d.BaselineDate)
	assert.True(t, d.Empty())

	// The superseded baseline stays loadable under its own date.
	archived, err := h.baselines.LoadByDate("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 100, archived.Characters["Alice"].AATotal)

	current, err := h.baselines.Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", current.BaselineDate)
	assert.Equal(t, 155, current.Characters["Alice"].AATotal)
}

func TestRecordDaily_InvalidDate(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t, DefaultRotationThresholdDays)

	_, err := h.recorder.RecordDaily(roster.NewSnapshot(), "02/06/2026")
	assert.ErrorIs(t, err, timex.ErrInvalidDate)
}
