package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics

	m.DeltaRecorded(3, 1)
	m.BaselineRotated()
	m.RangeComposed()
	m.RangeReconstructed()

	require.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "ignored.prom")))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.DeltaRecorded(3, 1)
	m.DeltaRecorded(5, 2)
	m.BaselineRotated()
	m.RangeComposed()

	path := filepath.Join(t.TempDir(), "rosterdelta.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "rosterdelta_deltas_recorded_total 2")
	assert.Contains(t, out, "rosterdelta_baseline_rotations_total 1")
	assert.Contains(t, out, "rosterdelta_range_compose_total 1")
	assert.Contains(t, out, "rosterdelta_range_reconstruct_total 0")
	// Gauges reflect the most recent delta only.
	assert.Contains(t, out, "rosterdelta_last_delta_characters 5")
	assert.Contains(t, out, "rosterdelta_last_delta_inventories 2")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteTextfileReplacesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rosterdelta.prom")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	m := New()
	m.DeltaRecorded(1, 0)
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "rosterdelta_deltas_recorded_total 1")
}
