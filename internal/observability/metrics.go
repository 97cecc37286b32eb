// Package observability collects batch-run metrics on a private Prometheus
// registry. A cron-driven process has nothing to scrape, so completed runs
// flush the registry to a node-exporter textfile-collector file instead.
package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// textfileMode is the permission set for the flushed metrics file.
const textfileMode = 0o644

// Metrics holds the instruments for one batch run. A nil *Metrics is valid
// and records nothing, so components take it without guarding call sites.
type Metrics struct {
	registry *prometheus.Registry

	deltasRecorded    prometheus.Counter
	baselineRotations prometheus.Counter
	composeFastPath   prometheus.Counter
	composeFallback   prometheus.Counter
	charactersChanged prometheus.Gauge
	inventoriesMoved  prometheus.Gauge
}

// New creates a metrics set on a fresh private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.deltasRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosterdelta_deltas_recorded_total",
		Help: "Daily deltas persisted during this run.",
	})
	m.baselineRotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosterdelta_baseline_rotations_total",
		Help: "Master baseline rotations performed during this run.",
	})
	m.composeFastPath = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosterdelta_range_compose_total",
		Help: "Range queries answered by same-baseline delta composition.",
	})
	m.composeFallback = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rosterdelta_range_reconstruct_total",
		Help: "Range queries answered by full-state reconstruction across a rotation boundary.",
	})
	m.charactersChanged = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rosterdelta_last_delta_characters",
		Help: "Characters with changes in the most recently recorded delta.",
	})
	m.inventoriesMoved = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rosterdelta_last_delta_inventories",
		Help: "Characters with inventory movement in the most recently recorded delta.",
	})

	m.registry.MustRegister(
		m.deltasRecorded,
		m.baselineRotations,
		m.composeFastPath,
		m.composeFallback,
		m.charactersChanged,
		m.inventoriesMoved,
	)

	return m
}

// DeltaRecorded notes one persisted daily delta and its sparse entry counts.
func (m *Metrics) DeltaRecorded(characters, inventories int) {
	if m == nil {
		return
	}

	m.deltasRecorded.Inc()
	m.charactersChanged.Set(float64(characters))
	m.inventoriesMoved.Set(float64(inventories))
}

// BaselineRotated notes one master baseline rotation.
func (m *Metrics) BaselineRotated() {
	if m == nil {
		return
	}

	m.baselineRotations.Inc()
}

// RangeComposed notes a range query served by the fast composition path.
func (m *Metrics) RangeComposed() {
	if m == nil {
		return
	}

	m.composeFastPath.Inc()
}

// RangeReconstructed notes a range query served by the cross-rotation
// reconstruction fallback.
func (m *Metrics) RangeReconstructed() {
	if m == nil {
		return
	}

	m.composeFallback.Inc()
}

// WriteTextfile flushes the registry in Prometheus text exposition format,
// atomically replacing path, for pickup by a textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	for _, family := range families {
		_, err = expfmt.MetricFamilyToText(tmp, family)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())

			return fmt.Errorf("write metrics: %w", err)
		}
	}

	err = tmp.Chmod(textfileMode)
	if err == nil {
		err = tmp.Close()
	}

	if err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("finalize metrics file: %w", err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return fmt.Errorf("replace metrics file: %w", err)
	}

	return nil
}
