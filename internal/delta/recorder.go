package delta

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/guildtools/rosterdelta/internal/baseline"
	"github.com/guildtools/rosterdelta/internal/observability"
	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/internal/timex"
	"github.com/guildtools/rosterdelta/pkg/persist"
)

// DefaultRotationThresholdDays is how old the master baseline may grow
// before a recording run rotates it.
const DefaultRotationThresholdDays = 90

// Recorder turns one observed snapshot into the persisted daily delta
// against the master baseline, rotating the baseline first when it is due.
type Recorder struct {
	baselines     *baseline.Store
	deltas        *Store
	thresholdDays int
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewRecorder creates a recorder. metrics may be nil.
func NewRecorder(
	baselines *baseline.Store,
	deltas *Store,
	thresholdDays int,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Recorder {
	return &Recorder{
		baselines:     baselines,
		deltas:        deltas,
		thresholdDays: thresholdDays,
		logger:        logger,
		metrics:       metrics,
	}
}

// RecordDaily records the delta of current against the master baseline for
// the given observation day and persists it keyed by that day. Re-running
// the same day with the same input overwrites with an identical artifact.
//
// On the very first run there is no baseline: current itself is installed
// as the baseline and the day's delta is empty by definition.
func (r *Recorder) RecordDaily(current *roster.Snapshot, date string) (*Delta, error) {
	_, err := timex.ParseDay(date)
	if err != nil {
		return nil, err
	}

	base, err := r.baselines.Load()
	if errors.Is(err, persist.ErrNotFound) {
		return r.recordFirstRun(current, date)
	}

	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	base, rotated, err := r.baselines.Rotate(current, date, r.thresholdDays)
	if err != nil {
		return nil, fmt.Errorf("rotate baseline: %w", err)
	}

	if rotated {
		r.metrics.BaselineRotated()
	}

	d := Diff(base.Snapshot(), current, date, base.BaselineDate)

	err = r.deltas.Save(d)
	if err != nil {
		return nil, err
	}

	r.metrics.DeltaRecorded(len(d.CharDeltas), len(d.InvDeltas))

	r.logger.Info("daily delta recorded",
		"date", date,
		"baseline_date", d.BaselineDate,
		"characters_changed", len(d.CharDeltas),
		"inventories_changed", len(d.InvDeltas))

	return d, nil
}

func (r *Recorder) recordFirstRun(current *roster.Snapshot, date string) (*Delta, error) {
	_, err := r.baselines.Save(current, date)
	if err != nil {
		return nil, fmt.Errorf("create initial baseline: %w", err)
	}

	d := New(date, date)

	err = r.deltas.Save(d)
	if err != nil {
		return nil, err
	}

	r.metrics.DeltaRecorded(0, 0)

	r.logger.Info("initial baseline created", "date", date)

	return d, nil
}
