package delta

import (
	"fmt"
	"log/slog"

	"github.com/guildtools/rosterdelta/internal/baseline"
	"github.com/guildtools/rosterdelta/internal/observability"
	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/internal/timex"
)

// Reconstructor answers arbitrary date-range queries. When both endpoints
// share a baseline it composes their deltas in O(changed characters). When
// a rotation happened between them it reconstructs both absolute states and
// diffs them directly, trading the sparsity win for correctness on that one
// query.
type Reconstructor struct {
	baselines *baseline.Store
	deltas    *Store
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewReconstructor creates a reconstructor. metrics may be nil.
func NewReconstructor(
	baselines *baseline.Store,
	deltas *Store,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Reconstructor {
	return &Reconstructor{baselines: baselines, deltas: deltas, logger: logger, metrics: metrics}
}

// Range returns the delta from the state observed at startDate to the state
// observed at endDate. Both days must have recorded deltas; missing days
// surface persist.ErrNotFound rather than being interpolated. A same-day
// range is the empty delta.
func (r *Reconstructor) Range(startDate, endDate string) (*Delta, error) {
	for _, date := range []string{startDate, endDate} {
		_, err := timex.ParseDay(date)
		if err != nil {
			return nil, err
		}
	}

	start, err := r.deltas.Get(startDate)
	if err != nil {
		return nil, err
	}

	end, err := r.deltas.Get(endDate)
	if err != nil {
		return nil, err
	}

	if startDate == endDate {
		return New(endDate, start.BaselineDate), nil
	}

	if start.BaselineDate == end.BaselineDate {
		r.metrics.RangeComposed()

		return Compose(start, end), nil
	}

	// A rotation happened inside the range; the two deltas speak about
	// different baselines and cannot be composed. Rebuild both absolute
	// states and diff them directly.
	r.metrics.RangeReconstructed()
	r.logger.Debug("range spans baseline rotation",
		"start_baseline", start.BaselineDate,
		"end_baseline", end.BaselineDate)

	startState, err := r.stateAt(start)
	if err != nil {
		return nil, err
	}

	endState, err := r.stateAt(end)
	if err != nil {
		return nil, err
	}

	return Diff(startState, endState, endDate, startDate), nil
}

func (r *Reconstructor) stateAt(d *Delta) (*roster.Snapshot, error) {
	base, err := r.baselines.LoadByDate(d.BaselineDate)
	if err != nil {
		return nil, fmt.Errorf("baseline %s for delta %s: %w", d.BaselineDate, d.Date, err)
	}

	return Apply(base.Snapshot(), d), nil
}
