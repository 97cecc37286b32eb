package period

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/guildtools/rosterdelta/internal/delta"
	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/internal/timex"
	"github.com/guildtools/rosterdelta/pkg/persist"
)

// DefaultMinAALevel is the minimum level at which AA gains count toward
// leaderboards. HP gains count at any level.
const DefaultMinAALevel = 50

// Baseline is the persisted scalar-only reference state for one period.
type Baseline struct {
	PeriodStart string                           `json:"period_start"`
	PeriodType  Type                             `json:"period_type"`
	DateSaved   string                           `json:"date_saved"`
	Characters  map[string]roster.CharacterState `json:"characters"`
}

// Gain is one character's accumulated progress since a period start.
type Gain struct {
	AAGain int
	HPGain int
	Level  int
	Class  string
}

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
	Level int    `json:"level"`
	Gain  int    `json:"gain"`
}

// Aggregator maintains period baselines and delta snapshots and answers
// gain queries against them, falling back through progressively sparser
// sources when the baseline is unavailable.
type Aggregator struct {
	store      persist.Store
	codec      persist.Codec
	ranges     *delta.Reconstructor
	minAALevel int
	logger     *slog.Logger
}

// NewAggregator creates an aggregator. ranges powers the last-resort
// fallback of accumulating from recorded daily deltas and may be nil to
// disable that path.
func NewAggregator(
	store persist.Store,
	codec persist.Codec,
	ranges *delta.Reconstructor,
	minAALevel int,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		store:      store,
		codec:      codec,
		ranges:     ranges,
		minAALevel: minAALevel,
		logger:     logger,
	}
}

// Observe folds one observation into the period bookkeeping for ptype:
// lazily installing the period baseline on the first observation inside the
// period, then refreshing the period's delta snapshot against it.
func (a *Aggregator) Observe(ptype Type, date string, current *roster.Snapshot) error {
	day, err := timex.ParseDay(date)
	if err != nil {
		return err
	}

	periodStart := timex.FormatDay(ptype.Start(day))

	base, err := a.loadBaseline(ptype, periodStart)
	if errors.Is(err, persist.ErrNotFound) {
		base = &Baseline{
			PeriodStart: periodStart,
			PeriodType:  ptype,
			DateSaved:   date,
			Characters:  current.Characters,
		}

		err = persist.SaveState(a.store, ptype.baselineKey(periodStart), a.codec, base)
		if err != nil {
			return fmt.Errorf("save %s baseline %s: %w", ptype, periodStart, err)
		}

		a.logger.Info("period baseline created",
			"period_type", ptype,
			"period_start", periodStart,
			"characters", len(base.Characters))
	} else if err != nil {
		return err
	}

	baseSnap := &roster.Snapshot{Characters: base.Characters}
	curSnap := &roster.Snapshot{Characters: current.Characters}

	d := delta.Diff(baseSnap, curSnap, date, periodStart)

	err = persist.SaveState(a.store, ptype.deltaKey(periodStart), a.codec, d)
	if err != nil {
		return fmt.Errorf("save %s delta %s: %w", ptype, periodStart, err)
	}

	return nil
}

// Accumulate returns each character's gains since the period containing
// date began. Sources are tried in order: the period baseline (full
// comparison against current), the period delta snapshot, and finally
// composition of the recorded daily deltas. Each fallback narrows what can
// be reported; none fabricates data. With no source at all the result is
// empty.
func (a *Aggregator) Accumulate(ptype Type, date string, current *roster.Snapshot) (map[string]Gain, error) {
	day, err := timex.ParseDay(date)
	if err != nil {
		return nil, err
	}

	periodStart := timex.FormatDay(ptype.Start(day))

	base, err := a.loadBaseline(ptype, periodStart)
	if err == nil {
		return gainsAgainstBaseline(base, current), nil
	}

	if !errors.Is(err, persist.ErrNotFound) {
		return nil, err
	}

	snap, err := a.loadDeltaSnapshot(ptype, periodStart)
	if err == nil {
		return gainsFromDelta(snap), nil
	}

	if !errors.Is(err, persist.ErrNotFound) {
		return nil, err
	}

	if a.ranges != nil {
		ranged, rangeErr := a.ranges.Range(periodStart, date)
		if rangeErr == nil {
			return gainsFromDelta(ranged), nil
		}

		if !errors.Is(rangeErr, persist.ErrNotFound) {
			return nil, rangeErr
		}
	}

	a.logger.Warn("no period data available",
		"period_type", ptype,
		"period_start", periodStart)

	return map[string]Gain{}, nil
}

// Leaderboard ranks characters by their gain in the given metric since the
// period containing date began. AA rankings admit only characters at or
// above the minimum AA level; both metrics admit only strictly positive
// gains. Rows are sorted by descending gain and truncated to topN.
func (a *Aggregator) Leaderboard(
	ptype Type,
	metric Metric,
	date string,
	topN int,
	current *roster.Snapshot,
) ([]Entry, error) {
	gains, err := a.Accumulate(ptype, date, current)
	if err != nil {
		return nil, err
	}

	return rank(gains, metric, a.minAALevel, topN), nil
}

func (a *Aggregator) loadBaseline(ptype Type, periodStart string) (*Baseline, error) {
	var base Baseline

	_, err := persist.LoadFirst(a.store, []persist.Source{
		{Basename: ptype.baselineKey(periodStart), Codec: a.codec},
		{Basename: ptype.baselineKey(periodStart), Codec: persist.NewJSONCodec()},
	}, &base)
	if err != nil {
		return nil, err
	}

	return &base, nil
}

func (a *Aggregator) loadDeltaSnapshot(ptype Type, periodStart string) (*delta.Delta, error) {
	var d delta.Delta

	_, err := persist.LoadFirst(a.store, []persist.Source{
		{Basename: ptype.deltaKey(periodStart), Codec: a.codec},
		{Basename: ptype.deltaKey(periodStart), Codec: persist.NewJSONCodec()},
	}, &d)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func gainsAgainstBaseline(base *Baseline, current *roster.Snapshot) map[string]Gain {
	gains := make(map[string]Gain)

	for name, cur := range current.Characters {
		prev, ok := base.Characters[name]
		if !ok {
			// Joined mid-period: no reference point, nothing to report.
			continue
		}

		aaGain := cur.AATotal - prev.AATotal
		hpGain := cur.HP - prev.HP

		if aaGain > 0 || hpGain > 0 {
			gains[name] = Gain{AAGain: aaGain, HPGain: hpGain, Level: cur.Level, Class: cur.Class}
		}
	}

	return gains
}

func gainsFromDelta(d *delta.Delta) map[string]Gain {
	gains := make(map[string]Gain)

	for name, cd := range d.CharDeltas {
		if cd.IsNew || cd.IsDeleted {
			continue
		}

		if cd.AATotalChange > 0 || cd.HPChange > 0 {
			gains[name] = Gain{
				AAGain: cd.AATotalChange,
				HPGain: cd.HPChange,
				Level:  cd.CurrentLevel,
				Class:  cd.Class,
			}
		}
	}

	return gains
}
