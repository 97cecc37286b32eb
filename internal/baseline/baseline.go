// Package baseline persists the master full-state reference snapshot that
// daily deltas are expressed against, and rotates it once it grows stale.
package baseline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/internal/timex"
	"github.com/guildtools/rosterdelta/pkg/persist"
)

// ErrBaselineMissing indicates an operation that needs a baseline found
// none and could not create one. Fatal in normal operation: recording
// self-heals by installing a baseline on first run.
var ErrBaselineMissing = errors.New("no baseline available")

// masterKey is the artifact basename of the current master baseline.
// Archived baselines append their own date: baseline_master_2026-02-06.
const masterKey = "baseline_master"

// Baseline is the persisted full-state reference snapshot. It is the only
// artifact carrying complete per-character data; everything else is sparse.
type Baseline struct {
	BaselineDate string                           `json:"baseline_date"`
	Characters   map[string]roster.CharacterState `json:"characters"`
	Inventories  map[string]roster.Inventory      `json:"inventories,omitempty"`
}

// Snapshot returns the baseline's full state as a roster snapshot.
func (b *Baseline) Snapshot() *roster.Snapshot {
	return &roster.Snapshot{Characters: b.Characters, Inventories: b.Inventories}
}

// Store persists baselines in an artifact store. The read path tolerates
// the legacy uncompressed format.
type Store struct {
	store  persist.Store
	codec  persist.Codec
	logger *slog.Logger
}

// NewStore creates a baseline store writing with the given codec.
func NewStore(store persist.Store, codec persist.Codec, logger *slog.Logger) *Store {
	return &Store{store: store, codec: codec, logger: logger}
}

// Save installs state as the current master baseline for the given day.
func (s *Store) Save(state *roster.Snapshot, date string) (*Baseline, error) {
	b := &Baseline{
		BaselineDate: date,
		Characters:   state.Characters,
		Inventories:  state.Inventories,
	}

	err := persist.SaveState(s.store, masterKey, s.codec, b)
	if err != nil {
		return nil, fmt.Errorf("save baseline: %w", err)
	}

	s.logger.Info("baseline saved",
		"date", date,
		"characters", len(b.Characters),
		"inventories", len(b.Inventories))

	return b, nil
}

// Load returns the current master baseline, or persist.ErrNotFound if none
// has ever been created.
func (s *Store) Load() (*Baseline, error) {
	return s.loadKey(masterKey)
}

// LoadByDate returns the baseline that was in effect with the given
// baseline date: the current master if it matches, otherwise the archived
// copy saved during rotation.
func (s *Store) LoadByDate(date string) (*Baseline, error) {
	current, err := s.Load()
	if err == nil && current.BaselineDate == date {
		return current, nil
	}

	if err != nil && !errors.Is(err, persist.ErrNotFound) {
		return nil, err
	}

	return s.loadKey(archivedKey(date))
}

// Rotate archives the current baseline and installs state as the new one
// when at least thresholdDays have passed since the baseline date. Below
// the threshold it is a no-op returning the existing baseline. The archived
// copy stays loadable under its own date forever.
func (s *Store) Rotate(state *roster.Snapshot, date string, thresholdDays int) (*Baseline, bool, error) {
	current, err := s.Load()
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			return nil, false, ErrBaselineMissing
		}

		return nil, false, err
	}

	baselineDay, err := timex.ParseDay(current.BaselineDate)
	if err != nil {
		return nil, false, fmt.Errorf("baseline date: %w", err)
	}

	currentDay, err := timex.ParseDay(date)
	if err != nil {
		return nil, false, err
	}

	age := timex.DaysBetween(baselineDay, currentDay)
	if age < thresholdDays {
		return current, false, nil
	}

	err = persist.SaveState(s.store, archivedKey(current.BaselineDate), s.codec, current)
	if err != nil {
		return nil, false, fmt.Errorf("archive baseline %s: %w", current.BaselineDate, err)
	}

	s.logger.Info("baseline rotated",
		"previous", current.BaselineDate,
		"new", date,
		"age_days", age)

	fresh, err := s.Save(state, date)
	if err != nil {
		return nil, false, err
	}

	return fresh, true, nil
}

// Size reports the stored artifact size of the current master baseline.
func (s *Store) Size() (int64, error) {
	return persist.Size(s.store, masterKey, s.codec)
}

func (s *Store) loadKey(key string) (*Baseline, error) {
	var b Baseline

	_, err := persist.LoadFirst(s.store, []persist.Source{
		{Basename: key, Codec: s.codec},
		{Basename: key, Codec: persist.NewJSONCodec()},
	}, &b)
	if err != nil {
		return nil, err
	}

	if b.Inventories == nil {
		b.Inventories = make(map[string]roster.Inventory)
	}

	return &b, nil
}

func archivedKey(date string) string {
	return masterKey + "_" + date
}
