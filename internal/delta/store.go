package delta

import (
	"fmt"
	"log/slog"

	"github.com/guildtools/rosterdelta/pkg/persist"
)

// dailyKeyPrefix prefixes the artifact basename of one observation day's
// delta: delta_daily_2026-02-06.
const dailyKeyPrefix = "delta_daily_"

// Store persists one delta per observation day. Writes replace the whole
// artifact; a re-recorded day overwrites its predecessor. Reads tolerate
// the legacy uncompressed format.
type Store struct {
	store  persist.Store
	codec  persist.Codec
	logger *slog.Logger
}

// NewStore creates a delta store writing with the given codec.
func NewStore(store persist.Store, codec persist.Codec, logger *slog.Logger) *Store {
	return &Store{store: store, codec: codec, logger: logger}
}

// Save persists d keyed by its date.
func (s *Store) Save(d *Delta) error {
	err := persist.SaveState(s.store, dailyKey(d.Date), s.codec, d)
	if err != nil {
		return fmt.Errorf("save delta %s: %w", d.Date, err)
	}

	s.logger.Debug("delta saved",
		"date", d.Date,
		"baseline_date", d.BaselineDate,
		"characters", len(d.CharDeltas),
		"inventories", len(d.InvDeltas))

	return nil
}

// Get loads the delta for one observation day, or persist.ErrNotFound.
// Missing days are never interpolated.
func (s *Store) Get(date string) (*Delta, error) {
	var d Delta

	_, err := persist.LoadFirst(s.store, []persist.Source{
		{Basename: dailyKey(date), Codec: s.codec},
		{Basename: dailyKey(date), Codec: persist.NewJSONCodec()},
	}, &d)
	if err != nil {
		return nil, fmt.Errorf("delta %s: %w", date, err)
	}

	return &d, nil
}

// Size reports the stored artifact size for one observation day.
func (s *Store) Size(date string) (int64, error) {
	return persist.Size(s.store, dailyKey(date), s.codec)
}

func dailyKey(date string) string {
	return dailyKeyPrefix + date
}
