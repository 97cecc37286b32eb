package persist

import (
	"bytes"
	"errors"
	"fmt"
)

// SaveState encodes state with the codec and stores it under
// basename + codec extension. Re-saving equal state with a deterministic
// codec produces a byte-identical artifact.
func SaveState(store Store, basename string, codec Codec, state any) error {
	var buf bytes.Buffer

	err := codec.Encode(&buf, state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", basename, err)
	}

	err = store.Put(basename+codec.Extension(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("store %s: %w", basename, err)
	}

	return nil
}

// LoadState loads and decodes the artifact stored under
// basename + codec extension into state, which must be a pointer.
// Returns ErrNotFound if absent, ErrCorruptData if present but undecodable.
func LoadState(store Store, basename string, codec Codec, state any) error {
	key := basename + codec.Extension()

	data, err := store.Get(key)
	if err != nil {
		return err
	}

	err = codec.Decode(bytes.NewReader(data), state)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptData, key, err)
	}

	return nil
}

// Source names one place an artifact may live: a basename plus the codec
// that reads it.
type Source struct {
	Basename string
	Codec    Codec
}

// LoadFirst tries each source in order and decodes the first one present
// into state, returning the winning source. Absent sources are skipped;
// a present-but-corrupt source aborts the chain with ErrCorruptData.
// Returns ErrNotFound when no source is present.
//
// This replaces nested exists/else fallback conditionals: adding or removing
// a tolerated legacy format is a one-line change at the call site.
func LoadFirst(store Store, sources []Source, state any) (Source, error) {
	for _, src := range sources {
		err := LoadState(store, src.Basename, src.Codec, state)
		if err == nil {
			return src, nil
		}

		if errors.Is(err, ErrNotFound) {
			continue
		}

		return Source{}, err
	}

	return Source{}, fmt.Errorf("%w: no source present", ErrNotFound)
}

// Size reports the stored size in bytes of basename + codec extension,
// or ErrNotFound.
func Size(store Store, basename string, codec Codec) (int64, error) {
	data, err := store.Get(basename + codec.Extension())
	if err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}
