package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound indicates the requested artifact does not exist in the store.
var ErrNotFound = errors.New("artifact not found")

// ErrCorruptData indicates an artifact exists but cannot be decoded in any
// supported format.
var ErrCorruptData = errors.New("corrupt artifact")

// artifactFileMode is the permission set for artifact files.
const artifactFileMode = 0o644

// storeDirMode is the permission set for store directories.
const storeDirMode = 0o755

// Store is a flat byte-oriented key/value store for persisted artifacts.
// Keys are opaque names including any codec extension. Writes replace whole
// values; values are immutable once read back.
type Store interface {
	// Put stores data under key, replacing any existing value.
	Put(key string, data []byte) error
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Has reports whether key exists without reading its value.
	Has(key string) (bool, error)
	// Close releases any resources held by the store.
	Close() error
}

// FSStore is a Store backed by files in a single directory.
type FSStore struct {
	root string
}

// NewFSStore creates a file-backed store rooted at dir, creating it if
// needed.
func NewFSStore(dir string) (*FSStore, error) {
	err := os.MkdirAll(dir, storeDirMode)
	if err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FSStore{root: dir}, nil
}

// Root returns the directory the store writes under.
func (s *FSStore) Root() string {
	return s.root
}

// Put implements Store.Put with a write-to-temp-then-rename so a crashed run
// never leaves a truncated artifact under the final key.
func (s *FSStore) Put(key string, data []byte) error {
	path := filepath.Join(s.root, key)
	tmp := path + ".tmp"

	err := os.WriteFile(tmp, data, artifactFileMode)
	if err != nil {
		return fmt.Errorf("write artifact %s: %w", key, err)
	}

	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("replace artifact %s: %w", key, err)
	}

	return nil
}

// Get implements Store.Get.
func (s *FSStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}

	return data, nil
}

// Has implements Store.Has.
func (s *FSStore) Has(key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat artifact %s: %w", key, err)
	}

	return true, nil
}

// Close implements Store.Close. File stores hold no open resources.
func (s *FSStore) Close() error {
	return nil
}
