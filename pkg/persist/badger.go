package persist

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore is a Store backed by an embedded Badger database. It suits
// deployments with many retained daily deltas, where one file per artifact
// becomes unwieldy.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreInMemory opens an ephemeral in-memory Badger store, used by
// tests.
func NewBadgerStoreInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger store: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// Put implements Store.Put.
func (s *BadgerStore) Put(key string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("put artifact %s: %w", key, err)
	}

	return nil
}

// Get implements Store.Get.
func (s *BadgerStore) Get(key string) ([]byte, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return nil, fmt.Errorf("get artifact %s: %w", key, err)
	}

	return data, nil
}

// Has implements Store.Has.
func (s *BadgerStore) Has(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))

		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("check artifact %s: %w", key, err)
	}

	return true, nil
}

// Close implements Store.Close.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
