package badger

import (
	"context"
	"errors"
	"time"

	"github.com/folio-app/folio/backend/pkg/cache"

	dgbadger "github.com/dgraph-io/badger/v4"
)

// Store is an embedded Badger-backed cache backend. Entry expiry uses
// Badger's native TTL support.
type Store struct {
	db *dgbadger.DB
}

// Open opens or creates the Badger database at path.
func Open(path string) (*Store, error) {
	opts := dgbadger.DefaultOptions(path)
	opts.Logger = nil

	db, err := dgbadger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *dgbadger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, dgbadger.ErrKeyNotFound) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.db.Update(func(txn *dgbadger.Txn) error {
		entry := dgbadger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) (int, error) {
	count := 0
	err := s.db.Update(func(txn *dgbadger.Txn) error {
		opts := dgbadger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := txn.Delete(it.Item().KeyCopy(nil)); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
