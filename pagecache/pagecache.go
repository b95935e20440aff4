// Package pagecache is an explicit key -> response-blob store used to
// cache whole feed pages. Nothing invalidates entries automatically:
// writes to the underlying data never touch the cache, and stale pages
// are served until an entry expires or Invalidate/Clear is called.
package pagecache

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL bounds staleness when nobody clears the cache explicitly.
const DefaultTTL = 20 * time.Second

const keyPrefix = "page:"

type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates a store backed by BadgerDB at dir. An empty dir opens an
// in-memory database, which tests and local runs use. A non-positive
// ttl falls back to DefaultTTL.
func Open(dir string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Key derives the cache key for a request from its method, path, and
// raw query, so /?page=2 caches apart from /?page=1.
func Key(r *http.Request) string {
	key := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}

// Get returns the cached blob for key, if present and unexpired.
func (s *Store) Get(key string) ([]byte, bool) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return blob, true
}

// Set stores blob under key with the store's TTL.
func (s *Store) Set(key string, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+key), blob).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
}

// Invalidate drops a single cached page. An absent key is a no-op.
func (s *Store) Invalidate(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Clear drops every cached page.
func (s *Store) Clear() error {
	return s.db.DropPrefix([]byte(keyPrefix))
}

func (s *Store) Close() error {
	return s.db.Close()
}
