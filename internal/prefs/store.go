// Package prefs implements the two-tier preference surface: a session
// store that lives in memory and a durable BoltDB store that survives
// restarts. Both tiers answer for the same keys; the session tier wins on
// read at startup.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPreferences = []byte("preferences")
	bucketLikes       = []byte("likes")
)

const keySafetyVisible = "nsfw_visible"

// Store is the durable preference tier backed by BoltDB, with an in-memory
// promote-on-read cache for hot-path lookups like the per-card like state.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	cache map[string][]byte
}

// NewStore opens (or creates) the durable store under dir. An empty dir
// runs memory-only, which keeps tests and one-off sessions off the disk.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "chatmix.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPreferences, bucketLikes} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string) ([]byte, bool) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true
}

func (s *Store) set(bucket []byte, key string, value []byte) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = value
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), value)
	})
}

func (s *Store) delete(bucket []byte, key string) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// === Safety preference ===

// SafetyVisible returns the durable safety preference, if one was written.
func (s *Store) SafetyVisible() (bool, bool) {
	data, ok := s.get(bucketPreferences, keySafetyVisible)
	if !ok {
		return false, false
	}
	return string(data) == "true", true
}

// SetSafetyVisible writes the durable safety preference.
func (s *Store) SetSafetyVisible(visible bool) error {
	return s.set(bucketPreferences, keySafetyVisible, []byte(boolString(visible)))
}

// === Likes ===

// ToggleLiked flips the liked state for a character and returns the new
// value.
func (s *Store) ToggleLiked(characterID string) (bool, error) {
	if s.IsLiked(characterID) {
		if err := s.delete(bucketLikes, characterID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.set(bucketLikes, characterID, []byte("1")); err != nil {
		return false, err
	}
	return true, nil
}

// IsLiked reports whether the character is liked.
func (s *Store) IsLiked(characterID string) bool {
	_, ok := s.get(bucketLikes, characterID)
	return ok
}
