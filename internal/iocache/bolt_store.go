package iocache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	bolt "go.etcd.io/bbolt"
)

var progressBucket = []byte("progress")

// record is the stored form of one entry in the key-value backends.
type record struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"` // Epoch milliseconds
}

// BoltStore is the default progress store, a single bbolt file.
type BoltStore struct {
	db    *bolt.DB
	clock contract.Clock
}

var _ contract.ProgressStore = &BoltStore{} // Compile-time check

// NewBoltStore opens or creates the bolt file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create progress directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt progress store at %q: %w. Is another gitpulse process holding it?", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(progressBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create progress bucket: %w", err)
	}
	return &BoltStore{db: db, clock: contract.SystemClock{}}, nil
}

// Get implements the ProgressStore interface.
func (s *BoltStore) Get(key string) (string, error) {
	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(progressBucket).Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// Set implements the ProgressStore interface.
func (s *BoltStore) Set(key, value string) error {
	raw, err := json.Marshal(record{Value: value, UpdatedAt: s.clock.Now().UnixMilli()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(progressBucket).Put([]byte(key), raw)
	})
}

// Has implements the ProgressStore interface.
func (s *BoltStore) Has(key string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(progressBucket).Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

// Keys implements the ProgressStore interface. Bolt iterates in byte order,
// so the result is already sorted.
func (s *BoltStore) Keys(prefix string) ([]string, error) {
	keys := []string{}
	p := []byte(prefix)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(progressBucket).Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// Reset implements the ProgressStore interface.
func (s *BoltStore) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(progressBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(progressBucket)
		return err
	})
}

// GetStatus implements the ProgressStore interface.
func (s *BoltStore) GetStatus() (schema.ProgressStatus, error) {
	status := schema.ProgressStatus{Backend: string(schema.BoltBackend), Connected: true}
	var last int64
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(progressBucket).ForEach(func(_, raw []byte) error {
			var rec record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			status.TotalEntries++
			last = max(last, rec.UpdatedAt)
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to read progress entries: %w", err)
	}
	if last > 0 {
		status.LastEntryTime = time.UnixMilli(last)
	}
	return status, nil
}

// Close implements the ProgressStore interface.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
