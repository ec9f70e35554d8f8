package iocache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// MemoryStore keeps progress for the lifetime of the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]record
	clock   contract.Clock
}

var _ contract.ProgressStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]record), clock: contract.SystemClock{}}
}

// Get implements the ProgressStore interface.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return rec.Value, nil
}

// Set implements the ProgressStore interface.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = record{Value: value, UpdatedAt: s.clock.Now().UnixMilli()}
	return nil
}

// Has implements the ProgressStore interface.
func (s *MemoryStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok, nil
}

// Keys implements the ProgressStore interface.
func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []string{}
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Reset implements the ProgressStore interface.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// GetStatus implements the ProgressStore interface.
func (s *MemoryStore) GetStatus() (schema.ProgressStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.ProgressStatus{
		Backend:      string(schema.NoneBackend),
		Connected:    true,
		TotalEntries: len(s.entries),
	}
	var last int64
	for _, rec := range s.entries {
		last = max(last, rec.UpdatedAt)
	}
	if last > 0 {
		status.LastEntryTime = time.UnixMilli(last)
	}
	return status, nil
}

// Close implements the ProgressStore interface.
func (s *MemoryStore) Close() error {
	return nil
}
