// Package iocache persists viewer progress across runs.
package iocache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// ErrNotFound is returned by Get when a key has never been set.
var ErrNotFound = errors.New("progress key not found")

// ProgressStoreManager holds the store opened for the current process.
type ProgressStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	progress     contract.ProgressStore
}

// GetProgressStore returns the progress store, or nil before initialization.
func (mgr *ProgressStoreManager) GetProgressStore() contract.ProgressStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.progress
}

// NewProgressStore opens the store for a backend. An empty connStr selects the
// default database file for the file-backed backends.
func NewProgressStore(backend schema.DatabaseBackend, connStr string) (contract.ProgressStore, error) {
	switch backend {
	case schema.BoltBackend:
		path := connStr
		if path == "" {
			path = contract.GetProgressDBFilePath(backend)
		}
		return NewBoltStore(path)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStore(backend, connStr)
	case schema.NoneBackend:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported progress backend: %s. Must be bolt, sqlite, mysql, postgresql, or none", backend)
	}
}
