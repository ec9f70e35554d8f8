package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &ProgressStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitProgress opens the global progress store. Later calls are no-ops.
func InitProgress(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewProgressStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize progress store: %w", err)
			return
		}
		Manager.Lock()
		Manager.progress = store
		Manager.Unlock()
	})
	return initErr
}

// CloseProgress should be called on application shutdown.
func CloseProgress() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.progress != nil {
			if err := Manager.progress.Close(); err != nil {
				contract.LogWarn("Failed to close progress store", err)
			}
		}
	})
}

// ClearProgress removes the database file of a file-backed store. Server
// backends are cleared with Reset instead.
func ClearProgress(backend schema.DatabaseBackend, dbFilePath string) error {
	switch backend {
	case schema.BoltBackend, schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetProgressDBFilePath(backend)
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove progress database file %s: %w", dbFilePath, err)
		}
		return nil
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("clearing by file is not supported for %s backend", backend)
	}
}
