// Package contract provides interfaces and shared utilities for the gitpulse internals.
package contract

import (
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// ProgressStore defines the key-value store that remembers what a viewer has
// already explored. Keys are opaque; no ordering or transactions are promised.
type ProgressStore interface {
	// Get returns the stored value for key, or an error wrapping a not-found sentinel.
	Get(key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Has reports whether key is present.
	Has(key string) (bool, error)

	// Keys returns every stored key that starts with prefix, sorted.
	Keys(prefix string) ([]string, error)

	// Reset removes every entry.
	Reset() error

	// GetStatus returns status information about the store.
	GetStatus() (schema.ProgressStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// Clock supplies the reference time for an analysis run.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }
