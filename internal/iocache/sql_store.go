package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLStore keeps progress in the progress table of a SQL database.
type SQLStore struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
	clock   contract.Clock
}

var _ contract.ProgressStore = &SQLStore{} // Compile-time check

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// openSQL connects to a SQL backend and verifies the connection.
func openSQL(backend schema.DatabaseBackend, connStr string) (*sqlx.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetProgressDBFilePath(backend)
		}
		if connStr != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(connStr), 0o755); err != nil {
				return nil, fmt.Errorf("create progress directory: %w", err)
			}
		}
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported SQL backend: %s", backend)
	}

	db, err := sqlx.Connect(driverName(backend), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// A single connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewSQLStore connects to a SQL backend and migrates the schema to the latest version.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	db, err := openSQL(backend, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := migrateDB(db.DB, backend, -1); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, backend: backend, clock: contract.SystemClock{}}, nil
}

// upsertQuery returns the backend-specific insert-or-replace statement.
func (s *SQLStore) upsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return `INSERT INTO progress (progress_key, progress_value, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE progress_value = new.progress_value, updated_at = new.updated_at`
	case schema.PostgreSQLBackend:
		return `INSERT INTO progress (progress_key, progress_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (progress_key) DO UPDATE SET progress_value = EXCLUDED.progress_value, updated_at = EXCLUDED.updated_at`
	default: // SQLite
		return `INSERT INTO progress (progress_key, progress_value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (progress_key) DO UPDATE SET progress_value = excluded.progress_value, updated_at = excluded.updated_at`
	}
}

// Get implements the ProgressStore interface.
func (s *SQLStore) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, s.db.Rebind(`SELECT progress_value FROM progress WHERE progress_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, err
}

// Set implements the ProgressStore interface.
func (s *SQLStore) Set(key, value string) error {
	_, err := s.db.Exec(s.upsertQuery(), key, value, s.clock.Now().UnixMilli())
	return err
}

// Has implements the ProgressStore interface.
func (s *SQLStore) Has(key string) (bool, error) {
	var n int
	if err := s.db.Get(&n, s.db.Rebind(`SELECT COUNT(*) FROM progress WHERE progress_key = ?`), key); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Keys implements the ProgressStore interface. Filtering and sorting happen
// here so that LIKE escaping and collations do not differ between dialects.
func (s *SQLStore) Keys(prefix string) ([]string, error) {
	var all []string
	if err := s.db.Select(&all, `SELECT progress_key FROM progress`); err != nil {
		return nil, err
	}
	keys := []string{}
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Reset implements the ProgressStore interface.
func (s *SQLStore) Reset() error {
	_, err := s.db.Exec(`DELETE FROM progress`)
	return err
}

// GetStatus implements the ProgressStore interface.
func (s *SQLStore) GetStatus() (schema.ProgressStatus, error) {
	status := schema.ProgressStatus{Backend: string(s.backend), Connected: true}
	var row struct {
		Total int           `db:"total"`
		Last  sql.NullInt64 `db:"last"`
	}
	if err := s.db.Get(&row, `SELECT COUNT(*) AS total, MAX(updated_at) AS last FROM progress`); err != nil {
		return status, fmt.Errorf("failed to get progress status: %w", err)
	}
	status.TotalEntries = row.Total
	if row.Last.Valid {
		status.LastEntryTime = time.UnixMilli(row.Last.Int64)
	}
	return status, nil
}

// Close implements the ProgressStore interface.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
