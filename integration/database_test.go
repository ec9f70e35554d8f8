//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// progressSummary mirrors the JSON of `progress summary`.
type progressSummary struct {
	schema.ProgressSummary
	Status schema.ProgressStatus `json:"status"`
}

// exerciseProgressStore drives the progress commands against the backend named by the environment.
func exerciseProgressStore(t *testing.T, backend string) {
	_, err := runGitpulse(t, "", "progress", "reset")
	require.NoError(t, err)

	// Running an analysis marks the git analytics tool explored
	_, err = runGitpulse(t, sampleLog, "stats", "--output", "json")
	require.NoError(t, err)

	_, err = runGitpulse(t, "", "progress", "set", "chapter:1")
	require.NoError(t, err)
	_, err = runGitpulse(t, "", "progress", "set", "chapter:2", "yes")
	require.NoError(t, err)
	_, err = runGitpulse(t, "", "progress", "set", "chapter:4", "false")
	require.NoError(t, err)

	out, err := runGitpulse(t, "", "progress", "get", "chapter:2")
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)

	out, err = runGitpulse(t, "", "progress", "has", "chapter:3")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = runGitpulse(t, "", "progress", "get", "chapter:3")
	assert.Error(t, err, "a missing key exits non-zero")

	out, err = runGitpulse(t, "", "progress", "summary", "--output", "json")
	require.NoError(t, err)
	var summary progressSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"1", "2"}, summary.CompletedChapters)
	assert.Equal(t, []string{"git-analytics"}, summary.ExploredTools)
	assert.Equal(t, 50.0, summary.PercentComplete)
	assert.Equal(t, backend, summary.Status.Backend)
	assert.Equal(t, 4, summary.Status.TotalEntries)

	// Roll the schema back one step and forward again
	_, err = runGitpulse(t, "", "progress", "migrate", "--target-version", "1")
	require.NoError(t, err)
	out, err = runGitpulse(t, "", "progress", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "to 2")

	_, err = runGitpulse(t, "", "progress", "reset")
	require.NoError(t, err)
	out, err = runGitpulse(t, "", "progress", "list", "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

// TestGitpulseWithMySQL tests the progress commands with a MySQL backend.
func TestGitpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gitpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gitpulse?multiStatements=true", host, port.Port())

	t.Setenv("GITPULSE_PROGRESS_BACKEND", "mysql")
	t.Setenv("GITPULSE_PROGRESS_DB_CONNECT", connStr)

	exerciseProgressStore(t, "mysql")
}

// TestGitpulseWithPostgres tests the progress commands with a PostgreSQL backend.
func TestGitpulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())

	t.Setenv("GITPULSE_PROGRESS_BACKEND", "postgresql")
	t.Setenv("GITPULSE_PROGRESS_DB_CONNECT", connStr)

	exerciseProgressStore(t, "postgresql")
}
