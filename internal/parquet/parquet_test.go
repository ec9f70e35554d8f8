package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleResult() *schema.AnalysisResult {
	ms := sampleTime.UnixMilli()
	commit := schema.Commit{
		Hash: "abc123", Author: "alice", Email: "alice@example.com", Timestamp: ms,
		Message: "feat: login", Insertions: 10, Deletions: 2,
		Files: []schema.FileChange{{Filename: "api/login.go", Additions: 10, Deletions: 2, Changes: 12}},
	}
	return &schema.AnalysisResult{
		AsOf:    sampleTime,
		Commits: []schema.Commit{commit},
		Sessions: []schema.WorkSession{{
			ID: 1, Author: "alice", StartTime: ms, EndTime: ms, Commits: []schema.Commit{commit},
			FilesModified: []string{"api/login.go"}, TimeOfDay: schema.Morning, DayOfWeek: 5,
		}},
		Contributors: []schema.ContributorProfile{{Name: "alice", Email: "alice@example.com", TotalCommits: 1, FirstCommit: ms, LastCommit: ms}},
		Evolution: schema.Evolution{FileHistory: []schema.FileHistoryEntry{{
			Filename: "api/login.go", FirstModified: ms, LastModified: ms, TotalModifications: 1,
			Authors: 1, AuthorNames: []string{"alice"}, Lifespan: 36 * time.Hour.Milliseconds(),
		}}},
		Debt: schema.DebtReport{ScoreReport: schema.ScoreReport{
			Engine:    schema.DebtEngine,
			SubScores: map[schema.SubScoreKey]float64{schema.SubHotspot: 40},
			Weights:   schema.GetDefaultWeights(schema.DebtEngine),
			Composite: 62,
		}},
	}
}

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSchemaColumns(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"commit", new(Commit), []string{"hash", "author", "timestamp", "files", "insertions", "deletions"}},
		{"session", new(Session), []string{"session_id", "start_time", "end_time", "estimated_hours", "time_of_day"}},
		{"file history", new(FileHistory), []string{"filename", "total_modifications", "author_names", "lifespan_days"}},
		{"contributor", new(Contributor), []string{"name", "total_commits", "active_days", "is_night_owl"}},
		{"score", new(Score), []string{"as_of", "engine", "metric", "value", "weight"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteAnalysis(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	paths, err := WriteAnalysis(dir, sampleResult())
	require.NoError(t, err)

	expected := []string{CommitsFile, SessionsFile, FileHistoryFile, ContributorsFile, ScoresFile}
	require.Len(t, paths, len(expected))
	for i, name := range expected {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	commits := readRows[Commit](t, paths[0])
	require.Len(t, commits, 1)
	assert.Equal(t, "abc123", commits[0].Hash)
	assert.Equal(t, int32(1), commits[0].Files)
	assert.True(t, sampleTime.Equal(commits[0].Timestamp))

	files := readRows[FileHistory](t, paths[2])
	require.Len(t, files, 1)
	assert.Equal(t, "alice", files[0].AuthorNames)
	assert.InDelta(t, 1.5, files[0].LifespanDays, 1e-9)
}

func TestConvertScores(t *testing.T) {
	rows := ConvertScores(sampleResult())

	expected := 0
	for _, engine := range schema.AllEngines {
		expected += 1 + len(schema.SubScoreKeys(engine))
	}
	require.Len(t, rows, expected)

	var debt []Score
	for _, r := range rows {
		if r.Engine == string(schema.DebtEngine) {
			debt = append(debt, r)
		}
	}
	require.NotEmpty(t, debt)
	assert.Equal(t, CompositeMetric, debt[0].Metric)
	assert.Equal(t, 62.0, debt[0].Value)
	assert.Nil(t, debt[0].Weight)
	assert.Equal(t, string(schema.SubHotspot), debt[1].Metric)
	assert.Equal(t, 40.0, debt[1].Value)
	require.NotNil(t, debt[1].Weight)
	assert.Equal(t, 0.30, *debt[1].Weight)
}

func TestWriteScoresRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ScoresFile)
	rows := ConvertScores(sampleResult())
	require.NoError(t, writeRows(rows, path))

	read := readRows[Score](t, path)
	require.Len(t, read, len(rows))
	assert.Nil(t, read[0].Weight, "composite rows have no weight")
	require.NotNil(t, read[1].Weight)
	assert.Equal(t, *rows[1].Weight, *read[1].Weight)
}

func TestWriteAnalysis_Empty(t *testing.T) {
	paths, err := WriteAnalysis(t.TempDir(), &schema.AnalysisResult{})
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	assert.Empty(t, readRows[Commit](t, paths[0]))
}
