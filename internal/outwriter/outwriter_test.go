package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:      output,
		ResultLimit: 2,
		Precision:   1,
		Width:       120,
		Workers:     4,
	}
}

func sampleResult() *schema.AnalysisResult {
	day := int64(24 * 60 * 60 * 1000)
	return &schema.AnalysisResult{
		AsOf:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Dropped:  1,
		Warnings: []schema.ParseWarning{{Line: 7, Reason: "missing Date line"}},
		Summary: schema.CommitSummary{
			TotalCommits:      3,
			TotalFiles:        2,
			TotalContributors: 2,
			TotalInsertions:   30,
			TotalDeletions:    5,
			Contributors:      []string{"alice", "bob"},
			DateRange:         &schema.DateRange{Start: day, End: 3 * day},
		},
		ProjectMetrics: schema.ProjectMetrics{TotalCommits: 3, NetLines: 25, ProjectAgeDays: 2},
		Sessions: []schema.WorkSession{
			{ID: 1, Author: "alice", EstimatedHours: 0.5, TimeOfDay: schema.Morning},
			{ID: 2, Author: "bob", EstimatedHours: 3, TimeOfDay: schema.Evening},
			{ID: 3, Author: "alice", EstimatedHours: 1.5, TimeOfDay: schema.Night},
		},
		Contributors: []schema.ContributorProfile{
			{Name: "bob", TotalCommits: 1},
			{Name: "alice", TotalCommits: 2, PeakHour: 9},
		},
		Collaboration: schema.Collaboration{
			Pairs:            []schema.CollaborationPair{{Key: "alice & bob", AuthorA: "alice", AuthorB: "bob", SharedFiles: 1}},
			SharedFiles:      []schema.SharedFile{{Filename: "main.go", Authors: []string{"alice", "bob"}, AuthorCount: 2}},
			TotalSharedFiles: 1,
		},
		Evolution: schema.Evolution{
			Hotspots: []schema.FileHistoryEntry{
				{Filename: "main.go", TotalModifications: 3, Authors: 2, Lifespan: 2 * day},
			},
			TotalFilesEverTouched: 2,
			ProjectAge:            2 * day,
		},
		Debt: schema.DebtReport{ScoreReport: schema.ScoreReport{
			Engine:    schema.DebtEngine,
			SubScores: map[schema.SubScoreKey]float64{schema.SubHotspot: 40, schema.SubChurn: 80},
			Weights:   schema.GetDefaultWeights(schema.DebtEngine),
			Composite: 62,
			Recommendations: []schema.Recommendation{
				{Category: "architecture", Severity: schema.SeverityHigh, Title: "Architecture Boundary Violations", Action: "Split modules"},
			},
		}},
		Transition: schema.TransitionReport{
			ScoreReport: schema.ScoreReport{Engine: schema.TransitionEngine, Composite: 88},
			Phase:       "scale-optimized",
		},
	}
}

func renderString(t *testing.T, v view, cfg *contract.Config) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render(&buf, v, cfg, false))
	return buf.String()
}

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "precision 0", precision: 0, value: 3.14159, expected: "3"},
		{name: "negative value", precision: 1, value: -42.567, expected: "-42.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtInt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "42", fmtInt(42))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"value": 42}))
	assert.Equal(t, "{\n  \"value\": 42\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"name", "description"}, func(w *csv.Writer) error {
		return w.Write([]string{"Test", "A value, with comma"})
	})
	require.NoError(t, err)
	assert.Equal(t, "name,description\nTest,\"A value, with comma\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := io.WriteString(w, "test content")
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "test content", string(content))

	err = writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Wrote test")
	assert.Error(t, err)
}

func TestStatsView(t *testing.T) {
	result := sampleResult()

	t.Run("csv carries the first section", func(t *testing.T) {
		cfg := testConfig(schema.CSVOut)
		out := renderString(t, statsView(result, cfg, time.Second), cfg)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, "metric,value", lines[0])
		assert.Equal(t, "total_commits,3", lines[1])
		assert.Contains(t, out, "first_commit,1970-01-02T00:00:00Z")
		assert.Contains(t, out, "dropped_commits,1")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(schema.JSONOut)
		out := renderString(t, statsView(result, cfg, time.Second), cfg)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, float64(3), decoded["summary"].(map[string]any)["total_commits"])
		assert.Equal(t, float64(1), decoded["dropped"])
		assert.True(t, strings.HasPrefix(out, "{\n  \""), "two-space indent")
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(schema.TextOut)
		out := renderString(t, statsView(result, cfg, 1500*time.Millisecond), cfg)
		assert.Contains(t, out, "Commit Summary\n==============\n")
		assert.Contains(t, out, "total_commits")
		assert.Contains(t, out, "line 7: missing Date line")
		assert.Contains(t, out, "Analysis completed in 1.5s with 4 workers.")
	})
}

func TestRender_Parquet(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	err := render(io.Discard, statsView(sampleResult(), cfg, 0), cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export")

	err = WriteStats(sampleResult(), cfg, 0)
	assert.Error(t, err)
}

func TestRender_EmptySection(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	out := renderString(t, view{sections: []section{{title: "Empty", header: []string{"a"}}}}, cfg)
	assert.Equal(t, "Empty\n=====\n(none)\n", out)
}

func TestSessionsView(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	out := renderString(t, sessionsView(sampleResult(), cfg, 0), cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "header plus the two longest sessions")
	assert.True(t, strings.HasPrefix(lines[1], "2,bob,"))
	assert.True(t, strings.HasPrefix(lines[2], "3,alice,"))
}

func TestContributorsView(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	out := renderString(t, contributorsView(sampleResult(), cfg, 0), cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1,alice,2,0,0,0,0,0.0,09:00,false", lines[1])
}

func TestCollaborationView(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	out := renderString(t, collaborationView(sampleResult(), cfg, 0), cfg)
	var decoded schema.Collaboration
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.TotalSharedFiles)
	require.Len(t, decoded.Pairs, 1)
	assert.Equal(t, "alice & bob", decoded.Pairs[0].Key)
}

func TestEvolutionView(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	out := renderString(t, evolutionView(sampleResult(), cfg, 0), cfg)
	assert.Equal(t, "rank,file,modifications,authors,lifespan_days\n1,main.go,3,2,2.0\n", out)
}

func TestTimingView(t *testing.T) {
	result := sampleResult()
	result.Timing.HourlyActivity[9] = 2
	cfg := testConfig(schema.CSVOut)
	out := renderString(t, timingView(result, cfg, 0), cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "09:00,2", lines[10])
}

func TestScoresView(t *testing.T) {
	result := sampleResult()
	cfg := testConfig(schema.CSVOut)
	out := renderString(t, scoresView(result, []schema.EngineName{schema.DebtEngine, schema.TransitionEngine}, cfg, 0), cfg)

	assert.Contains(t, out, "debt,composite,62.0,,High\n")
	assert.Contains(t, out, "debt,hotspot,40.0,0.3,\n")
	assert.Contains(t, out, "transition,composite,88.0,,Low\n")
	assert.NotContains(t, out, "scaling")

	cfg = testConfig(schema.TextOut)
	text := renderString(t, scoresView(result, []schema.EngineName{schema.DebtEngine}, cfg, 0), cfg)
	assert.Contains(t, text, "Architecture Boundary Violations")
	assert.Contains(t, text, "debt: 0.0% of changes land in 0 files")

	cfg = testConfig(schema.JSONOut)
	js := renderString(t, scoresView(result, []schema.EngineName{schema.DebtEngine}, cfg, 0), cfg)
	var decoded map[string]schema.DebtReport
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, 62.0, decoded["debt"].Composite)
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, contract.CriticalValue, scoreLabel(schema.DebtEngine, 85, contract.GetPlainLabel))
	assert.Equal(t, contract.LowValue, scoreLabel(schema.VelocityEngine, 85, contract.GetPlainLabel))
	assert.Equal(t, contract.HighValue, severityText(schema.SeverityHigh, contract.GetPlainLabel))
	assert.Equal(t, contract.LowValue, severityText(schema.SeverityLow, contract.GetPlainLabel))
}

func TestReportView_JSONIncludesEvolution(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	out := renderString(t, reportView(sampleResult(), cfg, 0), cfg)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "evolution")
	assert.Contains(t, decoded, "debt")
	assert.NotContains(t, decoded, "commits")
}

func TestWriteStats_ToFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, WriteStats(sampleResult(), cfg, 0))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\"total_commits\": 3")
}

func TestProgressViews(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	assert.Equal(t, "[]\n", renderString(t, progressEntriesView(nil), cfg))
	assert.Equal(t, "[]\n", renderString(t, skillsView(nil), cfg))

	summary := schema.ProgressSummary{
		CompletedChapters: []string{"1", "2"},
		TotalChapters:     schema.TotalChapters,
		ExploredTools:     []string{"diagrams"},
		TotalTools:        schema.TotalTools,
		PercentComplete:   50,
	}
	cfg = testConfig(schema.CSVOut)
	out := renderString(t, progressSummaryView(summary, schema.ProgressStatus{Backend: "none"}, cfg), cfg)
	assert.Contains(t, out, "completed_chapters,2/4\n")
	assert.Contains(t, out, "percent_complete,50.0\n")
	assert.Contains(t, out, "last_entry,-\n")
}

func TestWriteSkill_ToFile(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "skill.md")
	require.NoError(t, WriteSkill(schema.Skill{ID: "x", Content: "# Skill\n"}, cfg))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "# Skill\n", string(content))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 40, expected: 15},
		{width: 100, expected: 55},
		{width: 300, expected: 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTablePathWidth(&contract.Config{Width: tt.width}))
	}
}

func TestUseColors(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	assert.False(t, useColors(cfg), "colors disabled")

	cfg.UseColors = true
	cfg.OutputFile = "out.txt"
	assert.False(t, useColors(cfg), "files are never colored")

	cfg = testConfig(schema.JSONOut)
	cfg.UseColors = true
	assert.False(t, useColors(cfg))
}
