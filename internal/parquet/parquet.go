// Package parquet exports gitpulse analysis results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// File names written by WriteAnalysis.
const (
	CommitsFile      = "commits.parquet"
	SessionsFile     = "sessions.parquet"
	FileHistoryFile  = "file_history.parquet"
	ContributorsFile = "contributors.parquet"
	ScoresFile       = "scores.parquet"
)

// CompositeMetric is the metric name of an engine's composite score row.
const CompositeMetric = "composite"

// Commit is one parsed commit.
type Commit struct {
	Hash       string    `parquet:"hash,snappy"`
	Author     string    `parquet:"author,snappy,dict"`
	Email      string    `parquet:"email,snappy,dict"`
	Timestamp  time.Time `parquet:"timestamp,snappy"`
	Message    string    `parquet:"message,snappy"`
	Files      int32     `parquet:"files,snappy"`
	Insertions int32     `parquet:"insertions,snappy"`
	Deletions  int32     `parquet:"deletions,snappy"`
}

// Session is one detected work session.
type Session struct {
	SessionID      int32     `parquet:"session_id,snappy"`
	Author         string    `parquet:"author,snappy,dict"`
	StartTime      time.Time `parquet:"start_time,snappy"`
	EndTime        time.Time `parquet:"end_time,snappy"`
	Commits        int32     `parquet:"commits,snappy"`
	Insertions     int32     `parquet:"insertions,snappy"`
	Deletions      int32     `parquet:"deletions,snappy"`
	FilesModified  int32     `parquet:"files_modified,snappy"`
	DurationMs     int64     `parquet:"duration_ms,snappy"`
	EstimatedHours float64   `parquet:"estimated_hours,snappy"`
	TimeOfDay      string    `parquet:"time_of_day,snappy,dict"`
	DayOfWeek      int32     `parquet:"day_of_week,snappy"`
	IsWeekend      bool      `parquet:"is_weekend,snappy"`
}

// FileHistory is the lifetime record of one file.
type FileHistory struct {
	Filename           string    `parquet:"filename,snappy"`
	FirstModified      time.Time `parquet:"first_modified,snappy"`
	LastModified       time.Time `parquet:"last_modified,snappy"`
	TotalModifications int32     `parquet:"total_modifications,snappy"`
	TotalInsertions    int32     `parquet:"total_insertions,snappy"`
	TotalDeletions     int32     `parquet:"total_deletions,snappy"`
	Authors            int32     `parquet:"authors,snappy"`
	AuthorNames        string    `parquet:"author_names,snappy"` // Pipe separated
	LifespanDays       float64   `parquet:"lifespan_days,snappy"`
}

// Contributor is one contributor profile.
type Contributor struct {
	Name                 string    `parquet:"name,snappy"`
	Email                string    `parquet:"email,snappy"`
	TotalCommits         int32     `parquet:"total_commits,snappy"`
	TotalInsertions      int32     `parquet:"total_insertions,snappy"`
	TotalDeletions       int32     `parquet:"total_deletions,snappy"`
	FilesModified        int32     `parquet:"files_modified,snappy"`
	FirstCommit          time.Time `parquet:"first_commit,snappy"`
	LastCommit           time.Time `parquet:"last_commit,snappy"`
	ActiveDays           int32     `parquet:"active_days,snappy"`
	AverageCommitsPerDay float64   `parquet:"average_commits_per_day,snappy"`
	PeakHour             int32     `parquet:"peak_hour,snappy"`
	IsNightOwl           bool      `parquet:"is_night_owl,snappy"`
}

// Score is one composite or sub-score of an engine.
type Score struct {
	AsOf   time.Time `parquet:"as_of,snappy"`
	Engine string    `parquet:"engine,snappy,dict"`
	Metric string    `parquet:"metric,snappy,dict"`
	Value  float64   `parquet:"value,snappy"`

	// Weight is nil for the composite row
	Weight *float64 `parquet:"weight,optional,snappy"`
}

// writeRows writes a slice of rows to a Parquet file, with the schema
// derived from the row struct tags.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// WriteAnalysis writes the five export files into dir, creating it if needed,
// and returns their paths.
func WriteAnalysis(dir string, result *schema.AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	writers := []struct {
		name  string
		write func(string) error
	}{
		{CommitsFile, func(p string) error { return writeRows(ConvertCommits(result.Commits), p) }},
		{SessionsFile, func(p string) error { return writeRows(ConvertSessions(result.Sessions), p) }},
		{FileHistoryFile, func(p string) error { return writeRows(ConvertFileHistory(result.Evolution.FileHistory), p) }},
		{ContributorsFile, func(p string) error { return writeRows(ConvertContributors(result.Contributors), p) }},
		{ScoresFile, func(p string) error { return writeRows(ConvertScores(result), p) }},
	}
	paths := make([]string, 0, len(writers))
	for _, w := range writers {
		path := filepath.Join(dir, w.name)
		if err := w.write(path); err != nil {
			return paths, fmt.Errorf("%s: %w", w.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ConvertCommits converts parsed commits to Commit rows.
func ConvertCommits(commits []schema.Commit) []Commit {
	rows := make([]Commit, len(commits))
	for i, c := range commits {
		rows[i] = Commit{
			Hash:       c.Hash,
			Author:     c.Author,
			Email:      c.Email,
			Timestamp:  schema.MillisToTime(c.Timestamp),
			Message:    c.Message,
			Files:      int32(len(c.Files)),
			Insertions: int32(c.Insertions),
			Deletions:  int32(c.Deletions),
		}
	}
	return rows
}

// ConvertSessions converts work sessions to Session rows.
func ConvertSessions(sessions []schema.WorkSession) []Session {
	rows := make([]Session, len(sessions))
	for i, s := range sessions {
		rows[i] = Session{
			SessionID:      int32(s.ID),
			Author:         s.Author,
			StartTime:      schema.MillisToTime(s.StartTime),
			EndTime:        schema.MillisToTime(s.EndTime),
			Commits:        int32(len(s.Commits)),
			Insertions:     int32(s.Insertions),
			Deletions:      int32(s.Deletions),
			FilesModified:  int32(len(s.FilesModified)),
			DurationMs:     s.Duration,
			EstimatedHours: s.EstimatedHours,
			TimeOfDay:      string(s.TimeOfDay),
			DayOfWeek:      int32(s.DayOfWeek),
			IsWeekend:      s.IsWeekend,
		}
	}
	return rows
}

// ConvertFileHistory converts file history entries to FileHistory rows.
func ConvertFileHistory(files []schema.FileHistoryEntry) []FileHistory {
	rows := make([]FileHistory, len(files))
	for i, f := range files {
		rows[i] = FileHistory{
			Filename:           f.Filename,
			FirstModified:      schema.MillisToTime(f.FirstModified),
			LastModified:       schema.MillisToTime(f.LastModified),
			TotalModifications: int32(f.TotalModifications),
			TotalInsertions:    int32(f.TotalInsertions),
			TotalDeletions:     int32(f.TotalDeletions),
			Authors:            int32(f.Authors),
			AuthorNames:        strings.Join(f.AuthorNames, "|"),
			LifespanDays:       algo.Days(f.Lifespan),
		}
	}
	return rows
}

// ConvertContributors converts contributor profiles to Contributor rows.
func ConvertContributors(profiles []schema.ContributorProfile) []Contributor {
	rows := make([]Contributor, len(profiles))
	for i, p := range profiles {
		rows[i] = Contributor{
			Name:                 p.Name,
			Email:                p.Email,
			TotalCommits:         int32(p.TotalCommits),
			TotalInsertions:      int32(p.TotalInsertions),
			TotalDeletions:       int32(p.TotalDeletions),
			FilesModified:        int32(p.FilesModified),
			FirstCommit:          schema.MillisToTime(p.FirstCommit),
			LastCommit:           schema.MillisToTime(p.LastCommit),
			ActiveDays:           int32(p.ActiveDays),
			AverageCommitsPerDay: p.AverageCommitsPerDay,
			PeakHour:             int32(p.PeakHour),
			IsNightOwl:           p.IsNightOwl,
		}
	}
	return rows
}

// ConvertScores flattens every engine report into one composite row followed
// by one row per sub-score, in engine order.
func ConvertScores(result *schema.AnalysisResult) []Score {
	var rows []Score
	for _, engine := range schema.AllEngines {
		report, _ := result.Report(engine)
		rows = append(rows, Score{
			AsOf:   result.AsOf,
			Engine: string(engine),
			Metric: CompositeMetric,
			Value:  report.Composite,
		})
		for _, key := range schema.SubScoreKeys(engine) {
			weight := report.Weights[key]
			rows = append(rows, Score{
				AsOf:   result.AsOf,
				Engine: string(engine),
				Metric: string(key),
				Value:  report.SubScores[key],
				Weight: &weight,
			})
		}
	}
	return rows
}
