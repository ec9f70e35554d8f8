// Package schema has the records produced and consumed by every part of gitpulse.
package schema

import "time"

// Commit is a single parsed commit block. It is immutable once parsed.
type Commit struct {
	Hash       string       `json:"hash"`
	Author     string       `json:"author"`
	Email      string       `json:"email"`
	Timestamp  int64        `json:"timestamp"` // Epoch milliseconds
	TZOffset   int          `json:"tz_offset"` // Seconds east of UTC as recorded on the Date line
	Message    string       `json:"message"`
	Files      []FileChange `json:"files"`
	Insertions int          `json:"insertions"`
	Deletions  int          `json:"deletions"`
}

// FileChange is one file-stat line of a commit.
// Additions and deletions are counted from the visual bar, so they may undercount large diffs.
type FileChange struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// Time returns the commit time in the author's recorded offset.
func (c Commit) Time() time.Time {
	return time.UnixMilli(c.Timestamp).In(time.FixedZone("", c.TZOffset))
}

// TotalChanges returns insertions plus deletions.
func (c Commit) TotalChanges() int {
	return c.Insertions + c.Deletions
}

// ParseWarning describes a commit block that was dropped by the parser.
type ParseWarning struct {
	Line   int    `json:"line"` // 1-based line of the commit header
	Hash   string `json:"hash,omitempty"`
	Reason string `json:"reason"`
}

// ParseResult is the parser output: the retained commits plus what was dropped.
type ParseResult struct {
	Commits      []Commit       `json:"commits"`
	DroppedCount int            `json:"dropped_count"`
	Warnings     []ParseWarning `json:"warnings"`
}

// DateRange is an inclusive [Start, End] range in epoch milliseconds.
type DateRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// CommitSummary reduces a commit sequence to totals.
type CommitSummary struct {
	TotalCommits      int        `json:"total_commits"`
	TotalFiles        int        `json:"total_files"`
	TotalContributors int        `json:"total_contributors"`
	TotalInsertions   int        `json:"total_insertions"`
	TotalDeletions    int        `json:"total_deletions"`
	Contributors      []string   `json:"contributors"`
	DateRange         *DateRange `json:"date_range"`
}

// MillisToTime converts epoch milliseconds to a UTC time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
