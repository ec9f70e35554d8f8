package schema

import "time"

// Key prefixes used by the progress store.
const (
	ChapterKeyPrefix = "chapter:"
	ToolKeyPrefix    = "tool:"
)

// Totals used by the progress summary.
const (
	TotalChapters = 4
	TotalTools    = 3
)

// ProgressStatus represents the status of the progress store.
type ProgressStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalEntries  int       `json:"total_entries"`
	LastEntryTime time.Time `json:"last_entry_time"`
}

// ProgressSummary reports how much of the guided material a viewer has seen.
type ProgressSummary struct {
	CompletedChapters []string `json:"completed_chapters"`
	TotalChapters     int      `json:"total_chapters"`
	ExploredTools     []string `json:"explored_tools"`
	TotalTools        int      `json:"total_tools"`
	PercentComplete   float64  `json:"percent_complete"`
}

// SkillEntry is one line of the skill registry index.
type SkillEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
}

// Skill is the content of one registry entry.
type Skill struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Body     string         `json:"body"`
	Content  string         `json:"content"`
}
