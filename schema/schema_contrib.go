package schema

// DayCount is the number of commits on one calendar date (YYYY-MM-DD).
type DayCount struct {
	Date    string `json:"date"`
	Commits int    `json:"commits"`
}

// FileCount is an edit tally for one file.
type FileCount struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
}

// ContributorProfile aggregates everything one author did.
type ContributorProfile struct {
	Name                    string      `json:"name"`
	Email                   string      `json:"email"`
	TotalCommits            int         `json:"total_commits"`
	TotalInsertions         int         `json:"total_insertions"`
	TotalDeletions          int         `json:"total_deletions"`
	FilesModified           int         `json:"files_modified"`
	FirstCommit             int64       `json:"first_commit"`
	LastCommit              int64       `json:"last_commit"`
	CommitsByDay            []DayCount  `json:"commits_by_day"`
	CommitsByHour           [24]int     `json:"commits_by_hour"`
	FavoriteFiles           []FileCount `json:"favorite_files"`
	ActiveDays              int         `json:"active_days"`
	AverageCommitsPerDay    float64     `json:"average_commits_per_day"`
	PeakHour                int         `json:"peak_hour"`
	IsNightOwl              bool        `json:"is_night_owl"`
	TotalChanges            int         `json:"total_changes"`
	AverageChangesPerCommit float64     `json:"average_changes_per_commit"`
	ContributionPeriod      int64       `json:"contribution_period"` // Milliseconds
}

// CollaborationPair counts files shared by two authors.
type CollaborationPair struct {
	Key         string `json:"key"` // "A & B" with names sorted
	AuthorA     string `json:"author_a"`
	AuthorB     string `json:"author_b"`
	SharedFiles int    `json:"shared_files"`
}

// SharedFile is a file touched by more than one author.
type SharedFile struct {
	Filename    string   `json:"filename"`
	Authors     []string `json:"authors"`
	AuthorCount int      `json:"author_count"`
}

// Collaboration is the collaboration graph of a commit set.
type Collaboration struct {
	Pairs            []CollaborationPair `json:"pairs"`
	SharedFiles      []SharedFile        `json:"shared_files"`
	TotalSharedFiles int                 `json:"total_shared_files"`
}
