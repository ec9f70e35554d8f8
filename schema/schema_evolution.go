package schema

// FileHistoryEntry is the lifetime record of one filename.
type FileHistoryEntry struct {
	Filename           string   `json:"filename"`
	FirstModified      int64    `json:"first_modified"`
	LastModified       int64    `json:"last_modified"`
	TotalModifications int      `json:"total_modifications"`
	TotalInsertions    int      `json:"total_insertions"`
	TotalDeletions     int      `json:"total_deletions"`
	Authors            int      `json:"authors"`
	AuthorNames        []string `json:"author_names"`
	Lifespan           int64    `json:"lifespan"` // Milliseconds
}

// GrowthPoint is the running state of the codebase after one commit.
type GrowthPoint struct {
	Date           int64  `json:"date"`
	Hash           string `json:"hash"`
	Author         string `json:"author"`
	TotalFiles     int    `json:"total_files"`
	TotalLines     int    `json:"total_lines"`
	CumulativeAdds int    `json:"cumulative_adds"`
	CumulativeDels int    `json:"cumulative_dels"`
}

// PhasePoint samples the project at one of roughly twenty phase boundaries.
type PhasePoint struct {
	Phase          int    `json:"phase"`
	Date           int64  `json:"date"`
	CommitCount    int    `json:"commit_count"`
	FileCount      int    `json:"file_count"`
	NetLines       int    `json:"net_lines"`
	DominantAuthor string `json:"dominant_author"`
}

// ExtensionCount is one bucket of the file-extension histogram.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Files     int    `json:"files"`
}

// Evolution is the replayed history of a project.
type Evolution struct {
	FileHistory           []FileHistoryEntry `json:"file_history"`
	CodebaseGrowth        []GrowthPoint      `json:"codebase_growth"`
	Timeline              []PhasePoint       `json:"timeline"`
	Hotspots              []FileHistoryEntry `json:"hotspots"`
	FileExtensions        []ExtensionCount   `json:"file_extensions"`
	TotalFilesEverTouched int                `json:"total_files_ever_touched"`
	ProjectAge            int64              `json:"project_age"` // Milliseconds
}

// ProjectMetrics are headline numbers for a project.
type ProjectMetrics struct {
	TotalCommits          int     `json:"total_commits"`
	TotalContributors     int     `json:"total_contributors"`
	TotalFiles            int     `json:"total_files"`
	TotalInsertions       int     `json:"total_insertions"`
	TotalDeletions        int     `json:"total_deletions"`
	NetLines              int     `json:"net_lines"`
	ProjectAgeDays        float64 `json:"project_age_days"`
	AverageCommitsPerDay  float64 `json:"average_commits_per_day"`
	AverageCommitSize     float64 `json:"average_commit_size"`
	AverageFilesPerCommit float64 `json:"average_files_per_commit"`

	TotalEstimatedHours      float64 `json:"total_estimated_hours"`
	HoursPerWeek             float64 `json:"hours_per_week"`
	AverageCommitsPerSession float64 `json:"average_commits_per_session"`
}
