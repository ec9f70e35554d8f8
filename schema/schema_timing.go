package schema

// MonthCount is the number of commits in one calendar month (YYYY-MM).
type MonthCount struct {
	Month   string `json:"month"`
	Commits int    `json:"commits"`
}

// DayCount is the number of commits on one calendar date (YYYY-MM-DD).
type DayCount struct {
	Date    string `json:"date"`
	Commits int    `json:"commits"`
}

// WorkLifeBalance splits commits by when they were made.
type WorkLifeBalance struct {
	WeekendCommits      int     `json:"weekend_commits"`
	LateNightCommits    int     `json:"late_night_commits"`
	WorkHoursCommits    int     `json:"work_hours_commits"`
	AfterHoursCommits   int     `json:"after_hours_commits"`
	WeekendPercentage   float64 `json:"weekend_percentage"`
	LateNightPercentage float64 `json:"late_night_percentage"`
	Ratio               float64 `json:"ratio"` // work-hours share of all commits, 0..1
}

// TimingAnalysis is the commit timing profile of a project.
type TimingAnalysis struct {
	HourlyActivity     [24]int         `json:"hourly_activity"`
	WeeklyActivity     [7]int          `json:"weekly_activity"`
	DailyActivity      []DayCount      `json:"daily_activity"`
	MonthlyActivity    []MonthCount    `json:"monthly_activity"`
	MostProductiveHour int             `json:"most_productive_hour"`
	MostProductiveDay  int             `json:"most_productive_day"`
	MostActiveDay      string          `json:"most_active_day"`
	WorkLifeBalance    WorkLifeBalance `json:"work_life_balance"`
	Velocity           CommitVelocity  `json:"velocity"`
}

// CommitVelocity describes the spacing between consecutive commits, in hours.
type CommitVelocity struct {
	Intervals       int     `json:"intervals"`
	AverageInterval float64 `json:"average_interval"`
	MedianInterval  float64 `json:"median_interval"`
	MaxInterval     float64 `json:"max_interval"`

	AverageChangesPerCommit float64 `json:"average_changes_per_commit"`
	TotalCommitDays         int     `json:"total_commit_days"`
}
