package schema

// WorkSession is a contiguous run of commits with no gap above the configured threshold.
type WorkSession struct {
	ID             int       `json:"id"`
	Author         string    `json:"author"`
	StartTime      int64     `json:"start_time"`
	EndTime        int64     `json:"end_time"`
	Commits        []Commit  `json:"commits"`
	Insertions     int       `json:"insertions"`
	Deletions      int       `json:"deletions"`
	FilesModified  []string  `json:"files_modified"`
	Duration       int64     `json:"duration"` // Milliseconds
	EstimatedHours float64   `json:"estimated_hours"`
	Productivity   float64   `json:"productivity"` // Changed lines per commit
	TimeOfDay      TimeOfDay `json:"time_of_day"`
	DayOfWeek      int       `json:"day_of_week"` // 0 is Sunday
	IsWeekend      bool      `json:"is_weekend"`
}

// SessionSummary aggregates a list of sessions.
type SessionSummary struct {
	TotalSessions           int               `json:"total_sessions"`
	TotalEstimatedHours     float64           `json:"total_estimated_hours"`
	AverageSessionHours     float64           `json:"average_session_hours"`
	TimeOfDayBreakdown      map[TimeOfDay]int `json:"time_of_day_breakdown"`
	DayOfWeekBreakdown      [7]int            `json:"day_of_week_breakdown"`
	WeekendSessions         int               `json:"weekend_sessions"`
	WeekdaySessions         int               `json:"weekday_sessions"`
	MostProductiveTimeOfDay TimeOfDay         `json:"most_productive_time_of_day"`
	LongestSession          *WorkSession      `json:"longest_session"`
}
