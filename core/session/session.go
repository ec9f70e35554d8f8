// Package session segments a commit stream into work sessions.
package session

import (
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// DefaultGap is the longest pause that keeps two commits in one session.
const DefaultGap = 120 * time.Minute

// minEstimatedHours is credited to sessions shorter than half an hour.
const minEstimatedHours = 0.5

// Detect sorts commits by time and starts a new session whenever the pause
// since the previous commit is strictly greater than gap. A non-positive gap
// means DefaultGap. Sessions span authors; a session's Author is the author
// of its first commit.
func Detect(commits []schema.Commit, gap time.Duration) []schema.WorkSession {
	if gap <= 0 {
		gap = DefaultGap
	}
	gapMs := gap.Milliseconds()
	sorted := algo.SortByTimestamp(commits)

	sessions := []schema.WorkSession{}
	var current *schema.WorkSession
	var seen map[string]struct{}

	for _, c := range sorted {
		if current == nil || c.Timestamp-current.EndTime > gapMs {
			if current != nil {
				sessions = append(sessions, finalize(*current))
			}
			current = &schema.WorkSession{
				ID:            len(sessions) + 1,
				Author:        c.Author,
				StartTime:     c.Timestamp,
				FilesModified: []string{},
			}
			seen = make(map[string]struct{})
		}
		current.EndTime = c.Timestamp
		current.Commits = append(current.Commits, c)
		current.Insertions += c.Insertions
		current.Deletions += c.Deletions
		for _, f := range c.Files {
			if _, ok := seen[f.Filename]; !ok {
				seen[f.Filename] = struct{}{}
				current.FilesModified = append(current.FilesModified, f.Filename)
			}
		}
	}
	if current != nil {
		sessions = append(sessions, finalize(*current))
	}
	return sessions
}

// finalize derives the duration-based fields of a closed session.
func finalize(s schema.WorkSession) schema.WorkSession {
	s.Duration = s.EndTime - s.StartTime
	s.EstimatedHours = max(minEstimatedHours, algo.Hours(s.Duration))
	s.Productivity = algo.Ratio(float64(s.Insertions+s.Deletions), float64(len(s.Commits)))

	start := s.Commits[0].Time()
	s.TimeOfDay = TimeOfDay(start.Hour())
	s.DayOfWeek = int(start.Weekday())
	s.IsWeekend = start.Weekday() == time.Saturday || start.Weekday() == time.Sunday
	return s
}

// TimeOfDay buckets an hour: morning 6-11, afternoon 12-17, evening 18-21,
// night otherwise.
func TimeOfDay(hour int) schema.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return schema.Morning
	case hour >= 12 && hour < 18:
		return schema.Afternoon
	case hour >= 18 && hour < 22:
		return schema.Evening
	default:
		return schema.Night
	}
}

// Stats summarizes sessions. The longest session and the most productive
// time of day are the first to reach the maximum.
func Stats(sessions []schema.WorkSession) schema.SessionSummary {
	summary := schema.SessionSummary{
		TotalSessions:      len(sessions),
		TimeOfDayBreakdown: make(map[schema.TimeOfDay]int, len(schema.AllTimesOfDay)),
	}
	for _, tod := range schema.AllTimesOfDay {
		summary.TimeOfDayBreakdown[tod] = 0
	}

	total := 0.0
	longest := -1
	for i, s := range sessions {
		total += s.EstimatedHours
		summary.TimeOfDayBreakdown[s.TimeOfDay]++
		summary.DayOfWeekBreakdown[s.DayOfWeek%7]++
		if s.IsWeekend {
			summary.WeekendSessions++
		}
		if longest < 0 || s.EstimatedHours > sessions[longest].EstimatedHours {
			longest = i
		}
	}
	if longest >= 0 {
		ls := sessions[longest]
		summary.LongestSession = &ls
	}
	summary.WeekdaySessions = summary.TotalSessions - summary.WeekendSessions
	summary.TotalEstimatedHours = algo.RoundTo(total, 1)
	summary.AverageSessionHours = algo.RoundTo(algo.Ratio(total, float64(len(sessions))), 1)

	// The later bucket in morning, afternoon, evening, night order wins a tie.
	if len(sessions) > 0 {
		best := 0
		for _, tod := range schema.AllTimesOfDay {
			if n := summary.TimeOfDayBreakdown[tod]; n >= best {
				best = n
				summary.MostProductiveTimeOfDay = tod
			}
		}
	}
	return summary
}
