// Package timing profiles when commits are made.
package timing

import (
	"sort"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// Work hours are [workStart, workEnd) on weekdays.
const (
	workStart = 9
	workEnd   = 18
)

// IsLateNight reports whether an hour falls in 22:00-05:59.
func IsLateNight(hour int) bool {
	return hour >= 22 || hour < 6
}

// IsWeekend reports whether a day is Saturday or Sunday.
func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// Analyze buckets commits by hour, weekday and month in each commit's local time.
func Analyze(commits []schema.Commit) schema.TimingAnalysis {
	var out schema.TimingAnalysis
	months := make(map[string]int)
	dates := make(map[string]int)
	wlb := &out.WorkLifeBalance

	for _, c := range commits {
		t := c.Time()
		hour, day := t.Hour(), t.Weekday()
		out.HourlyActivity[hour]++
		out.WeeklyActivity[day]++
		months[t.Format("2006-01")]++
		dates[t.Format(time.DateOnly)]++

		if IsWeekend(day) {
			wlb.WeekendCommits++
		}
		if IsLateNight(hour) {
			wlb.LateNightCommits++
		}
		if !IsWeekend(day) && hour >= workStart && hour < workEnd {
			wlb.WorkHoursCommits++
		} else {
			wlb.AfterHoursCommits++
		}
	}
	wlb.WeekendPercentage = algo.RoundTo(algo.Percent(wlb.WeekendCommits, len(commits)), 1)
	wlb.LateNightPercentage = algo.RoundTo(algo.Percent(wlb.LateNightCommits, len(commits)), 1)
	wlb.Ratio = algo.RoundTo(algo.Ratio(float64(wlb.WorkHoursCommits), float64(len(commits))), 2)

	out.MostProductiveHour = argmax(out.HourlyActivity[:])
	out.MostProductiveDay = argmax(out.WeeklyActivity[:])

	out.MonthlyActivity = make([]schema.MonthCount, 0, len(months))
	for m, n := range months {
		out.MonthlyActivity = append(out.MonthlyActivity, schema.MonthCount{Month: m, Commits: n})
	}
	sort.Slice(out.MonthlyActivity, func(i, j int) bool {
		return out.MonthlyActivity[i].Month < out.MonthlyActivity[j].Month
	})

	out.DailyActivity = make([]schema.DayCount, 0, len(dates))
	for d, n := range dates {
		out.DailyActivity = append(out.DailyActivity, schema.DayCount{Date: d, Commits: n})
	}
	sort.Slice(out.DailyActivity, func(i, j int) bool {
		return out.DailyActivity[i].Date < out.DailyActivity[j].Date
	})
	// The latest date wins a tie.
	best := 0
	for _, d := range out.DailyActivity {
		if d.Commits >= best {
			out.MostActiveDay, best = d.Date, d.Commits
		}
	}

	out.Velocity = Velocity(commits)
	return out
}

// Velocity measures the hours between consecutive commits in time order,
// the average change size and the number of distinct commit dates.
func Velocity(commits []schema.Commit) schema.CommitVelocity {
	var out schema.CommitVelocity
	changes := 0
	dates := make(map[string]struct{})
	for _, c := range commits {
		changes += c.Insertions + c.Deletions
		dates[c.Time().Format(time.DateOnly)] = struct{}{}
	}
	out.AverageChangesPerCommit = algo.RoundTo(algo.Ratio(float64(changes), float64(len(commits))), 2)
	out.TotalCommitDays = len(dates)

	sorted := algo.SortByTimestamp(commits)
	if len(sorted) < 2 {
		return out
	}
	intervals := make([]float64, 0, len(sorted)-1)
	longest := 0.0
	for i := 1; i < len(sorted); i++ {
		h := algo.Hours(sorted[i].Timestamp - sorted[i-1].Timestamp)
		intervals = append(intervals, h)
		longest = max(longest, h)
	}
	out.Intervals = len(intervals)
	out.AverageInterval = algo.RoundTo(algo.Mean(intervals), 2)
	out.MedianInterval = algo.RoundTo(algo.Median(intervals), 2)
	out.MaxInterval = algo.RoundTo(longest, 2)
	return out
}

// argmax returns the first index holding the largest value.
func argmax(values []int) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
