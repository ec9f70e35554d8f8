package timing

import (
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
)

func at(t time.Time) schema.Commit {
	_, offset := t.Zone()
	return schema.Commit{Hash: "h", Author: "a", Timestamp: t.UnixMilli(), TZOffset: offset}
}

func TestAnalyze(t *testing.T) {
	tokyo := time.FixedZone("", 9*3600)
	commits := []schema.Commit{
		at(time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)),  // Monday work hours
		at(time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)), // Monday work hours
		at(time.Date(2024, 1, 13, 23, 0, 0, 0, time.UTC)), // Saturday late night
		at(time.Date(2024, 2, 1, 2, 0, 0, 0, tokyo)),      // Thursday late night, local time
	}

	out := Analyze(commits)

	assert.Equal(t, 2, out.HourlyActivity[10])
	assert.Equal(t, 1, out.HourlyActivity[2], "hour uses the commit's own offset")
	assert.Equal(t, 10, out.MostProductiveHour)
	assert.Equal(t, int(time.Monday), out.MostProductiveDay)
	assert.Equal(t, []schema.MonthCount{{Month: "2024-01", Commits: 3}, {Month: "2024-02", Commits: 1}}, out.MonthlyActivity)
	assert.Equal(t, []schema.DayCount{
		{Date: "2024-01-08", Commits: 2},
		{Date: "2024-01-13", Commits: 1},
		{Date: "2024-02-01", Commits: 1},
	}, out.DailyActivity)
	assert.Equal(t, "2024-01-08", out.MostActiveDay)

	wlb := out.WorkLifeBalance
	assert.Equal(t, 1, wlb.WeekendCommits)
	assert.Equal(t, 2, wlb.LateNightCommits)
	assert.Equal(t, 2, wlb.WorkHoursCommits)
	assert.Equal(t, 2, wlb.AfterHoursCommits)
	assert.Equal(t, 25.0, wlb.WeekendPercentage)
	assert.Equal(t, 50.0, wlb.LateNightPercentage)
	assert.Equal(t, 0.5, wlb.Ratio)
	assert.Equal(t, 3, out.Velocity.TotalCommitDays)
}

func TestAnalyze_MostActiveDayTie(t *testing.T) {
	commits := []schema.Commit{
		at(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)),
		at(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, "2024-03-02", Analyze(commits).MostActiveDay)
}

func TestAnalyze_Empty(t *testing.T) {
	out := Analyze(nil)
	assert.Zero(t, out.MostProductiveHour)
	assert.Zero(t, out.WorkLifeBalance.WeekendPercentage)
	assert.Empty(t, out.MonthlyActivity)
	assert.Empty(t, out.DailyActivity)
	assert.Empty(t, out.MostActiveDay)
	assert.Zero(t, out.WorkLifeBalance.Ratio)
	assert.Zero(t, out.Velocity.Intervals)
}

func TestVelocity(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []schema.Commit{
		at(base.Add(7 * time.Hour)),
		at(base),
		at(base.Add(time.Hour)),
		at(base.Add(3 * time.Hour)),
	}

	v := Velocity(commits)
	assert.Equal(t, 3, v.Intervals)
	assert.InDelta(t, 2.33, v.AverageInterval, 0.001)
	assert.Equal(t, 2.0, v.MedianInterval)
	assert.Equal(t, 4.0, v.MaxInterval)
	assert.Equal(t, 1, v.TotalCommitDays)
	assert.Zero(t, v.AverageChangesPerCommit)

	assert.Equal(t, schema.CommitVelocity{TotalCommitDays: 1}, Velocity(commits[:1]))

	sized := []schema.Commit{at(base), at(base.Add(48 * time.Hour))}
	sized[0].Insertions, sized[0].Deletions = 10, 2
	sized[1].Insertions = 3
	v = Velocity(sized)
	assert.Equal(t, 7.5, v.AverageChangesPerCommit)
	assert.Equal(t, 2, v.TotalCommitDays)
	assert.Equal(t, schema.CommitVelocity{}, Velocity(nil))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsLateNight(23))
	assert.True(t, IsLateNight(0))
	assert.True(t, IsLateNight(5))
	assert.False(t, IsLateNight(6))
	assert.False(t, IsLateNight(21))
	assert.True(t, IsWeekend(time.Sunday))
	assert.False(t, IsWeekend(time.Friday))
}
