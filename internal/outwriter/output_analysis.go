package outwriter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WriteStats prints the commit summary and project metrics.
func WriteStats(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(statsView(result, cfg, duration), cfg)
}

// WriteSessions prints the longest work sessions and the session summary.
func WriteSessions(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(sessionsView(result, cfg, duration), cfg)
}

// WriteContributors prints the contributor profiles, busiest first.
func WriteContributors(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(contributorsView(result, cfg, duration), cfg)
}

// WriteCollaboration prints author pairs and the files they share.
func WriteCollaboration(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(collaborationView(result, cfg, duration), cfg)
}

// WriteEvolution prints hotspots, the phase timeline and the extension histogram.
func WriteEvolution(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(evolutionView(result, cfg, duration), cfg)
}

// WriteTiming prints when commits happen.
func WriteTiming(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(timingView(result, cfg, duration), cfg)
}

func statsView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)
	s, pm := result.Summary, result.ProjectMetrics

	first, last := "-", "-"
	if s.DateRange != nil {
		first, last = formatDate(s.DateRange.Start), formatDate(s.DateRange.End)
	}
	rows := [][]string{
		{"total_commits", fmtInt(s.TotalCommits)},
		{"total_files", fmtInt(s.TotalFiles)},
		{"total_contributors", fmtInt(s.TotalContributors)},
		{"total_insertions", fmtInt(s.TotalInsertions)},
		{"total_deletions", fmtInt(s.TotalDeletions)},
		{"net_lines", fmtInt(pm.NetLines)},
		{"first_commit", first},
		{"last_commit", last},
		{"project_age_days", fmtFloat(pm.ProjectAgeDays)},
		{"average_commits_per_day", fmtFloat(pm.AverageCommitsPerDay)},
		{"average_commit_size", fmtFloat(pm.AverageCommitSize)},
		{"average_files_per_commit", fmtFloat(pm.AverageFilesPerCommit)},
		{"total_estimated_hours", fmtFloat(pm.TotalEstimatedHours)},
		{"hours_per_week", fmtFloat(pm.HoursPerWeek)},
		{"average_commits_per_session", fmtFloat(pm.AverageCommitsPerSession)},
		{"dropped_commits", fmtInt(result.Dropped)},
	}

	var notes []string
	for _, w := range result.Warnings {
		notes = append(notes, fmt.Sprintf("line %d: %s", w.Line, w.Reason))
	}

	return view{
		kind: "stats",
		json: struct {
			AsOf           time.Time             `json:"as_of"`
			Summary        schema.CommitSummary  `json:"summary"`
			ProjectMetrics schema.ProjectMetrics `json:"project_metrics"`
			Dropped        int                   `json:"dropped"`
			Warnings       []schema.ParseWarning `json:"warnings"`
		}{result.AsOf, s, pm, result.Dropped, result.Warnings},
		sections: []section{{
			title:  "Commit Summary",
			header: []string{"metric", "value"},
			rows:   rows,
			notes:  notes,
		}},
		footer: footerLine(cfg, duration),
	}
}

func sessionsView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)
	sum := result.SessionSummary

	top := algo.TopN(result.Sessions, limit(len(result.Sessions), cfg), func(s schema.WorkSession) float64 {
		return s.EstimatedHours
	})
	rows := make([][]string, 0, len(top))
	for _, s := range top {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			s.Author,
			formatDate(s.StartTime),
			fmtFloat(s.EstimatedHours),
			fmtInt(len(s.Commits)),
			fmtInt(len(s.FilesModified)),
			fmtInt(s.Insertions + s.Deletions),
			string(s.TimeOfDay),
		})
	}

	summaryRows := [][]string{
		{"total_sessions", fmtInt(sum.TotalSessions)},
		{"total_estimated_hours", fmtFloat(sum.TotalEstimatedHours)},
		{"average_session_hours", fmtFloat(sum.AverageSessionHours)},
		{"weekday_sessions", fmtInt(sum.WeekdaySessions)},
		{"weekend_sessions", fmtInt(sum.WeekendSessions)},
		{"most_productive_time_of_day", string(sum.MostProductiveTimeOfDay)},
	}
	for _, tod := range schema.AllTimesOfDay {
		summaryRows = append(summaryRows, []string{"sessions_" + string(tod), fmtInt(sum.TimeOfDayBreakdown[tod])})
	}

	return view{
		kind: "sessions",
		json: struct {
			Summary  schema.SessionSummary `json:"summary"`
			Sessions []schema.WorkSession  `json:"sessions"`
		}{sum, top},
		sections: []section{
			{
				title:  "Longest Work Sessions",
				header: []string{"id", "author", "start", "hours", "commits", "files", "lines", "time_of_day"},
				rows:   rows,
			},
			{
				title:  "Session Summary",
				header: []string{"metric", "value"},
				rows:   summaryRows,
			},
		},
		footer: footerLine(cfg, duration),
	}
}

func contributorsView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	top := algo.TopN(result.Contributors, limit(len(result.Contributors), cfg), func(p schema.ContributorProfile) float64 {
		return float64(p.TotalCommits)
	})
	rows := make([][]string, 0, len(top))
	for i, p := range top {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			fmtInt(p.TotalCommits),
			fmtInt(p.TotalInsertions),
			fmtInt(p.TotalDeletions),
			fmtInt(p.FilesModified),
			fmtInt(p.ActiveDays),
			fmtFloat(p.AverageCommitsPerDay),
			fmt.Sprintf("%02d:00", p.PeakHour),
			strconv.FormatBool(p.IsNightOwl),
		})
	}

	return view{
		kind: "contributors",
		json: top,
		sections: []section{{
			title:  "Contributors",
			header: []string{"rank", "name", "commits", "insertions", "deletions", "files", "active_days", "commits_per_day", "peak_hour", "night_owl"},
			rows:   rows,
			notes:  []string{fmt.Sprintf("Showing %d of %d contributors", len(top), len(result.Contributors))},
		}},
		footer: footerLine(cfg, duration),
	}
}

func collaborationView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	_, fmtInt := createFormatters(cfg.Precision)
	collab := result.Collaboration

	pairs := collab.Pairs[:limit(len(collab.Pairs), cfg)]
	pairRows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		pairRows = append(pairRows, []string{p.AuthorA, p.AuthorB, fmtInt(p.SharedFiles)})
	}

	shared := algo.TopN(collab.SharedFiles, limit(len(collab.SharedFiles), cfg), func(f schema.SharedFile) float64 {
		return float64(f.AuthorCount)
	})
	width := GetMaxTablePathWidth(cfg)
	fileRows := make([][]string, 0, len(shared))
	for _, f := range shared {
		fileRows = append(fileRows, []string{
			contract.TruncatePath(f.Filename, width),
			fmtInt(f.AuthorCount),
			strings.Join(f.Authors, ", "),
		})
	}

	return view{
		kind: "collaboration",
		json: schema.Collaboration{Pairs: pairs, SharedFiles: shared, TotalSharedFiles: collab.TotalSharedFiles},
		sections: []section{
			{
				title:  "Collaboration Pairs",
				header: []string{"author_a", "author_b", "shared_files"},
				rows:   pairRows,
			},
			{
				title:  "Shared Files",
				header: []string{"file", "authors", "names"},
				rows:   fileRows,
				notes:  []string{fmt.Sprintf("Total shared files: %d", collab.TotalSharedFiles)},
			},
		},
		footer: footerLine(cfg, duration),
	}
}

func evolutionView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)
	evo := result.Evolution

	hotspots := evo.Hotspots[:limit(len(evo.Hotspots), cfg)]
	width := GetMaxTablePathWidth(cfg)
	hotRows := make([][]string, 0, len(hotspots))
	for i, f := range hotspots {
		hotRows = append(hotRows, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Filename, width),
			fmtInt(f.TotalModifications),
			fmtInt(f.Authors),
			fmtFloat(algo.Days(f.Lifespan)),
		})
	}

	timelineRows := make([][]string, 0, len(evo.Timeline))
	for _, p := range evo.Timeline {
		timelineRows = append(timelineRows, []string{
			fmtInt(p.Phase),
			formatDate(p.Date),
			fmtInt(p.CommitCount),
			fmtInt(p.FileCount),
			fmtInt(p.NetLines),
			p.DominantAuthor,
		})
	}

	extRows := make([][]string, 0, len(evo.FileExtensions))
	for _, e := range evo.FileExtensions {
		extRows = append(extRows, []string{e.Extension, fmtInt(e.Files)})
	}

	return view{
		kind: "evolution",
		json: struct {
			TotalFilesEverTouched int                       `json:"total_files_ever_touched"`
			ProjectAgeDays        float64                   `json:"project_age_days"`
			Hotspots              []schema.FileHistoryEntry `json:"hotspots"`
			Timeline              []schema.PhasePoint       `json:"timeline"`
			FileExtensions        []schema.ExtensionCount   `json:"file_extensions"`
		}{evo.TotalFilesEverTouched, algo.Days(evo.ProjectAge), hotspots, evo.Timeline, evo.FileExtensions},
		sections: []section{
			{
				title:  "Hotspots",
				header: []string{"rank", "file", "modifications", "authors", "lifespan_days"},
				rows:   hotRows,
				notes: []string{fmt.Sprintf("%d files touched over %s days",
					evo.TotalFilesEverTouched, fmtFloat(algo.Days(evo.ProjectAge)))},
			},
			{
				title:  "Timeline",
				header: []string{"phase", "date", "commits", "files", "net_lines", "dominant_author"},
				rows:   timelineRows,
			},
			{
				title:  "File Extensions",
				header: []string{"extension", "files"},
				rows:   extRows,
			},
		},
		footer: footerLine(cfg, duration),
	}
}

func timingView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)
	t := result.Timing

	hourRows := make([][]string, 0, len(t.HourlyActivity))
	for hour, n := range t.HourlyActivity {
		hourRows = append(hourRows, []string{fmt.Sprintf("%02d:00", hour), fmtInt(n)})
	}
	dayRows := make([][]string, 0, len(t.WeeklyActivity))
	for day, n := range t.WeeklyActivity {
		dayRows = append(dayRows, []string{weekdays[day], fmtInt(n)})
	}
	monthRows := make([][]string, 0, len(t.MonthlyActivity))
	for _, m := range t.MonthlyActivity {
		monthRows = append(monthRows, []string{m.Month, fmtInt(m.Commits)})
	}

	wlb, vel := t.WorkLifeBalance, t.Velocity
	balanceRows := [][]string{
		{"work_hours_commits", fmtInt(wlb.WorkHoursCommits)},
		{"after_hours_commits", fmtInt(wlb.AfterHoursCommits)},
		{"weekend_commits", fmtInt(wlb.WeekendCommits)},
		{"late_night_commits", fmtInt(wlb.LateNightCommits)},
		{"weekend_percentage", fmtFloat(wlb.WeekendPercentage)},
		{"late_night_percentage", fmtFloat(wlb.LateNightPercentage)},
		{"work_life_ratio", fmtFloat(wlb.Ratio)},
		{"most_active_day", t.MostActiveDay},
		{"total_commit_days", fmtInt(vel.TotalCommitDays)},
		{"average_changes_per_commit", fmtFloat(vel.AverageChangesPerCommit)},
		{"intervals", fmtInt(vel.Intervals)},
		{"average_interval_hours", fmtFloat(vel.AverageInterval)},
		{"median_interval_hours", fmtFloat(vel.MedianInterval)},
		{"max_interval_hours", fmtFloat(vel.MaxInterval)},
	}

	return view{
		kind: "timing",
		json: t,
		sections: []section{
			{
				title:  "Hourly Activity",
				header: []string{"hour", "commits"},
				rows:   hourRows,
				notes:  []string{fmt.Sprintf("Most productive hour: %02d:00", t.MostProductiveHour)},
			},
			{
				title:  "Weekly Activity",
				header: []string{"day", "commits"},
				rows:   dayRows,
				notes:  []string{"Most productive day: " + weekdays[t.MostProductiveDay]},
			},
			{
				title:  "Monthly Activity",
				header: []string{"month", "commits"},
				rows:   monthRows,
			},
			{
				title:  "Work-Life Balance and Velocity",
				header: []string{"metric", "value"},
				rows:   balanceRows,
			},
		},
		footer: footerLine(cfg, duration),
	}
}
