package engine

import (
	"fmt"
	"sort"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// Scaling thresholds.
const (
	minReleaseCommits      = 10
	releaseGap             = 3 * algo.MillisPerDay
	reportedTimeSlices     = 12
	contentionLimit        = 10
	criticalModifications  = 5
	recentActivityWindow   = 30 * algo.MillisPerDay
	highRiskCriticality    = 70
	criticalPathLimit      = 15
	criticalAdviceLimit    = 3
	couplingAuthorFloor    = 2
	overheadRecommendation = 60
	riskRecommendation     = 50
	scalingStrategyFloor   = 40
)

// Release frequency health labels.
const (
	HealthUnknown    = "unknown"
	HealthExcellent  = "excellent"
	HealthGood       = "good"
	HealthModerate   = "moderate"
	HealthConcerning = "concerning"
)

// ScoreScaling rates how ready the team and codebase are to grow.
func ScoreScaling(in Input, opts Options) schema.ScalingReport {
	sorted := algo.SortByTimestamp(in.Commits)
	files := in.Evolution.FileHistory

	report := schema.ScalingReport{
		Coordination:  coordinationOverhead(files),
		Release:       releaseFrequency(sorted, in.Sessions),
		CriticalPaths: criticalPaths(files, sorted, opts.nowMillis()),
		Decomposition: decompositionProgress(files, sorted),
	}
	report.ScoreReport = newReport(schema.ScalingEngine, opts, map[schema.SubScoreKey]float64{
		schema.SubCoordination:     100 - report.Coordination.OverheadScore,
		schema.SubReleaseFrequency: report.Release.VelocityTrend,
		schema.SubCriticalPaths:    100 - report.CriticalPaths.RiskScore,
		schema.SubDecomposition:    report.Decomposition.ProgressScore,
	})

	co, rel, cp := report.Coordination, report.Release, report.CriticalPaths
	report.Recommendations = recommend(
		rule{co.OverheadScore > overheadRecommendation, schema.Recommendation{
			Category:    "Team Structure",
			Severity:    schema.SeverityHigh,
			Title:       "High Team Coordination Overhead",
			Description: fmt.Sprintf("%.1f%% of files require coordination between multiple developers.", co.SharedFileRatio),
			Action:      "Consider organizing teams around service boundaries to reduce coordination costs.",
		}},
		rule{rel.FrequencyHealth == HealthConcerning, schema.Recommendation{
			Category:    "Release Process",
			Severity:    schema.SeverityMedium,
			Title:       "Infrequent Release Cycle",
			Description: fmt.Sprintf("Average %.1f days between releases may indicate scaling friction.", rel.AverageDaysBetweenReleases),
			Action:      "Implement continuous deployment and smaller, more frequent releases.",
		}},
		rule{cp.RiskScore > riskRecommendation, schema.Recommendation{
			Category:    "Architecture",
			Severity:    schema.SeverityHigh,
			Title:       "Critical Path Dependencies",
			Description: fmt.Sprintf("%d files are blocking development velocity.", cp.HighRiskFiles),
			Action:      "Refactor high-risk files to reduce coupling and enable parallel development.",
		}},
		rule{report.Composite < scalingStrategyFloor, schema.Recommendation{
			Category:    "Strategy",
			Severity:    schema.SeverityCritical,
			Title:       "Low Scaling Readiness",
			Description: "Engineering processes are not ready for team scaling.",
			Action:      "Address coordination bottlenecks and architectural constraints before adding team members.",
		}},
	)
	return report
}

func coordinationOverhead(files []schema.FileHistoryEntry) schema.CoordinationOverhead {
	out := schema.CoordinationOverhead{TopContentionFiles: []schema.ContentionFile{}}
	var contended []schema.ContentionFile
	for _, f := range files {
		if f.Authors <= 1 {
			continue
		}
		out.SharedFiles++
		if f.Authors >= 3 {
			out.HighContentionFiles++
		}
		cost := float64(f.Authors * (f.Authors - 1) * f.TotalModifications)
		out.TotalCoordinationCost += cost
		contended = append(contended, schema.ContentionFile{
			Filename:         f.Filename,
			Authors:          f.Authors,
			Modifications:    f.TotalModifications,
			CoordinationCost: cost,
			ContentionLevel:  contentionLevel(f.Authors),
		})
	}
	out.SharedFileRatio = algo.RoundTo(algo.Percent(out.SharedFiles, len(files)), 1)
	out.HighContentionRatio = algo.RoundTo(algo.Percent(out.HighContentionFiles, len(files)), 1)
	overhead := algo.Percent(out.SharedFiles, len(files))*0.6 +
		algo.Percent(out.HighContentionFiles, len(files))*1.5 +
		min(50, out.TotalCoordinationCost/1000)
	out.OverheadScore = algo.RoundTo(min(100, overhead), 1)
	out.TopContentionFiles = append(out.TopContentionFiles, algo.TopN(contended, contentionLimit, func(f schema.ContentionFile) float64 {
		return f.CoordinationCost
	})...)
	return out
}

func contentionLevel(authors int) string {
	switch {
	case authors >= 5:
		return "very-high"
	case authors >= 3:
		return "high"
	case authors >= 2:
		return "medium"
	default:
		return "low"
	}
}

// releaseFrequency treats a pause of more than three days between sessions
// as a release and compares recent weekly commit counts against earlier ones.
func releaseFrequency(sorted []schema.Commit, sessions []schema.WorkSession) schema.ReleaseFrequency {
	out := schema.ReleaseFrequency{
		ReleasePoints: []schema.ReleasePoint{},
		TimeSlices:    []schema.TimeSlice{},
	}
	if len(sorted) < minReleaseCommits {
		out.Status = schema.InsufficientData
		out.VelocityTrend = algo.NeutralTrend
		out.FrequencyHealth = schema.InsufficientData
		return out
	}
	out.Status = "analyzed"

	ordered := sortSessions(sessions)
	for i := 1; i < len(ordered); i++ {
		gap := ordered[i].StartTime - ordered[i-1].EndTime
		if gap <= releaseGap {
			continue
		}
		point := schema.ReleasePoint{
			Sequence: len(out.ReleasePoints) + 1,
			Date:     ordered[i-1].EndTime,
			GapDays:  algo.RoundTo(algo.Days(gap), 1),
		}
		if n := len(out.ReleasePoints); n > 0 {
			point.IntervalDays = algo.RoundTo(algo.Days(point.Date-out.ReleasePoints[n-1].Date), 1)
		}
		out.ReleasePoints = append(out.ReleasePoints, point)
	}
	avg := 0.0
	if n := len(out.ReleasePoints); n > 1 {
		avg = algo.Days(out.ReleasePoints[n-1].Date-out.ReleasePoints[0].Date) / float64(n-1)
	}
	out.AverageDaysBetweenReleases = algo.RoundTo(avg, 1)

	windows := algo.Partition(sorted, algo.VelocityWindow)
	counts := make([]float64, len(windows))
	for i, w := range windows {
		counts[i] = float64(len(w.Commits))
	}
	out.VelocityTrend = algo.RoundTo(algo.VelocityTrend(counts), 1)
	for _, w := range windows[max(0, len(windows)-reportedTimeSlices):] {
		authors := make(map[string]struct{})
		for _, c := range w.Commits {
			authors[c.Author] = struct{}{}
		}
		out.TimeSlices = append(out.TimeSlices, schema.TimeSlice{
			Start:        w.Start,
			End:          w.End,
			Commits:      len(w.Commits),
			Contributors: len(authors),
		})
	}
	out.FrequencyHealth = releaseHealth(avg, out.VelocityTrend)
	return out
}

func releaseHealth(avgDays, trend float64) string {
	switch {
	case avgDays == 0:
		return HealthUnknown
	case avgDays <= 7 && trend > 60:
		return HealthExcellent
	case avgDays <= 14 && trend > 40:
		return HealthGood
	case avgDays <= 30:
		return HealthModerate
	default:
		return HealthConcerning
	}
}

// criticalPaths ranks busy files by how much they block parallel work.
func criticalPaths(files []schema.FileHistoryEntry, sorted []schema.Commit, now int64) schema.CriticalPathAnalysis {
	recent := make(map[string]int)
	for _, c := range sorted {
		if now-c.Timestamp >= recentActivityWindow {
			continue
		}
		for _, name := range distinctFiles(c) {
			recent[name]++
		}
	}

	var paths []schema.CriticalPath
	for _, f := range files {
		if f.TotalModifications <= criticalModifications {
			continue
		}
		r := recent[f.Filename]
		paths = append(paths, schema.CriticalPath{
			Filename:       f.Filename,
			Module:         algo.ModuleOf(f.Filename),
			Modifications:  f.TotalModifications,
			Authors:        f.Authors,
			RecentActivity: r,
			Criticality:    min(100, float64(2*f.TotalModifications+10*f.Authors+5*r)),
		})
	}
	ranked := algo.TopN(paths, 0, func(p schema.CriticalPath) float64 { return p.Criticality })

	out := schema.CriticalPathAnalysis{CriticalFiles: len(ranked), Paths: []schema.CriticalPath{}, Advice: []schema.FileAdvice{}}
	for _, p := range ranked {
		if p.Criticality <= highRiskCriticality {
			continue
		}
		out.HighRiskFiles++
		if len(out.Advice) < criticalAdviceLimit {
			out.Advice = append(out.Advice, schema.FileAdvice{
				Filename: p.Filename,
				Risk:     schema.SeverityHigh,
				Recommendation: fmt.Sprintf("Consider refactoring or breaking down this frequently modified file (%d modifications by %d authors).",
					p.Modifications, p.Authors),
			})
		}
	}
	out.RiskScore = algo.RoundTo(min(100, float64(out.HighRiskFiles)/float64(max(1, out.CriticalFiles))*100), 1)
	out.Paths = append(out.Paths, ranked[:min(len(ranked), criticalPathLimit)]...)
	return out
}

// decompositionProgress rewards multiple modules, small modules and falling
// coupling.
func decompositionProgress(files []schema.FileHistoryEntry, sorted []schema.Commit) schema.DecompositionProgress {
	modules := moduleStats(files)
	out := schema.DecompositionProgress{
		ModuleBoundaries: len(modules),
		Modules:          modules,
	}
	avg := algo.Ratio(float64(len(files)), float64(len(modules)))
	out.AverageFilesPerModule = algo.RoundTo(avg, 1)

	coupling := 0.0
	for _, f := range files {
		if f.Authors > couplingAuthorFloor {
			coupling += float64(2 * f.Authors)
		}
	}
	out.CouplingScore = algo.RoundTo(algo.Ratio(coupling, float64(len(files))), 1)

	trend := algo.TrendDelta(couplingRatios(couplingWindows(sorted)), algo.CouplingTrendSpan)
	out.CouplingTrend = algo.RoundTo(trend, 3)

	progress := 0.0
	if out.ModuleBoundaries > 1 {
		progress += 30
	}
	if avg < 20 {
		progress += 30
	} else {
		progress += max(0, 30-avg)
	}
	progress += 40 * algo.Clamp01(-trend)
	out.ProgressScore = algo.RoundTo(min(100, progress), 1)
	out.Health = decompositionHealth(out.ProgressScore)
	return out
}

func decompositionHealth(progress float64) string {
	switch {
	case progress >= 80:
		return HealthExcellent
	case progress >= 60:
		return HealthGood
	case progress >= 40:
		return HealthModerate
	default:
		return "needs-attention"
	}
}

func sortSessions(sessions []schema.WorkSession) []schema.WorkSession {
	out := make([]schema.WorkSession, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}
