package engine

import (
	"fmt"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/schema"
)

// Transition thresholds.
const (
	couplingWindowLimit     = 12
	perfHotspotMods         = 3
	perfHotspotLimit        = 10
	perfTrendTolerance      = 0.5
	flagCommitAlarm         = 20
	recentFlagCommits       = 5
	cleanupFlagCommits      = 3
	infraDriftMods          = 3
	couplingAlarm           = 70
	performanceAlarm        = 60
	flagAlarm               = 50
	transitionStrategyFloor = 50
)

// Transition phases.
const (
	PhaseEarlyMVP         = "early-mvp"
	PhaseMVPStabilization = "mvp-stabilization"
	PhasePreScale         = "pre-scale-preparation"
	PhaseScaleReady       = "scale-ready"
	PhaseScaleOptimized   = "scale-optimized"
)

// ScoreTransition rates how far a project has moved from an MVP towards a
// codebase that can scale.
func ScoreTransition(in Input, opts Options) schema.TransitionReport {
	sorted := algo.SortByTimestamp(in.Commits)
	c := opts.classifier()
	report := schema.TransitionReport{
		Coupling:       couplingEvolution(sorted, in.Evolution.FileHistory),
		Performance:    performanceDebt(sorted, in.Evolution.FileHistory, c),
		FeatureFlags:   featureFlagDebt(sorted, c),
		Infrastructure: infrastructureDrift(sorted, in.Evolution.FileHistory, c),
		Maturity:       mvpMaturity(sorted, in.Contributors, in.Evolution, c),
	}
	report.ScoreReport = newReport(schema.TransitionEngine, opts, map[schema.SubScoreKey]float64{
		schema.SubCoupling:       100 - report.Coupling.CouplingScore,
		schema.SubPerformance:    100 - report.Performance.DebtScore,
		schema.SubFeatureFlags:   100 - report.FeatureFlags.DebtScore,
		schema.SubInfrastructure: 100 - report.Infrastructure.DriftScore,
		schema.SubMaturity:       report.Maturity.MaturityScore,
	})
	report.Phase = transitionPhase(report.Composite, report.Maturity.MaturityScore)

	co, pf, ff := report.Coupling, report.Performance, report.FeatureFlags
	report.Recommendations = recommend(
		rule{co.CouplingScore > couplingAlarm, schema.Recommendation{
			Category:    "Architecture",
			Severity:    schema.SeverityHigh,
			Title:       "High Component Coupling",
			Description: fmt.Sprintf("Files change together at a ratio of %.2f pairs per file.", co.RecentAverage),
			Action:      "Introduce clearer interfaces between components before scaling the team.",
		}},
		rule{pf.DebtScore > performanceAlarm, schema.Recommendation{
			Category:    "Performance",
			Severity:    schema.SeverityMedium,
			Title:       "Performance Debt Accumulation",
			Description: fmt.Sprintf("%.1f%% of commits address performance.", pf.PerformanceRatio),
			Action:      "Invest in profiling and performance budgets before load grows.",
		}},
		rule{ff.DebtScore > flagAlarm, schema.Recommendation{
			Category:    "Code Quality",
			Severity:    schema.SeverityMedium,
			Title:       "Feature Flag Technical Debt",
			Description: fmt.Sprintf("%d flags introduced, %d removed.", ff.Introductions, ff.Removals),
			Action:      "Schedule cleanup of stale feature flags.",
		}},
		rule{report.Composite < transitionStrategyFloor, schema.Recommendation{
			Category:    "Strategy",
			Severity:    schema.SeverityCritical,
			Title:       "Low Scale Readiness",
			Description: fmt.Sprintf("The project is in the %s phase.", report.Phase),
			Action:      "Stabilize the MVP and pay down transition debt before scaling.",
		}},
	)
	return report
}

func transitionPhase(composite, maturity float64) string {
	switch {
	case maturity < 40:
		return PhaseEarlyMVP
	case maturity < 70 && composite < 50:
		return PhaseMVPStabilization
	case composite < 60:
		return PhasePreScale
	case composite < 80:
		return PhaseScaleReady
	default:
		return PhaseScaleOptimized
	}
}

// couplingEvolution compares recent co-change density against earlier
// windows.
func couplingEvolution(sorted []schema.Commit, files []schema.FileHistoryEntry) schema.CouplingEvolution {
	windows := couplingWindows(sorted)
	ratios := couplingRatios(windows)
	recent, earlier, _ := algo.RecentVsEarlier(ratios, algo.CouplingTrendSpan)
	trend := algo.TrendDelta(ratios, algo.CouplingTrendSpan)

	out := schema.CouplingEvolution{
		Windows:             windows[max(0, len(windows)-couplingWindowLimit):],
		RecentAverage:       algo.RoundTo(recent, 3),
		EarlierAverage:      algo.RoundTo(earlier, 3),
		TrendDirection:      algo.RoundTo(trend, 3),
		CouplingScore:       algo.RoundTo(min(100, 50*recent), 1),
		ComponentBoundaries: moduleStats(files),
	}
	out.Phase = couplingPhase(out.CouplingScore, trend)
	return out
}

func couplingPhase(score, trend float64) string {
	switch {
	case score < 30 && trend < 0:
		return "decoupling"
	case score < 30:
		return "loose-coupling"
	case score < 60 && trend < 0:
		return "improving"
	case score < 60:
		return "moderate-coupling"
	default:
		return "tight-coupling"
	}
}

// matchedTags tallies the tags a category's path and message rules assign to
// each commit, once per tag per commit.
func matchedTags(commits []schema.Commit, c *classify.Classifier, category classify.Category) []schema.TagCount {
	counts := make(map[string]int)
	for _, commit := range commits {
		seen := make(map[string]struct{})
		tags := c.Tags(category, classify.MessageTarget, commit.Message)
		for _, name := range distinctFiles(commit) {
			tags = append(tags, c.Tags(category, classify.PathTarget, name)...)
		}
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}
	return tagCounts(counts)
}

func touchesPath(commit schema.Commit, c *classify.Classifier, category classify.Category) bool {
	for _, f := range commit.Files {
		if c.Is(category, classify.PathTarget, f.Filename) {
			return true
		}
	}
	return false
}

// windowCounts counts commits matching keep in every 30-day window,
// including empty ones.
func windowCounts(sorted []schema.Commit, keep func(schema.Commit) bool) []float64 {
	windows := algo.Partition(sorted, algo.CouplingWindow)
	out := make([]float64, len(windows))
	for i, w := range windows {
		for _, c := range w.Commits {
			if keep(c) {
				out[i]++
			}
		}
	}
	return out
}

func performanceDebt(sorted []schema.Commit, files []schema.FileHistoryEntry, c *classify.Classifier) schema.PerformanceDebt {
	out := schema.PerformanceDebt{HotspotFiles: []string{}}
	var hot []schema.FileHistoryEntry
	for _, f := range files {
		if !c.Is(classify.Performance, classify.PathTarget, f.Filename) {
			continue
		}
		out.PerformanceFiles++
		if f.TotalModifications > perfHotspotMods {
			hot = append(hot, f)
		}
	}
	out.HotspotFiles = append(out.HotspotFiles, filenames(algo.RankHotspots(hot, perfHotspotLimit))...)

	isPerf := func(commit schema.Commit) bool {
		return c.Is(classify.Performance, classify.MessageTarget, commit.Message) ||
			touchesPath(commit, c, classify.Performance)
	}
	var perf []schema.Commit
	for _, commit := range sorted {
		if isPerf(commit) {
			perf = append(perf, commit)
		}
	}
	out.PerformanceCommits = len(perf)
	ratio := algo.Percent(len(perf), len(sorted))
	out.PerformanceRatio = algo.RoundTo(ratio, 1)
	out.DebtScore = algo.RoundTo(min(100, 2*ratio), 1)

	counts := windowCounts(sorted, isPerf)
	out.Trend = algo.TrendLabel(algo.TrendDelta(counts, algo.CouplingTrendSpan), perfTrendTolerance)
	out.Rate = algo.RoundTo(algo.Mean(counts), 2)
	out.Patterns = matchedTags(perf, c, classify.Performance)
	return out
}

func featureFlagDebt(sorted []schema.Commit, c *classify.Classifier) schema.FeatureFlagDebt {
	isFlag := func(commit schema.Commit) bool {
		return c.Is(classify.FeatureFlag, classify.MessageTarget, commit.Message) ||
			touchesPath(commit, c, classify.FeatureFlag)
	}
	var flags []schema.Commit
	out := schema.FeatureFlagDebt{}
	for _, commit := range sorted {
		if !isFlag(commit) {
			continue
		}
		flags = append(flags, commit)
		if c.Is(classify.FlagIntroduction, classify.MessageTarget, commit.Message) {
			out.Introductions++
		}
		if c.Is(classify.FlagRemoval, classify.MessageTarget, commit.Message) {
			out.Removals++
		}
	}
	out.FlagCommits = len(flags)

	ratio := 0.0
	if out.Introductions > 0 {
		ratio = 1 - float64(out.Removals)/float64(out.Introductions)
	}
	out.DebtRatio = algo.RoundTo(max(0, ratio), 2)
	// Surplus removals offset the bonus below; only the sum is clamped.
	debt := ratio * 100
	if out.FlagCommits > flagCommitAlarm {
		debt += 20
	}
	out.DebtScore = algo.RoundTo(algo.Clamp(debt), 1)

	counts := windowCounts(sorted, isFlag)
	out.Trend = algo.TrendLabel(algo.TrendDelta(counts, algo.CouplingTrendSpan), perfTrendTolerance)
	out.RecentActivity = hashes(flags[max(0, len(flags)-recentFlagCommits):])
	out.CleanupOpportunities = hashes(flags[:min(len(flags), cleanupFlagCommits)])
	return out
}

// infrastructureDrift combines how often infrastructure changes per week with
// how many infrastructure files keep being edited.
func infrastructureDrift(sorted []schema.Commit, files []schema.FileHistoryEntry, c *classify.Classifier) schema.InfrastructureDrift {
	out := schema.InfrastructureDrift{}
	drifting := 0
	for _, f := range files {
		if !c.Is(classify.Infrastructure, classify.PathTarget, f.Filename) {
			continue
		}
		out.InfraFiles++
		if f.TotalModifications > infraDriftMods {
			drifting++
		}
	}
	var infra []schema.Commit
	for _, commit := range sorted {
		if touchesPath(commit, c, classify.Infrastructure) {
			infra = append(infra, commit)
		}
	}
	out.InfraCommits = len(infra)

	weeks := 0.0
	if len(sorted) > 0 {
		weeks = float64(sorted[len(sorted)-1].Timestamp-sorted[0].Timestamp) / float64(algo.MillisPerWeek)
	}
	perWeek := float64(out.InfraCommits) / max(1, weeks)
	configDrift := 50 * algo.Ratio(float64(drifting), float64(out.InfraFiles))
	out.ChangesPerWeek = algo.RoundTo(perWeek, 2)
	out.ConfigDrift = algo.RoundTo(configDrift, 1)
	out.DriftScore = algo.RoundTo(algo.Clamp(10*perWeek+configDrift), 1)
	out.Patterns = matchedTags(infra, c, classify.Infrastructure)
	return out
}

// mvpMaturity averages stability, team growth, pace and size indicators.
func mvpMaturity(sorted []schema.Commit, contributors []schema.ContributorProfile, evo schema.Evolution, c *classify.Classifier) schema.MVPMaturity {
	out := schema.MVPMaturity{
		CodebaseSize: len(evo.FileHistory),
		TeamSize:     len(contributors),
	}
	days := algo.Days(evo.ProjectAge)
	out.DevelopmentDays = algo.Round(days)
	for _, commit := range sorted {
		if c.Is(classify.MaturityFeature, classify.MessageTarget, commit.Message) {
			out.FeatureCommits++
		}
		if c.Is(classify.Maintenance, classify.MessageTarget, commit.Message) {
			out.MaintenanceCommits++
		}
	}
	ratio := algo.Ratio(float64(out.MaintenanceCommits), float64(out.FeatureCommits))
	out.MaintenanceRatio = algo.RoundTo(ratio, 2)

	ind := schema.MaturityIndicators{Stability: 80, TeamGrowth: 20}
	if ratio >= 0.5 {
		ind.Stability = max(0, 80-ratio*100)
	}
	if out.TeamSize > 1 {
		ind.TeamGrowth = min(100, float64(20*out.TeamSize))
	}
	ind.DevelopmentPace = algo.Clamp(100 - max(0, days-90))
	if out.CodebaseSize > 50 {
		ind.CodebaseSize = min(100, float64(out.CodebaseSize)/2)
	} else {
		ind.CodebaseSize = float64(2 * out.CodebaseSize)
	}
	out.Indicators = ind

	mean := algo.Mean([]float64{ind.Stability, ind.TeamGrowth, ind.DevelopmentPace, ind.CodebaseSize})
	out.MaturityScore = algo.Round(mean)
	out.DevelopmentPhase = developmentPhase(mean)
	out.ScalingReadiness = scalingReadiness(mean)
	return out
}

func developmentPhase(maturity float64) string {
	switch {
	case maturity < 30:
		return "prototype"
	case maturity < 60:
		return "mvp"
	case maturity < 80:
		return "product"
	default:
		return "mature-product"
	}
}

func scalingReadiness(mean float64) string {
	switch {
	case mean > 80:
		return "ready"
	case mean > 60:
		return "nearly-ready"
	case mean > 40:
		return "preparation-needed"
	default:
		return "not-ready"
	}
}
