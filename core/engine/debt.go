package engine

import (
	"fmt"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/schema"
)

// Debt thresholds.
const (
	churnFileLimit          = 10
	violationFileLimit      = 10
	violationAuthors        = 3
	violationModifications  = 10
	violationDepth          = 4
	concentrationAlarm      = 60
	highChurnAlarm          = 5
	refactoringFloor        = 15
	violationAlarm          = 25
	hotspotConcentrationPct = 0.1
)

// ScoreDebt estimates accumulated technical debt. Unlike the other engines
// a higher composite is worse.
func ScoreDebt(in Input, opts Options) schema.DebtReport {
	files := in.Evolution.FileHistory
	report := schema.DebtReport{
		Hotspots:     hotspotConcentration(in.Evolution),
		Churn:        churnAnalysis(files),
		Patterns:     commitPatterns(in.Commits, opts.classifier()),
		Architecture: architectureViolations(files),
	}
	report.ScoreReport = newReport(schema.DebtEngine, opts, map[schema.SubScoreKey]float64{
		schema.SubHotspot:      1.5 * report.Hotspots.ConcentrationRatio,
		schema.SubChurn:        10 * report.Churn.AverageChurnRate,
		schema.SubRefactoring:  100 - 5*report.Patterns.RefactorRatio,
		schema.SubArchitecture: 2 * report.Architecture.ViolationScore,
	})

	hs, ch, pt, ar := report.Hotspots, report.Churn, report.Patterns, report.Architecture
	report.Recommendations = recommend(
		rule{hs.ConcentrationRatio > concentrationAlarm, schema.Recommendation{
			Category:    "Architecture",
			Severity:    schema.SeverityHigh,
			Title:       "Critical Hotspot Concentration",
			Description: fmt.Sprintf("%.1f%% of changes concentrated in %d files.", hs.ConcentrationRatio, hs.TopFileCount),
			Action:      "Break down large files and distribute responsibilities across smaller modules.",
		}},
		rule{ch.HighChurnFiles > highChurnAlarm, schema.Recommendation{
			Category:    "Code Quality",
			Severity:    schema.SeverityMedium,
			Title:       "High Code Churn Detected",
			Description: fmt.Sprintf("%d files show excessive change frequency, indicating design instability.", ch.HighChurnFiles),
			Action:      "Review requirements clarity and consider more stable abstractions.",
		}},
		rule{pt.Total > 0 && pt.RefactorRatio < refactoringFloor, schema.Recommendation{
			Category:    "Process",
			Severity:    schema.SeverityMedium,
			Title:       "Low Refactoring Activity",
			Description: fmt.Sprintf("Only %.1f%% of commits are refactoring.", pt.RefactorRatio),
			Action:      "Allocate regular time for refactoring to keep debt from accumulating.",
		}},
		rule{ar.ViolationScore > violationAlarm, schema.Recommendation{
			Category:    "Architecture",
			Severity:    schema.SeverityHigh,
			Title:       "Architecture Boundary Violations",
			Description: fmt.Sprintf("%.1f%% of changes touch deep files shared by many authors.", ar.ViolationScore),
			Action:      "Establish clearer module boundaries and ownership.",
		}},
	)
	return report
}

// hotspotConcentration measures how much of the hotspots' modifications land
// in the busiest tenth of all files, with at least one file. The denominator
// is the hotspot list, not the whole file history.
func hotspotConcentration(evo schema.Evolution) schema.HotspotConcentration {
	out := schema.HotspotConcentration{TotalFiles: len(evo.FileHistory), TopFiles: []string{}}
	if len(evo.FileHistory) == 0 {
		return out
	}
	out.TopFileCount = max(1, int(float64(len(evo.FileHistory))*hotspotConcentrationPct))
	top := evo.Hotspots[:min(out.TopFileCount, len(evo.Hotspots))]
	for i, f := range evo.Hotspots {
		out.TotalChanges += f.TotalModifications
		if i < len(top) {
			out.TopFileChanges += f.TotalModifications
		}
	}
	out.ConcentrationRatio = algo.RoundTo(algo.Percent(out.TopFileChanges, out.TotalChanges), 1)
	out.TopFiles = filenames(top)
	return out
}

// churnAnalysis rates files by modifications per day between their first
// and last change. A file changed at a single instant has rate 0.
func churnAnalysis(files []schema.FileHistoryEntry) schema.ChurnAnalysis {
	churn := make([]schema.ChurnFile, 0, len(files))
	rates := make([]float64, 0, len(files))
	for _, f := range files {
		days := algo.Days(f.Lifespan)
		rate := algo.Ratio(float64(f.TotalModifications), days)
		rates = append(rates, rate)
		churn = append(churn, schema.ChurnFile{
			Filename:      f.Filename,
			ChurnRate:     algo.RoundTo(rate, 2),
			Modifications: f.TotalModifications,
			LifespanDays:  algo.RoundTo(days, 1),
		})
	}
	avg := algo.Mean(rates)

	var high []schema.ChurnFile
	for i, c := range churn {
		if rates[i] > 2*avg {
			high = append(high, c)
		}
	}
	return schema.ChurnAnalysis{
		AverageChurnRate: algo.RoundTo(avg, 2),
		HighChurnFiles:   len(high),
		TopChurnFiles: append([]schema.ChurnFile{}, algo.TopN(high, churnFileLimit, func(c schema.ChurnFile) float64 {
			return c.ChurnRate
		})...),
	}
}

// commitPatterns buckets every commit by its first matching kind.
func commitPatterns(commits []schema.Commit, c *classify.Classifier) schema.CommitPatterns {
	out := schema.CommitPatterns{Total: len(commits)}
	for _, commit := range commits {
		switch c.Kind(commit.Message) {
		case classify.Feature:
			out.Feature++
		case classify.Refactor:
			out.Refactor++
		case classify.Bugfix:
			out.Bugfix++
		default:
			out.Other++
		}
	}
	out.FeatureRatio = algo.RoundTo(algo.Percent(out.Feature, out.Total), 1)
	out.RefactorRatio = algo.RoundTo(algo.Percent(out.Refactor, out.Total), 1)
	out.BugfixRatio = algo.RoundTo(algo.Percent(out.Bugfix, out.Total), 1)
	return out
}

// architectureViolations counts modifications to deep files that many
// authors keep changing.
func architectureViolations(files []schema.FileHistoryEntry) schema.ArchitectureAnalysis {
	out := schema.ArchitectureAnalysis{
		ViolatingFiles:     []string{},
		ModuleDistribution: moduleStats(files),
	}
	var violating []schema.FileHistoryEntry
	for _, f := range files {
		out.TotalModifications += f.TotalModifications
		if f.Authors > violationAuthors &&
			f.TotalModifications > violationModifications &&
			algo.PathDepth(f.Filename) > violationDepth {
			out.Violations += f.TotalModifications
			violating = append(violating, f)
		}
	}
	out.ViolationScore = algo.RoundTo(algo.Percent(out.Violations, out.TotalModifications), 1)
	out.ViolatingFiles = append(out.ViolatingFiles, filenames(algo.RankHotspots(violating, violationFileLimit))...)
	return out
}
