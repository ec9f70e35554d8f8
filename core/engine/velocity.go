package engine

import (
	"fmt"
	"sort"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// Velocity thresholds.
const (
	switchPenalty         = 20
	highSwitchPenalty     = 30
	sessionSwitchLimit    = 10
	siloModifications     = 10
	maxBusFactor          = 3
	siloBusFactor         = 2
	siloFileLimit         = 15
	siloCountAlarm        = 10
	expertAuthors         = 2
	expertModifications   = 5
	expertCommitBonus     = 100
	expertLimit           = 10
	onboardingMinCommits  = 5
	productiveIndex       = 4
	productiveChanges     = 50
	productiveFiles       = 3
	fallbackProductive    = 10
	slowRampUpDays        = 60
	rampUpLimit           = 10
	fragmentedSessions    = 10
	spreadSessions        = 5
	longRampUpDays        = 45
	complexEarlyWork      = 60
	penaltyAlarm          = 60
	siloRiskAlarm         = 70
	onboardingAlarm       = 60
	velocityStrategyFloor = 50
)

// ScoreVelocity rates how freely the team can move: focus, shared knowledge
// and the cost of bringing someone new up to speed.
func ScoreVelocity(in Input, opts Options) schema.VelocityReport {
	report := schema.VelocityReport{
		ContextSwitching: contextSwitching(in.Sessions),
		KnowledgeSilos:   knowledgeSilos(in.Evolution.FileHistory, in.Contributors),
		Onboarding:       onboarding(in.Commits, in.Contributors),
	}
	report.ScoreReport = newReport(schema.VelocityEngine, opts, map[schema.SubScoreKey]float64{
		schema.SubContextSwitching: 100 - report.ContextSwitching.PenaltyScore,
		schema.SubKnowledgeSilos:   100 - report.KnowledgeSilos.RiskScore,
		schema.SubOnboarding:       100 - report.Onboarding.ComplexityScore,
	})

	cs, ks, ob := report.ContextSwitching, report.KnowledgeSilos, report.Onboarding
	report.Recommendations = recommend(
		rule{cs.PenaltyScore > penaltyAlarm, schema.Recommendation{
			Category:    "Focus & Flow",
			Severity:    schema.SeverityHigh,
			Title:       "High Context Switching Detected",
			Description: fmt.Sprintf("%.1f%% of sessions involve significant context switching.", cs.SwitchingRatio),
			Action:      "Organize work around focused modules and reduce multitasking across components.",
		}},
		rule{ks.RiskScore > siloRiskAlarm, schema.Recommendation{
			Category:    "Knowledge Management",
			Severity:    schema.SeverityCritical,
			Title:       "Critical Knowledge Silos",
			Description: fmt.Sprintf("%d critical files have a low bus factor.", ks.SiloFiles),
			Action:      "Implement pair programming and code review rotation to spread knowledge.",
		}},
		rule{ob.ComplexityScore > onboardingAlarm, schema.Recommendation{
			Category:    "Developer Experience",
			Severity:    schema.SeverityMedium,
			Title:       "Complex Onboarding Process",
			Description: fmt.Sprintf("New contributors take %.0f days on average to become productive.", ob.AverageRampUpDays),
			Action:      "Improve documentation and create starter tasks for new developers.",
		}},
		rule{report.Composite < velocityStrategyFloor, schema.Recommendation{
			Category:    "Team Velocity",
			Severity:    schema.SeverityHigh,
			Title:       "Low Engineering Velocity",
			Description: "Multiple factors are slowing development speed.",
			Action:      "Address context switching and knowledge silos before adding more work.",
		}},
	)
	return report
}

// switchPenaltyOf charges 15 points per extra module and 2 per file beyond
// five. Files repeated across commits count every time.
func switchPenaltyOf(s schema.WorkSession) (modules, files int, penalty float64) {
	seen := make(map[string]struct{})
	for _, c := range s.Commits {
		for _, f := range c.Files {
			files++
			seen[algo.ModuleOf(f.Filename)] = struct{}{}
		}
	}
	modules = len(seen)
	if modules > 1 {
		penalty += float64(15 * (modules - 1))
	}
	if files > 5 {
		penalty += float64(2 * (files - 5))
	}
	return modules, files, penalty
}

func contextSwitching(sessions []schema.WorkSession) schema.ContextSwitching {
	out := schema.ContextSwitching{TotalSessions: len(sessions), TopSessions: []schema.SessionSwitch{}}
	var switches []schema.SessionSwitch
	total := 0.0
	for _, s := range sessions {
		modules, files, penalty := switchPenaltyOf(s)
		total += penalty
		if penalty > switchPenalty {
			switches = append(switches, schema.SessionSwitch{
				SessionID: s.ID,
				Author:    s.Author,
				Modules:   modules,
				Files:     files,
				Penalty:   penalty,
			})
		}
		if penalty > highSwitchPenalty {
			out.HighSwitchingSessions++
		}
	}
	avg := algo.Ratio(total, float64(len(sessions)))
	out.ContextSwitches = len(switches)
	out.AveragePenalty = algo.RoundTo(avg, 1)
	out.PenaltyScore = algo.RoundTo(min(100, 2*avg), 1)
	out.SwitchingRatio = algo.RoundTo(algo.Percent(out.HighSwitchingSessions, len(sessions)), 1)
	out.TopSessions = append(out.TopSessions, algo.TopN(switches, sessionSwitchLimit, func(s schema.SessionSwitch) float64 {
		return s.Penalty
	})...)
	out.ModuleFragmentation = moduleFragmentation(sessions)
	return out
}

// moduleFragmentation counts, per module, the sessions that touched it and
// their average length. Modules spread over many sessions are fragmented.
func moduleFragmentation(sessions []schema.WorkSession) []schema.ModuleFragmentation {
	type stat struct {
		sessions int
		duration int64
	}
	stats := make(map[string]*stat)
	for _, s := range sessions {
		seen := make(map[string]struct{})
		for _, c := range s.Commits {
			for _, f := range c.Files {
				seen[algo.ModuleOf(f.Filename)] = struct{}{}
			}
		}
		for m := range seen {
			if stats[m] == nil {
				stats[m] = &stat{}
			}
			stats[m].sessions++
			stats[m].duration += s.Duration
		}
	}

	out := make([]schema.ModuleFragmentation, 0, len(stats))
	for m, st := range stats {
		level := "low"
		switch {
		case st.sessions > fragmentedSessions:
			level = "high"
		case st.sessions > spreadSessions:
			level = "medium"
		}
		out = append(out, schema.ModuleFragmentation{
			Module:              m,
			Sessions:            st.sessions,
			AverageSessionHours: algo.RoundTo(algo.Hours(st.duration)/float64(st.sessions), 2),
			Fragmentation:       level,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sessions != out[j].Sessions {
			return out[i].Sessions > out[j].Sessions
		}
		return out[i].Module < out[j].Module
	})
	return out
}

// knowledgeSilos finds busy or single-owner files that few people know.
func knowledgeSilos(files []schema.FileHistoryEntry, contributors []schema.ContributorProfile) schema.KnowledgeSilos {
	out := schema.KnowledgeSilos{TopSilos: []schema.SiloFile{}}
	var silos []schema.SiloFile
	busFactors := []float64{}
	for _, f := range files {
		if f.TotalModifications <= siloModifications && f.Authors != 1 {
			continue
		}
		out.CriticalFiles++
		bf := min(f.Authors, maxBusFactor)
		busFactors = append(busFactors, float64(bf))
		if bf <= siloBusFactor {
			silos = append(silos, schema.SiloFile{
				Filename:      f.Filename,
				Authors:       f.Authors,
				BusFactor:     bf,
				Modifications: f.TotalModifications,
				RiskLevel:     siloRisk(bf),
			})
		}
	}
	out.SiloFiles = len(silos)
	ratio := algo.Percent(out.SiloFiles, out.CriticalFiles)
	out.SiloRatio = algo.RoundTo(ratio, 1)
	risk := ratio * 1.2
	if out.SiloFiles > siloCountAlarm {
		risk += 20
	}
	out.RiskScore = algo.RoundTo(min(100, risk), 1)
	out.AverageBusFactor = algo.RoundTo(algo.Mean(busFactors), 1)
	switch {
	case out.CriticalFiles == 0:
		out.OverallBusFactor = schema.InsufficientData
	case out.AverageBusFactor > 2.5:
		out.OverallBusFactor = "healthy"
	case out.AverageBusFactor > 1.5:
		out.OverallBusFactor = "moderate"
	default:
		out.OverallBusFactor = "risky"
	}

	sort.SliceStable(silos, func(i, j int) bool {
		if silos[i].BusFactor != silos[j].BusFactor {
			return silos[i].BusFactor < silos[j].BusFactor
		}
		return silos[i].Modifications > silos[j].Modifications
	})
	out.TopSilos = append(out.TopSilos, silos[:min(len(silos), siloFileLimit)]...)
	out.Experts = knowledgeExperts(files, contributors)
	return out
}

func siloRisk(busFactor int) string {
	switch busFactor {
	case 1:
		return "critical"
	case 2:
		return "high"
	default:
		return "medium"
	}
}

// knowledgeExperts scores each contributor by the silo-prone files they
// have touched: few authors and more than five modifications.
func knowledgeExperts(files []schema.FileHistoryEntry, contributors []schema.ContributorProfile) []schema.KnowledgeExpert {
	held := make(map[string]int)
	for _, f := range files {
		if f.Authors > expertAuthors || f.TotalModifications <= expertModifications {
			continue
		}
		for _, name := range f.AuthorNames {
			held[name]++
		}
	}
	experts := make([]schema.KnowledgeExpert, 0, len(contributors))
	for _, p := range contributors {
		score := float64(10 * held[p.Name])
		if p.TotalCommits > expertCommitBonus {
			score += 20
		}
		experts = append(experts, schema.KnowledgeExpert{
			Name:           p.Name,
			ExpertiseFiles: held[p.Name],
			Commits:        p.TotalCommits,
			Score:          score,
		})
	}
	return algo.TopN(experts, expertLimit, func(e schema.KnowledgeExpert) float64 { return e.Score })
}

// onboarding measures how long contributors with enough history took to land
// their first substantial commit.
func onboarding(commits []schema.Commit, contributors []schema.ContributorProfile) schema.Onboarding {
	byAuthor := make(map[string][]schema.Commit)
	for _, c := range algo.SortByTimestamp(commits) {
		byAuthor[c.Author] = append(byAuthor[c.Author], c)
	}

	out := schema.Onboarding{RampUps: []schema.RampUp{}}
	var days, complexities []float64
	for _, p := range contributors {
		history := byAuthor[p.Name]
		if len(history) < onboardingMinCommits {
			continue
		}
		out.EligibleContributors++
		productive, ok := productiveCommit(history)
		if !ok {
			continue
		}
		ramp := algo.Round(algo.Days(productive.Timestamp - history[0].Timestamp))
		days = append(days, ramp)
		if ramp > slowRampUpDays {
			out.SlowRampUps++
		}
		early := earlyComplexity(history)
		complexities = append(complexities, early)
		if len(out.RampUps) < rampUpLimit {
			out.RampUps = append(out.RampUps, schema.RampUp{
				Name:             p.Name,
				FirstCommit:      history[0].Timestamp,
				ProductiveCommit: productive.Timestamp,
				RampUpDays:       ramp,
				Complexity:       algo.RoundTo(early, 1),
			})
		}
	}
	avg := algo.Mean(days)
	out.AverageRampUpDays = algo.Round(avg)
	complexity := 1.3 * avg
	if avg > 30 {
		complexity = 40
	}
	complexity += float64(10 * out.SlowRampUps)
	out.ComplexityScore = algo.RoundTo(min(100, complexity), 1)
	out.ComplexityFactors = complexityFactors(avg, complexities)
	return out
}

// complexityFactors explains a slow onboarding: a long average ramp-up, or
// most newcomers starting with large multi-file changes.
func complexityFactors(avgRampUp float64, complexities []float64) []schema.ComplexityFactor {
	factors := []schema.ComplexityFactor{}
	if len(complexities) == 0 {
		return factors
	}
	if avgRampUp > longRampUpDays {
		factors = append(factors, schema.ComplexityFactor{
			Factor:      "Long Ramp-up Time",
			Description: fmt.Sprintf("Average %.0f days to productivity indicates high codebase complexity.", avgRampUp),
			Severity:    schema.SeverityHigh,
		})
	}
	heavy := 0
	for _, c := range complexities {
		if c > complexEarlyWork {
			heavy++
		}
	}
	if float64(heavy) > 0.5*float64(len(complexities)) {
		factors = append(factors, schema.ComplexityFactor{
			Factor:      "Complex Early Contributions",
			Description: "New contributors immediately work on complex, multi-file changes.",
			Severity:    schema.SeverityMedium,
		})
	}
	return factors
}

// productiveCommit returns the first commit from the fifth on that is large,
// falling back to the tenth commit.
func productiveCommit(history []schema.Commit) (schema.Commit, bool) {
	for _, c := range history[min(productiveIndex, len(history)):] {
		if c.Insertions+c.Deletions > productiveChanges || len(c.Files) > productiveFiles {
			return c, true
		}
	}
	if len(history) >= fallbackProductive {
		return history[fallbackProductive-1], true
	}
	return schema.Commit{}, false
}

// earlyComplexity rates the first ten commits by files touched and lines
// changed.
func earlyComplexity(history []schema.Commit) float64 {
	early := history[:min(len(history), fallbackProductive)]
	values := make([]float64, len(early))
	for i, c := range early {
		values[i] = float64(5*len(c.Files)) + min(float64(c.Insertions+c.Deletions)/10, 20)
	}
	return min(100, algo.Mean(values))
}
