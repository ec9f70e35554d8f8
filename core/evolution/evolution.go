// Package evolution replays commit history into per-file records, a growth
// series and a sampled timeline.
package evolution

import (
	"math"
	"sort"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// Sampling and ranking limits.
const (
	TimelinePhases  = 20
	DominantWindow  = 50
	HotspotLimit    = 10
	metricsDecimals = 1
)

// fileState accumulates the history of one filename.
type fileState struct {
	entry   schema.FileHistoryEntry
	authors map[string]struct{}
}

// Track replays commits in ascending time order. The input is not modified.
func Track(commits []schema.Commit) schema.Evolution {
	sorted := algo.SortByTimestamp(commits)
	files := make(map[string]*fileState)
	var order []string

	evo := schema.Evolution{
		CodebaseGrowth: make([]schema.GrowthPoint, 0, len(sorted)),
		Timeline:       []schema.PhasePoint{},
	}
	step := int(math.Ceil(float64(len(sorted)) / TimelinePhases))
	adds, dels := 0, 0

	for i, c := range sorted {
		adds += c.Insertions
		dels += c.Deletions

		for _, f := range c.Files {
			st, ok := files[f.Filename]
			if !ok {
				st = &fileState{
					entry: schema.FileHistoryEntry{
						Filename:      f.Filename,
						FirstModified: c.Timestamp,
						AuthorNames:   []string{},
					},
					authors: make(map[string]struct{}),
				}
				files[f.Filename] = st
				order = append(order, f.Filename)
			}
			e := &st.entry
			e.LastModified = c.Timestamp
			e.TotalModifications++
			e.TotalInsertions += f.Additions
			e.TotalDeletions += f.Deletions
			if _, ok := st.authors[c.Author]; !ok {
				st.authors[c.Author] = struct{}{}
				e.AuthorNames = append(e.AuthorNames, c.Author)
			}
		}

		evo.CodebaseGrowth = append(evo.CodebaseGrowth, schema.GrowthPoint{
			Date:           c.Timestamp,
			Hash:           c.Hash,
			Author:         c.Author,
			TotalFiles:     len(files),
			TotalLines:     adds - dels,
			CumulativeAdds: adds,
			CumulativeDels: dels,
		})

		if i%step == 0 {
			evo.Timeline = append(evo.Timeline, schema.PhasePoint{
				Phase:          i / step,
				Date:           c.Timestamp,
				CommitCount:    i + 1,
				FileCount:      len(files),
				NetLines:       adds - dels,
				DominantAuthor: DominantAuthor(sorted[max(0, i-DominantWindow+1) : i+1]),
			})
		}
	}

	evo.FileHistory = make([]schema.FileHistoryEntry, 0, len(order))
	for _, name := range order {
		e := files[name].entry
		e.Authors = len(e.AuthorNames)
		e.Lifespan = e.LastModified - e.FirstModified
		evo.FileHistory = append(evo.FileHistory, e)
	}
	evo.Hotspots = algo.RankHotspots(evo.FileHistory, HotspotLimit)
	evo.FileExtensions = extensions(order)
	evo.TotalFilesEverTouched = len(order)
	if len(sorted) > 0 {
		evo.ProjectAge = sorted[len(sorted)-1].Timestamp - sorted[0].Timestamp
	}
	return evo
}

// DominantAuthor returns the author with the most commits in window. On a
// tie the author who reached the maximum first while scanning left to right
// wins. An empty window yields schema.UnknownAuthor.
func DominantAuthor(window []schema.Commit) string {
	counts := make(map[string]int)
	best, bestCount := schema.UnknownAuthor, 0
	for _, c := range window {
		counts[c.Author]++
		if counts[c.Author] > bestCount {
			best, bestCount = c.Author, counts[c.Author]
		}
	}
	return best
}

// extensions groups filenames by suffix, most common first.
func extensions(filenames []string) []schema.ExtensionCount {
	counts := make(map[string]int)
	for _, name := range filenames {
		counts[algo.ExtensionOf(name)]++
	}
	out := make([]schema.ExtensionCount, 0, len(counts))
	for ext, n := range counts {
		out = append(out, schema.ExtensionCount{Extension: ext, Files: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

// ProjectMetrics derives headline numbers. Per-day and per-week rates use the
// project age rounded up to whole days, with a minimum of one day.
func ProjectMetrics(commits []schema.Commit, sessions []schema.WorkSession, contributors []schema.ContributorProfile, evo schema.Evolution) schema.ProjectMetrics {
	m := schema.ProjectMetrics{
		TotalCommits:      len(commits),
		TotalContributors: len(contributors),
		TotalFiles:        evo.TotalFilesEverTouched,
	}
	fileTouches := 0
	for _, c := range commits {
		m.TotalInsertions += c.Insertions
		m.TotalDeletions += c.Deletions
		fileTouches += len(c.Files)
	}
	m.NetLines = m.TotalInsertions - m.TotalDeletions

	days := algo.Days(evo.ProjectAge)
	m.ProjectAgeDays = algo.RoundTo(days, metricsDecimals)
	if len(commits) > 0 {
		m.AverageCommitsPerDay = algo.RoundTo(float64(len(commits))/max(1, math.Ceil(days)), metricsDecimals)
	}
	n := float64(len(commits))
	m.AverageCommitSize = algo.RoundTo(algo.Ratio(float64(m.TotalInsertions+m.TotalDeletions), n), metricsDecimals)
	m.AverageFilesPerCommit = algo.RoundTo(algo.Ratio(float64(fileTouches), n), metricsDecimals)

	hours := 0.0
	for _, s := range sessions {
		hours += s.EstimatedHours
	}
	m.TotalEstimatedHours = algo.RoundTo(hours, metricsDecimals)
	if len(commits) > 0 {
		m.HoursPerWeek = algo.RoundTo(hours*7/max(1, math.Ceil(days)), metricsDecimals)
	}
	m.AverageCommitsPerSession = algo.RoundTo(algo.Ratio(n, float64(len(sessions))), metricsDecimals)
	return m
}
