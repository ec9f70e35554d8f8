// Package engine turns the per-stage records into four composite health
// scores: scaling readiness, technical debt, velocity health and MVP-scale
// transition. Every scorer is a pure function of its Input and Options.
package engine

import (
	"sort"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/schema"
)

// Input is everything the scorers read. None of it is modified.
type Input struct {
	Commits      []schema.Commit
	Sessions     []schema.WorkSession
	Contributors []schema.ContributorProfile
	Evolution    schema.Evolution
}

// Options carries the injected clock reading, the classifier and any custom
// weights. Missing pieces fall back to the defaults.
type Options struct {
	Now        time.Time
	Classifier *classify.Classifier
	Weights    map[schema.EngineName]algo.Weights
}

// DefaultOptions returns options with the default classifier and weights.
func DefaultOptions(now time.Time) Options {
	return Options{Now: now, Classifier: classify.Default()}
}

func (o Options) classifier() *classify.Classifier {
	if o.Classifier == nil {
		return classify.Default()
	}
	return o.Classifier
}

func (o Options) weights(engine schema.EngineName) algo.Weights {
	if w, ok := o.Weights[engine]; ok && w.Engine() == engine {
		return w
	}
	return algo.DefaultWeights(engine)
}

func (o Options) nowMillis() int64 {
	return o.Now.UnixMilli()
}

// newReport clamps the sub-scores and computes the weighted composite.
func newReport(engine schema.EngineName, opts Options, subScores map[schema.SubScoreKey]float64) schema.ScoreReport {
	w := opts.weights(engine)
	clamped, composite := w.Composite(subScores)
	return schema.ScoreReport{
		Engine:          engine,
		SubScores:       clamped,
		Weights:         w.Map(),
		Composite:       composite,
		Recommendations: []schema.Recommendation{},
	}
}

// rule is a recommendation that applies when its condition holds.
type rule struct {
	when bool
	rec  schema.Recommendation
}

// recommend keeps the recommendations whose rules fired, in rule order.
func recommend(rules ...rule) []schema.Recommendation {
	out := []schema.Recommendation{}
	for _, r := range rules {
		if r.when {
			out = append(out, r.rec)
		}
	}
	return out
}

// moduleStats groups file history by module, busiest first.
func moduleStats(files []schema.FileHistoryEntry) []schema.ModuleStat {
	index := make(map[string]int)
	out := []schema.ModuleStat{}
	for _, f := range files {
		m := algo.ModuleOf(f.Filename)
		i, ok := index[m]
		if !ok {
			i = len(out)
			index[m] = i
			out = append(out, schema.ModuleStat{Module: m})
		}
		out[i].Files++
		out[i].Modifications += f.TotalModifications
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Modifications != out[j].Modifications {
			return out[i].Modifications > out[j].Modifications
		}
		return out[i].Module < out[j].Module
	})
	return out
}

// couplingWindows measures co-change density in non-empty 30-day windows.
// A pair is two distinct files changed by the same commit.
func couplingWindows(sorted []schema.Commit) []schema.CouplingWindow {
	windows := algo.NonEmpty(algo.Partition(sorted, algo.CouplingWindow))
	out := make([]schema.CouplingWindow, 0, len(windows))
	for _, w := range windows {
		files := make(map[string]struct{})
		pairs := make(map[[2]string]struct{})
		for _, c := range w.Commits {
			names := distinctFiles(c)
			for i, a := range names {
				files[a] = struct{}{}
				for _, b := range names[i+1:] {
					if b < a {
						pairs[[2]string{b, a}] = struct{}{}
					} else {
						pairs[[2]string{a, b}] = struct{}{}
					}
				}
			}
		}
		out = append(out, schema.CouplingWindow{
			Start: w.Start,
			Files: len(files),
			Pairs: len(pairs),
			Ratio: algo.RoundTo(algo.Ratio(float64(len(pairs)), float64(len(files))), 3),
		})
	}
	return out
}

// couplingRatios extracts the per-window ratios for trend comparison.
func couplingRatios(windows []schema.CouplingWindow) []float64 {
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = w.Ratio
	}
	return out
}

// distinctFiles returns the filenames of a commit without repeats, in order.
func distinctFiles(c schema.Commit) []string {
	seen := make(map[string]struct{}, len(c.Files))
	out := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if _, ok := seen[f.Filename]; ok {
			continue
		}
		seen[f.Filename] = struct{}{}
		out = append(out, f.Filename)
	}
	return out
}

// tagCounts turns a tag tally into a list, most common first.
func tagCounts(counts map[string]int) []schema.TagCount {
	out := make([]schema.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, schema.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// hashes returns the hashes of commits in order.
func hashes(commits []schema.Commit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}

func filenames(files []schema.FileHistoryEntry) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Filename
	}
	return out
}
