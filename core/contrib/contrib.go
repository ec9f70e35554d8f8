// Package contrib profiles contributors and builds the collaboration graph.
package contrib

import (
	"sort"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/schema"
)

// FavoriteFileLimit is the number of favorite files kept per contributor.
const FavoriteFileLimit = 5

// nightOwlShare is the share of commits made between 22:00 and 05:59 above
// which a contributor counts as a night owl.
const nightOwlShare = 0.3

// builder accumulates one author's commits.
type builder struct {
	profile   schema.ContributorProfile
	files     map[string]int
	fileOrder []string
	days      map[string]int
}

// Profile returns one profile per distinct author string, in order of first
// appearance. Authors are matched exactly.
func Profile(commits []schema.Commit) []schema.ContributorProfile {
	builders := make(map[string]*builder)
	var order []string

	for _, c := range commits {
		b, ok := builders[c.Author]
		if !ok {
			b = &builder{
				profile: schema.ContributorProfile{
					Name:        c.Author,
					Email:       c.Email,
					FirstCommit: c.Timestamp,
					LastCommit:  c.Timestamp,
				},
				files: make(map[string]int),
				days:  make(map[string]int),
			}
			builders[c.Author] = b
			order = append(order, c.Author)
		}
		b.add(c)
	}

	profiles := make([]schema.ContributorProfile, 0, len(order))
	for _, name := range order {
		profiles = append(profiles, builders[name].build())
	}
	return profiles
}

func (b *builder) add(c schema.Commit) {
	p := &b.profile
	p.TotalCommits++
	p.TotalInsertions += c.Insertions
	p.TotalDeletions += c.Deletions
	p.FirstCommit = min(p.FirstCommit, c.Timestamp)
	p.LastCommit = max(p.LastCommit, c.Timestamp)

	for _, f := range c.Files {
		if _, ok := b.files[f.Filename]; !ok {
			b.fileOrder = append(b.fileOrder, f.Filename)
		}
		b.files[f.Filename]++
	}

	t := c.Time()
	b.days[t.Format("2006-01-02")]++
	p.CommitsByHour[t.Hour()]++
}

func (b *builder) build() schema.ContributorProfile {
	p := b.profile
	p.FilesModified = len(b.files)
	p.ActiveDays = len(b.days)
	p.AverageCommitsPerDay = algo.Ratio(float64(p.TotalCommits), float64(p.ActiveDays))
	p.TotalChanges = p.TotalInsertions + p.TotalDeletions
	p.AverageChangesPerCommit = algo.Ratio(float64(p.TotalChanges), float64(p.TotalCommits))
	p.ContributionPeriod = p.LastCommit - p.FirstCommit

	p.CommitsByDay = make([]schema.DayCount, 0, len(b.days))
	for day, n := range b.days {
		p.CommitsByDay = append(p.CommitsByDay, schema.DayCount{Date: day, Commits: n})
	}
	sort.Slice(p.CommitsByDay, func(i, j int) bool {
		return p.CommitsByDay[i].Date < p.CommitsByDay[j].Date
	})

	tally := make([]schema.FileCount, len(b.fileOrder))
	for i, name := range b.fileOrder {
		tally[i] = schema.FileCount{Filename: name, Count: b.files[name]}
	}
	p.FavoriteFiles = algo.TopN(tally, FavoriteFileLimit, func(f schema.FileCount) float64 {
		return float64(f.Count)
	})

	night := 0
	for hour, n := range p.CommitsByHour {
		if hour >= 22 || hour < 6 {
			night += n
		}
		if n > p.CommitsByHour[p.PeakHour] {
			p.PeakHour = hour
		}
	}
	p.IsNightOwl = float64(night) > float64(p.TotalCommits)*nightOwlShare
	return p
}
