package parser

import "github.com/huangsam/gitpulse/schema"

// CommitStats reduces commits to totals, distinct files and authors, and the
// covered date range. Contributors are listed in first-seen order.
func CommitStats(commits []schema.Commit) schema.CommitSummary {
	summary := schema.CommitSummary{
		TotalCommits: len(commits),
		Contributors: []string{},
	}
	files := make(map[string]struct{})
	authors := make(map[string]struct{})

	for i, c := range commits {
		if _, ok := authors[c.Author]; !ok {
			authors[c.Author] = struct{}{}
			summary.Contributors = append(summary.Contributors, c.Author)
		}
		summary.TotalInsertions += c.Insertions
		summary.TotalDeletions += c.Deletions
		for _, f := range c.Files {
			files[f.Filename] = struct{}{}
		}

		if i == 0 {
			summary.DateRange = &schema.DateRange{Start: c.Timestamp, End: c.Timestamp}
			continue
		}
		summary.DateRange.Start = min(summary.DateRange.Start, c.Timestamp)
		summary.DateRange.End = max(summary.DateRange.End, c.Timestamp)
	}

	summary.TotalFiles = len(files)
	summary.TotalContributors = len(authors)
	return summary
}
