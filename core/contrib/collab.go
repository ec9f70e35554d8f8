package contrib

import (
	"sort"

	"github.com/huangsam/gitpulse/schema"
)

// PairSeparator joins the two names of a collaboration pair key.
const PairSeparator = " & "

// PairKey returns the canonical key of an unordered author pair.
func PairKey(a, b string) (key, first, second string) {
	if b < a {
		a, b = b, a
	}
	return a + PairSeparator + b, a, b
}

// FileAuthors maps every filename to its distinct authors in first-seen
// order. The second return value lists filenames in first-seen order.
func FileAuthors(commits []schema.Commit) (map[string][]string, []string) {
	authors := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	var order []string

	for _, c := range commits {
		for _, f := range c.Files {
			set, ok := seen[f.Filename]
			if !ok {
				set = make(map[string]struct{})
				seen[f.Filename] = set
				order = append(order, f.Filename)
			}
			if _, ok := set[c.Author]; !ok {
				set[c.Author] = struct{}{}
				authors[f.Filename] = append(authors[f.Filename], c.Author)
			}
		}
	}
	return authors, order
}

// Collaborate builds the collaboration graph. Every file with more than one
// author adds one shared edit to each unordered pair of its authors.
func Collaborate(commits []schema.Commit) schema.Collaboration {
	fileAuthors, order := FileAuthors(commits)

	pairs := make(map[string]*schema.CollaborationPair)
	shared := []schema.SharedFile{}
	for _, filename := range order {
		names := fileAuthors[filename]
		if len(names) < 2 {
			continue
		}
		shared = append(shared, schema.SharedFile{
			Filename:    filename,
			Authors:     names,
			AuthorCount: len(names),
		})
		for i := range names {
			for j := i + 1; j < len(names); j++ {
				key, a, b := PairKey(names[i], names[j])
				p, ok := pairs[key]
				if !ok {
					p = &schema.CollaborationPair{Key: key, AuthorA: a, AuthorB: b}
					pairs[key] = p
				}
				p.SharedFiles++
			}
		}
	}

	result := schema.Collaboration{
		Pairs:            make([]schema.CollaborationPair, 0, len(pairs)),
		SharedFiles:      shared,
		TotalSharedFiles: len(shared),
	}
	for _, p := range pairs {
		result.Pairs = append(result.Pairs, *p)
	}
	sort.Slice(result.Pairs, func(i, j int) bool {
		if result.Pairs[i].SharedFiles != result.Pairs[j].SharedFiles {
			return result.Pairs[i].SharedFiles > result.Pairs[j].SharedFiles
		}
		return result.Pairs[i].Key < result.Pairs[j].Key
	})
	sort.SliceStable(result.SharedFiles, func(i, j int) bool {
		return result.SharedFiles[i].AuthorCount > result.SharedFiles[j].AuthorCount
	})
	return result
}
