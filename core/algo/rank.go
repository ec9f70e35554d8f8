package algo

import (
	"path"
	"sort"
	"strings"

	"github.com/huangsam/gitpulse/schema"
)

// RootModule is the module of files that live at the top level.
const RootModule = "root"

// TopN stable-sorts a copy of items in descending order of score and returns
// at most limit items. Equal scores keep their input order. A limit of zero
// or less returns everything.
func TopN[T any](items []T, limit int, score func(T) float64) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	if limit > 0 && len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}

// RankHotspots returns the most modified files, descending.
func RankHotspots(files []schema.FileHistoryEntry, limit int) []schema.FileHistoryEntry {
	return TopN(files, limit, func(f schema.FileHistoryEntry) float64 {
		return float64(f.TotalModifications)
	})
}

// SortByTimestamp returns a copy of commits stable-sorted in ascending time order.
func SortByTimestamp(commits []schema.Commit) []schema.Commit {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// ModuleOf returns the first path segment of a filename, or RootModule for
// top-level files.
func ModuleOf(filename string) string {
	if i := strings.Index(filename, "/"); i > 0 {
		return filename[:i]
	}
	return RootModule
}

// ExtensionOf returns the suffix after the last dot of the base name, or
// schema.NoExtension when there is none.
func ExtensionOf(filename string) string {
	base := path.Base(filename)
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return schema.NoExtension
	}
	return base[i+1:]
}

// PathDepth returns the number of segments in a slash-separated path.
func PathDepth(filename string) int {
	return len(strings.Split(filename, "/"))
}
