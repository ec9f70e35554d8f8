package iocache

import (
	"math"
	"strings"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// Known tool ids.
const (
	ToolDiagrams     = "diagrams"
	ToolGitAnalytics = "git-analytics"
	ToolPlayground   = "playground"
)

// ChapterKey returns the store key of a chapter id.
func ChapterKey(id string) string { return schema.ChapterKeyPrefix + id }

// ToolKey returns the store key of a tool id.
func ToolKey(id string) string { return schema.ToolKeyPrefix + id }

// MarkChapterComplete records a finished chapter. Marking twice is harmless.
func MarkChapterComplete(store contract.ProgressStore, id string) error {
	return store.Set(ChapterKey(id), "true")
}

// MarkToolExplored records a visited tool. Marking twice is harmless.
func MarkToolExplored(store contract.ProgressStore, id string) error {
	return store.Set(ToolKey(id), "true")
}

// Summary reports chapter and tool progress. The percentage counts chapters only.
func Summary(store contract.ProgressStore) (schema.ProgressSummary, error) {
	chapters, err := idsWithPrefix(store, schema.ChapterKeyPrefix)
	if err != nil {
		return schema.ProgressSummary{}, err
	}
	tools, err := idsWithPrefix(store, schema.ToolKeyPrefix)
	if err != nil {
		return schema.ProgressSummary{}, err
	}
	return schema.ProgressSummary{
		CompletedChapters: chapters,
		TotalChapters:     schema.TotalChapters,
		ExploredTools:     tools,
		TotalTools:        schema.TotalTools,
		PercentComplete:   math.Round(float64(len(chapters)) / schema.TotalChapters * 100),
	}, nil
}

func idsWithPrefix(store contract.ProgressStore, prefix string) ([]string, error) {
	keys, err := store.Keys(prefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		value, err := store.Get(k)
		if err != nil {
			return nil, err
		}
		// Only true values count; "false" or junk left by set is ignored.
		if done, err := contract.ParseBoolString(value); err != nil || !done {
			continue
		}
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}
