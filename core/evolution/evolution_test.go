package evolution

import (
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func change(name string, adds, dels int) schema.FileChange {
	return schema.FileChange{Filename: name, Additions: adds, Deletions: dels, Changes: adds + dels}
}

func commitOn(day int, author string, files ...schema.FileChange) schema.Commit {
	c := schema.Commit{
		Hash:      fmt.Sprintf("%s-%d", author, day),
		Author:    author,
		Timestamp: start.AddDate(0, 0, day).UnixMilli(),
		Files:     files,
	}
	for _, f := range files {
		c.Insertions += f.Additions
		c.Deletions += f.Deletions
	}
	return c
}

func TestTrack(t *testing.T) {
	commits := []schema.Commit{
		commitOn(10, "bob", change("core/a.go", 1, 5)),
		commitOn(0, "alice", change("core/a.go", 10, 0), change("Makefile", 2, 0)),
		commitOn(3, "alice", change("core/a.go", 4, 1), change("docs/guide.md", 8, 0)),
	}

	evo := Track(commits)

	require.Len(t, evo.FileHistory, 3)
	a := evo.FileHistory[0]
	assert.Equal(t, "core/a.go", a.Filename)
	assert.Equal(t, 3, a.TotalModifications)
	assert.Equal(t, 15, a.TotalInsertions)
	assert.Equal(t, 6, a.TotalDeletions)
	assert.Equal(t, 2, a.Authors)
	assert.Equal(t, []string{"alice", "bob"}, a.AuthorNames)
	assert.Equal(t, start.UnixMilli(), a.FirstModified)
	assert.Equal(t, (10 * 24 * time.Hour).Milliseconds(), a.Lifespan)

	require.Len(t, evo.CodebaseGrowth, 3)
	last := evo.CodebaseGrowth[2]
	assert.Equal(t, "bob", last.Author)
	assert.Equal(t, 3, last.TotalFiles)
	assert.Equal(t, 25, last.CumulativeAdds)
	assert.Equal(t, 6, last.CumulativeDels)
	assert.Equal(t, 19, last.TotalLines)

	require.Len(t, evo.Timeline, 3, "fewer than 20 commits gives one phase per commit")
	assert.Equal(t, 2, evo.Timeline[2].Phase)
	assert.Equal(t, 3, evo.Timeline[2].CommitCount)
	assert.Equal(t, "alice", evo.Timeline[2].DominantAuthor)

	require.NotEmpty(t, evo.Hotspots)
	assert.Equal(t, "core/a.go", evo.Hotspots[0].Filename)

	assert.Equal(t, []schema.ExtensionCount{
		{Extension: "go", Files: 1},
		{Extension: "md", Files: 1},
		{Extension: schema.NoExtension, Files: 1},
	}, evo.FileExtensions)
	assert.Equal(t, 3, evo.TotalFilesEverTouched)
	assert.Equal(t, (10 * 24 * time.Hour).Milliseconds(), evo.ProjectAge)
}

func TestTrack_TimelineSampling(t *testing.T) {
	var commits []schema.Commit
	for i := range 45 {
		commits = append(commits, commitOn(i, "alice", change("a.go", 1, 0)))
	}

	evo := Track(commits)
	// step = ceil(45/20) = 3
	require.Len(t, evo.Timeline, 15)
	for i, p := range evo.Timeline {
		assert.Equal(t, i, p.Phase)
		assert.Equal(t, i*3+1, p.CommitCount)
	}
}

func TestTrack_HotspotLimit(t *testing.T) {
	var commits []schema.Commit
	for i := range 15 {
		files := make([]schema.FileChange, 0, i+1)
		for j := 0; j <= i; j++ {
			files = append(files, change(fmt.Sprintf("f%02d.go", j), 1, 0))
		}
		commits = append(commits, commitOn(i, "alice", files...))
	}

	evo := Track(commits)
	require.Len(t, evo.Hotspots, HotspotLimit)
	assert.Equal(t, "f00.go", evo.Hotspots[0].Filename)
	assert.Equal(t, 15, evo.Hotspots[0].TotalModifications)
	for i := 1; i < len(evo.Hotspots); i++ {
		assert.GreaterOrEqual(t, evo.Hotspots[i-1].TotalModifications, evo.Hotspots[i].TotalModifications)
	}
}

func TestDominantAuthor(t *testing.T) {
	window := func(authors ...string) []schema.Commit {
		out := make([]schema.Commit, len(authors))
		for i, a := range authors {
			out[i] = schema.Commit{Author: a}
		}
		return out
	}

	assert.Equal(t, schema.UnknownAuthor, DominantAuthor(nil))
	assert.Equal(t, "bob", DominantAuthor(window("alice", "bob", "bob")))
	assert.Equal(t, "bob", DominantAuthor(window("alice", "bob", "bob", "alice")), "bob reached two first")
	assert.Equal(t, "alice", DominantAuthor(window("alice", "bob", "alice", "bob")))
}

func TestTrack_DominantWindowIsTrailing(t *testing.T) {
	var commits []schema.Commit
	for i := range 60 {
		author := "alice"
		if i >= 30 {
			author = "bob"
		}
		commits = append(commits, commitOn(i, author, change("a.go", 1, 0)))
	}

	evo := Track(commits)
	lastPhase := evo.Timeline[len(evo.Timeline)-1]
	assert.Equal(t, 58, lastPhase.CommitCount)
	// the trailing window holds 22 alice commits and 28 bob commits
	assert.Equal(t, "bob", lastPhase.DominantAuthor)
}

func TestTrack_Empty(t *testing.T) {
	evo := Track(nil)
	assert.Empty(t, evo.FileHistory)
	assert.Empty(t, evo.CodebaseGrowth)
	assert.Empty(t, evo.Timeline)
	assert.Empty(t, evo.Hotspots)
	assert.Empty(t, evo.FileExtensions)
	assert.Zero(t, evo.ProjectAge)
}

func TestProjectMetrics(t *testing.T) {
	commits := []schema.Commit{
		commitOn(0, "alice", change("a.go", 10, 2), change("b.go", 3, 0)),
		commitOn(2, "bob", change("a.go", 5, 5)),
	}
	evo := Track(commits)
	sessions := []schema.WorkSession{{EstimatedHours: 1.5}, {EstimatedHours: 0.5}}
	m := ProjectMetrics(commits, sessions, make([]schema.ContributorProfile, 2), evo)

	assert.Equal(t, 2, m.TotalCommits)
	assert.Equal(t, 2, m.TotalContributors)
	assert.Equal(t, 2, m.TotalFiles)
	assert.Equal(t, 18, m.TotalInsertions)
	assert.Equal(t, 7, m.TotalDeletions)
	assert.Equal(t, 11, m.NetLines)
	assert.Equal(t, 2.0, m.ProjectAgeDays)
	assert.Equal(t, 1.0, m.AverageCommitsPerDay)
	assert.Equal(t, 12.5, m.AverageCommitSize)
	assert.Equal(t, 1.5, m.AverageFilesPerCommit)
	assert.Equal(t, 2.0, m.TotalEstimatedHours)
	assert.Equal(t, 7.0, m.HoursPerWeek)
	assert.Equal(t, 1.0, m.AverageCommitsPerSession)

	empty := ProjectMetrics(nil, nil, nil, Track(nil))
	assert.Zero(t, empty.AverageCommitsPerDay)
	assert.Zero(t, empty.AverageCommitSize)
	assert.Zero(t, empty.HoursPerWeek)
	assert.Zero(t, empty.AverageCommitsPerSession)
}
