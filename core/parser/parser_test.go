package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TwoCommits(t *testing.T) {
	result := Parse(generateComprehensiveTestData())

	require.Len(t, result.Commits, 2)
	assert.Zero(t, result.DroppedCount)
	assert.Empty(t, result.Warnings)

	first, second := result.Commits[0], result.Commits[1]
	assert.Equal(t, "abc123def456", first.Hash)
	assert.Equal(t, "def456ghi789", second.Hash)
	for _, c := range result.Commits {
		assert.NotEmpty(t, c.Hash)
		assert.NotEmpty(t, c.Author)
		assert.NotZero(t, c.Timestamp)
	}

	assert.Equal(t, "Alice Developer", first.Author)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, "Add session detection", first.Message)
	assert.Equal(t, -5*3600, first.TZOffset)
	assert.Equal(t, 10, first.Time().Hour())
	assert.Equal(t, time.Hour.Milliseconds(), second.Timestamp-first.Timestamp)

	require.Len(t, first.Files, 2)
	assert.Equal(t, schema.FileChange{Filename: "core/session/session.go", Additions: 5, Deletions: 1, Changes: 6}, first.Files[0])
	assert.Equal(t, 8, first.Insertions)
	assert.Equal(t, 1, first.Deletions)
}

func TestParse_SummaryOverridesBars(t *testing.T) {
	result := Parse(generateComprehensiveTestData())
	require.Len(t, result.Commits, 2)

	c := result.Commits[1]
	require.Len(t, c.Files, 1)
	assert.Equal(t, 10, c.Files[0].Additions, "bar counts are a visual approximation")
	assert.Equal(t, 104, c.Files[0].Changes)
	assert.Equal(t, 100, c.Insertions, "summary line is authoritative")
	assert.Equal(t, 4, c.Deletions)
}

func TestParse_BarSumsWithoutSummary(t *testing.T) {
	log := strings.Join([]string{
		"commit 1111111",
		"Author: Carol <carol@example.com>",
		"Date:   Tue Mar 5 09:30:00 2024 +0000",
		"",
		"    tweak",
		"",
		" a.go | 3 ++-",
		" b.go | 2 --",
	}, "\n")

	result := Parse(log)
	require.Len(t, result.Commits, 1)
	assert.Equal(t, 2, result.Commits[0].Insertions)
	assert.Equal(t, 3, result.Commits[0].Deletions)
}

func TestParse_SummaryWithoutInsertions(t *testing.T) {
	log := strings.Join([]string{
		"commit 2222222",
		"Author: Carol <carol@example.com>",
		"Date:   Tue Mar 5 09:30:00 2024 +0000",
		"",
		"    remove dead code",
		"",
		" old.go | 40 ----------",
		" 1 file changed, 40 deletions(-)",
	}, "\n")

	result := Parse(log)
	require.Len(t, result.Commits, 1)
	assert.Equal(t, 0, result.Commits[0].Insertions)
	assert.Equal(t, 40, result.Commits[0].Deletions)
}

func TestParse_HeaderVariants(t *testing.T) {
	log := strings.Join([]string{
		"commit 3333333 (HEAD -> main, origin/main)",
		"Merge: aaaaaaa bbbbbbb",
		"Author: Dana",
		"Date:   2024-03-05T09:30:00+02:00",
		"",
		"    Merge branch 'feature'",
		"",
		"    second message line is ignored",
		" logo.png | Bin 0 -> 1204 bytes",
	}, "\n")

	result := Parse(log)
	require.Len(t, result.Commits, 1)
	c := result.Commits[0]
	assert.Equal(t, "3333333", c.Hash)
	assert.Equal(t, "Dana", c.Author)
	assert.Empty(t, c.Email)
	assert.Equal(t, "Merge branch 'feature'", c.Message)
	assert.Equal(t, 2*3600, c.TZOffset)
	assert.Empty(t, c.Files, "binary stat lines are skipped")
}

func TestParse_DropsIncompleteCommits(t *testing.T) {
	log := strings.Join([]string{
		"commit aaaaaaa",
		"Date:   Tue Mar 5 09:30:00 2024 +0000",
		"",
		"commit bbbbbbb",
		"Author: Erin <erin@example.com>",
		"Date:   yesterday",
		"",
		"commit",
		"Author: Erin <erin@example.com>",
		"Date:   Tue Mar 5 09:30:00 2024 +0000",
		"",
		"commit ccccccc",
		"Author: Erin <erin@example.com>",
		"Date:   Tue Mar 5 09:30:00 2024 +0000",
	}, "\n")

	result := Parse(log)
	require.Len(t, result.Commits, 1)
	assert.Equal(t, "ccccccc", result.Commits[0].Hash)
	assert.Equal(t, 3, result.DroppedCount)
	assert.Equal(t, []schema.ParseWarning{
		{Line: 1, Hash: "aaaaaaa", Reason: ReasonMissingAuthor},
		{Line: 4, Hash: "bbbbbbb", Reason: ReasonInvalidTimestamp},
		{Line: 8, Reason: ReasonMissingHash},
	}, result.Warnings)
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "garbage before any commit\nmore garbage"} {
		result := Parse(input)
		assert.NotNil(t, result.Commits)
		assert.Empty(t, result.Commits)
		assert.Zero(t, result.DroppedCount)
	}
}

func TestParseReader(t *testing.T) {
	text := generateComprehensiveTestData()
	result, err := ParseReader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, Parse(text), result)

	long := "commit x\n" + strings.Repeat("a", MaxLineSize+1)
	_, err = ParseReader(strings.NewReader(long))
	assert.ErrorContains(t, err, "failed to read git log")
}

func TestCommitStats(t *testing.T) {
	result := Parse(generateComprehensiveTestData())
	summary := CommitStats(result.Commits)

	assert.Equal(t, 2, summary.TotalCommits)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.TotalContributors)
	assert.Equal(t, []string{"Alice Developer", "Bob Tester"}, summary.Contributors)
	assert.Equal(t, 108, summary.TotalInsertions)
	assert.Equal(t, 5, summary.TotalDeletions)
	require.NotNil(t, summary.DateRange)
	assert.Equal(t, result.Commits[0].Timestamp, summary.DateRange.Start)
	assert.Equal(t, result.Commits[1].Timestamp, summary.DateRange.End)

	empty := CommitStats(nil)
	assert.Zero(t, empty.TotalCommits)
	assert.Nil(t, empty.DateRange)
	assert.Empty(t, empty.Contributors)
}
