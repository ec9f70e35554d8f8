package parser

import (
	"fmt"
	"strings"
	"time"
)

// gitLogScenario represents a single commit block for test data generation.
type gitLogScenario struct {
	hash    string
	author  string
	email   string
	date    time.Time
	message string
	files   []fileStat
}

// fileStat is one stat line: a change count and its visual bar.
type fileStat struct {
	path       string
	additions  int
	deletions  int
	extraCount int // Added to the count column to mimic a truncated bar
}

// generateTestGitLog renders scenarios the way `git log --stat` does.
func generateTestGitLog(scenarios []gitLogScenario) string {
	var lines []string
	for _, s := range scenarios {
		lines = append(lines,
			"commit "+s.hash,
			fmt.Sprintf("Author: %s <%s>", s.author, s.email),
			"Date:   "+s.date.Format("Mon Jan 2 15:04:05 2006 -0700"),
			"",
			"    "+s.message,
			"",
		)
		ins, del := 0, 0
		for _, f := range s.files {
			count := f.additions + f.deletions + f.extraCount
			bar := strings.Repeat("+", f.additions) + strings.Repeat("-", f.deletions)
			lines = append(lines, fmt.Sprintf(" %s | %d %s", f.path, count, bar))
			ins += f.additions + f.extraCount
			del += f.deletions
		}
		if len(s.files) > 0 {
			lines = append(lines, fmt.Sprintf(" %d files changed, %d insertions(+), %d deletions(-)", len(s.files), ins, del))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// generateComprehensiveTestData covers the common parsing scenarios.
func generateComprehensiveTestData() string {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.FixedZone("", -5*3600))
	return generateTestGitLog([]gitLogScenario{
		{
			hash:    "abc123def456",
			author:  "Alice Developer",
			email:   "alice@example.com",
			date:    base,
			message: "Add session detection",
			files: []fileStat{
				{path: "core/session/session.go", additions: 5, deletions: 1},
				{path: "core/core.go", additions: 3},
			},
		},
		{
			hash:    "def456ghi789",
			author:  "Bob Tester",
			email:   "bob@example.com",
			date:    base.Add(time.Hour),
			message: "Fix parser edge case",
			files: []fileStat{
				{path: "core/parser/parser.go", additions: 10, deletions: 4, extraCount: 90},
			},
		},
	})
}
