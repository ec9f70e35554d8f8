package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/huangsam/gitpulse/core/contrib"
	"github.com/huangsam/gitpulse/core/evolution"
	"github.com/huangsam/gitpulse/core/session"
	"github.com/huangsam/gitpulse/schema"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// commitAt builds a commit at epoch+offset where every file gets 5
// additions and 1 deletion.
func commitAt(offset time.Duration, author, message string, files ...string) schema.Commit {
	c := schema.Commit{
		Hash:      fmt.Sprintf("%s-%d", author, offset/time.Minute),
		Author:    author,
		Email:     author + "@example.com",
		Message:   message,
		Timestamp: epoch.Add(offset).UnixMilli(),
	}
	for _, f := range files {
		c.Files = append(c.Files, schema.FileChange{Filename: f, Additions: 5, Deletions: 1, Changes: 6})
		c.Insertions += 5
		c.Deletions++
	}
	return c
}

// buildInput runs the upstream stages the way the pipeline does.
func buildInput(commits []schema.Commit) Input {
	return Input{
		Commits:      commits,
		Sessions:     session.Detect(commits, session.DefaultGap),
		Contributors: contrib.Profile(commits),
		Evolution:    evolution.Track(commits),
	}
}

func evolutionOf(commits []schema.Commit) []schema.FileHistoryEntry {
	return evolution.Track(commits).FileHistory
}

var (
	randomAuthors  = []string{"alice", "bob", "carol", "dave", "erin"}
	randomMessages = []string{
		"feat: add login", "fix crash on start", "refactor parser", "docs: readme",
		"add feature flag beta", "remove flag beta", "speed up query cache", "bump deps",
	}
	randomFiles = []string{
		"README.md", "Dockerfile", "go.mod", "api/handler.go", "api/routes.go",
		"db/query.go", "db/migrations/001.sql", "web/app.ts", "web/components/nav/bar/item.tsx",
		"deploy/k8s.yaml", ".github/workflows/ci.yml", "internal/cache/lru.go", "config/flags.json",
	}
)

// randomCommits generates a reproducible history spread over about a year.
func randomCommits(seed uint64, n int) []schema.Commit {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b9))
	out := make([]schema.Commit, 0, n)
	for i := range n {
		offset := time.Duration(r.Int64N(int64(days(365))))
		nfiles := 1 + r.IntN(6)
		files := make([]string, 0, nfiles)
		for range nfiles {
			files = append(files, randomFiles[r.IntN(len(randomFiles))])
		}
		c := commitAt(offset, randomAuthors[r.IntN(len(randomAuthors))], randomMessages[r.IntN(len(randomMessages))], files...)
		c.Hash = fmt.Sprintf("c%04d", i)
		c.Insertions, c.Deletions = 0, 0
		for j := range c.Files {
			c.Files[j].Additions = r.IntN(200)
			c.Files[j].Deletions = r.IntN(50)
			c.Files[j].Changes = c.Files[j].Additions + c.Files[j].Deletions
			c.Insertions += c.Files[j].Additions
			c.Deletions += c.Files[j].Deletions
		}
		out = append(out, c)
	}
	return out
}
