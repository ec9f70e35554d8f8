//go:build integration

// Package integration contains integration tests for gitpulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statsOutput mirrors the JSON of `stats`.
type statsOutput struct {
	Summary schema.CommitSummary `json:"summary"`
	Dropped int                  `json:"dropped"`
}

// gitOutput runs git in repoDir and returns its stdout.
func gitOutput(t *testing.T, repoDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	require.NoError(t, err, "git %v", args)
	return string(out)
}

// verifyRepo checks gitpulse stats against git's own counts for a repo.
func verifyRepo(t *testing.T, repoDir string) {
	log := gitOutput(t, repoDir, "log", "--stat", "--no-merges")
	if strings.TrimSpace(log) == "" {
		t.Skip("repository has no history")
	}

	out, err := runGitpulse(t, log, "stats", "--output", "json", "--progress-backend", "none")
	require.NoError(t, err)
	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))

	hashes := strings.Fields(gitOutput(t, repoDir, "log", "--no-merges", "--format=%H"))
	assert.Zero(t, stats.Dropped)
	assert.Equal(t, len(hashes), stats.Summary.TotalCommits, "commit count mismatch")

	authors := map[string]struct{}{}
	for _, name := range strings.Split(strings.TrimSpace(gitOutput(t, repoDir, "log", "--no-merges", "--format=%aN")), "\n") {
		authors[name] = struct{}{}
	}
	expected := make([]string, 0, len(authors))
	for name := range authors {
		expected = append(expected, name)
	}
	actual := append([]string(nil), stats.Summary.Contributors...)
	sort.Strings(expected)
	sort.Strings(actual)
	assert.Equal(t, expected, actual, "contributor mismatch")
}

// TestStatsVerification runs gitpulse over this repository's own history.
func TestStatsVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repoPath, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		t.Skip("not inside a git repository")
	}
	verifyRepo(t, strings.TrimSpace(string(repoPath)))
}

// TestExternalRepoVerification clones a small public repo and runs verification
func TestExternalRepoVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	testRepoDir := filepath.Join(t.TempDir(), "go-homedir")
	cloneCmd := exec.Command("git", "clone", "--quiet", "https://github.com/mitchellh/go-homedir", testRepoDir)
	if err := cloneCmd.Run(); err != nil {
		t.Skipf("failed to clone test repo: %v", err)
	}
	verifyRepo(t, testRepoDir)
}

// TestCLIViews smoke-tests every analysis command over the sample transcript.
func TestCLIViews(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0o600))

	for _, args := range [][]string{
		{"stats", logPath},
		{"sessions", logPath},
		{"contributors", logPath},
		{"collab", logPath},
		{"evolution", logPath},
		{"timing", logPath},
		{"score", logPath},
		{"score", "debt", logPath},
		{"report", logPath, "--output", "json"},
		{"sessions", logPath, "--output", "csv"},
		{"skills", "list"},
		{"skills", "get", "work-sessions"},
		{"version"},
	} {
		t.Run(strings.Join(args[:1], " "), func(t *testing.T) {
			out, err := runGitpulse(t, "", append(args, "--progress-backend", "none")...)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	_, err := runGitpulse(t, "", "skills", "get", "missing", "--progress-backend", "none")
	assert.Error(t, err)

	exportDir := filepath.Join(t.TempDir(), "out")
	_, err = runGitpulse(t, sampleLog, "export", exportDir, "--progress-backend", "none")
	require.NoError(t, err)
	files, err := filepath.Glob(filepath.Join(exportDir, "*.parquet"))
	require.NoError(t, err)
	assert.Len(t, files, 5)
}
