package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iocache"
	mcp_internal "github.com/huangsam/gitpulse/internal/mcp"
	"github.com/huangsam/gitpulse/internal/registry"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `commit aaa111
Author: Alice <alice@example.com>
Date:   Mon Jan 1 10:00:00 2024 -0500

    feat: add parser

 core/parser.go | 5 +++++
 1 file changed, 5 insertions(+)

commit bbb222
Author: Bob <bob@example.com>
Date:   Mon Jan 1 11:00:00 2024 -0500

    fix parser edge case

 core/parser.go | 3 ++-
 README.md      | 2 ++
 2 files changed, 4 insertions(+), 1 deletion(-)

commit ccc333
Author: Alice <alice@example.com>
Date:   Tue Jan 2 09:30:00 2024 -0500

    refactor cli

 cmd/root.go | 10 +++++-----
 1 file changed, 5 insertions(+), 5 deletions(-)
`

type fixture struct {
	server *server.MCPServer
	store  *iocache.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	baseCfg := &contract.Config{
		ResultLimit: contract.DefaultResultLimit,
		SessionGap:  contract.DefaultSessionGapMinutes * time.Minute,
		Workers:     2,
		Clock:       contract.FixedClock{T: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	reg := registry.New(fstest.MapFS{
		"registry.json":  {Data: []byte(`[{"id":"alpha","name":"Alpha","description":"First"}]`)},
		"alpha/SKILL.md": {Data: []byte("---\nname: Alpha\n---\n# Alpha\n")},
	})
	store := iocache.NewMemoryStore()
	return fixture{server: mcp_internal.NewMCPServer(baseCfg, store, reg), store: store}
}

func (f fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := f.server.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
	}{
		{"missing log source", "analyze_log", map[string]any{}, "log_path or log_text is required"},
		{"stdin is not allowed", "get_sessions", map[string]any{"log_path": "-"}, "log_path or log_text is required"},
		{"missing file", "get_contributors", map[string]any{"log_path": "/does/not/exist.log"}, "failed to open git log"},
		{"invalid engine", "get_scores", map[string]any{"log_text": sampleLog, "engine": "speed"}, `unknown engine "speed"`},
		{"limit too large", "get_evolution", map[string]any{"log_text": sampleLog, "limit": 5000.0}, "limit cannot exceed"},
		{"session gap out of range", "get_sessions", map[string]any{"log_text": sampleLog, "session_gap": -5.0}, "session_gap must be between"},
		{"missing skill", "get_skill", map[string]any{"id": "ghost"}, "404 not found"},
		{"invalid skill id", "get_skill", map[string]any{"id": "../etc"}, "invalid skill id"},
		{"missing progress id", "set_progress", map[string]any{"kind": "chapter"}, "id is required"},
		{"invalid progress kind", "set_progress", map[string]any{"kind": "quiz", "id": "1"}, "kind must be chapter or tool"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.call(t, tc.tool, tc.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tc.expected)
		})
	}
}

func TestMCPServerHandlers_AnalyzeLog(t *testing.T) {
	f := newFixture(t)
	res := f.call(t, "analyze_log", map[string]any{"log_text": sampleLog})
	require.False(t, res.IsError, text(res))

	var payload struct {
		Summary         schema.CommitSummary          `json:"summary"`
		Composites      map[schema.EngineName]float64 `json:"composites"`
		TransitionPhase string                        `json:"transition_phase"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	assert.Equal(t, 3, payload.Summary.TotalCommits)
	assert.Len(t, payload.Composites, len(schema.AllEngines))
	assert.NotEmpty(t, payload.TransitionPhase)

	has, err := f.store.Has(iocache.ToolKey(iocache.ToolGitAnalytics))
	require.NoError(t, err)
	assert.True(t, has, "a successful analysis marks the tool explored")
}

func TestMCPServerHandlers_LogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o600))

	f := newFixture(t)
	res := f.call(t, "get_contributors", map[string]any{"log_path": path, "limit": 1.0})
	require.False(t, res.IsError, text(res))

	var payload struct {
		Contributors []schema.ContributorProfile `json:"contributors"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	require.Len(t, payload.Contributors, 1)
	assert.Equal(t, "Alice", payload.Contributors[0].Name)
}

func TestMCPServerHandlers_Sessions(t *testing.T) {
	f := newFixture(t)

	res := f.call(t, "get_sessions", map[string]any{"log_text": sampleLog})
	require.False(t, res.IsError, text(res))
	var payload struct {
		Sessions []schema.WorkSession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	assert.Len(t, payload.Sessions, 2, "the overnight gap splits the log in two")

	res = f.call(t, "get_sessions", map[string]any{"log_text": sampleLog, "session_gap": float64(2 * 24 * 60)})
	require.False(t, res.IsError, text(res))
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	assert.Len(t, payload.Sessions, 1)
}

func TestMCPServerHandlers_Scores(t *testing.T) {
	f := newFixture(t)

	res := f.call(t, "get_scores", map[string]any{"log_text": sampleLog, "engine": "debt"})
	require.False(t, res.IsError, text(res))
	var one map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(text(res)), &one))
	assert.Len(t, one, 1)
	assert.Contains(t, one, "debt")

	res = f.call(t, "get_scores", map[string]any{"log_text": sampleLog})
	require.False(t, res.IsError, text(res))
	var all map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(text(res)), &all))
	assert.Len(t, all, len(schema.AllEngines))
}

func TestMCPServerHandlers_Evolution(t *testing.T) {
	f := newFixture(t)
	res := f.call(t, "get_evolution", map[string]any{"log_text": sampleLog, "limit": 1.0})
	require.False(t, res.IsError, text(res))

	var payload struct {
		TotalFilesEverTouched int                       `json:"total_files_ever_touched"`
		Hotspots              []schema.FileHistoryEntry `json:"hotspots"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &payload))
	assert.Equal(t, 3, payload.TotalFilesEverTouched)
	require.Len(t, payload.Hotspots, 1)
	assert.Equal(t, "core/parser.go", payload.Hotspots[0].Filename)
}

func TestMCPServerHandlers_Skills(t *testing.T) {
	f := newFixture(t)

	res := f.call(t, "get_skill", map[string]any{})
	require.False(t, res.IsError, text(res))
	var entries []schema.SkillEntry
	require.NoError(t, json.Unmarshal([]byte(text(res)), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].ID)

	res = f.call(t, "get_skill", map[string]any{"id": "alpha"})
	require.False(t, res.IsError, text(res))
	assert.Equal(t, "---\nname: Alpha\n---\n# Alpha\n", text(res))
}

func TestMCPServerHandlers_Progress(t *testing.T) {
	f := newFixture(t)

	res := f.call(t, "set_progress", map[string]any{"kind": "chapter", "id": "1"})
	require.False(t, res.IsError, text(res))
	res = f.call(t, "set_progress", map[string]any{"kind": "tool", "id": iocache.ToolDiagrams})
	require.False(t, res.IsError, text(res))

	res = f.call(t, "get_progress", map[string]any{})
	require.False(t, res.IsError, text(res))
	var summary schema.ProgressSummary
	require.NoError(t, json.Unmarshal([]byte(text(res)), &summary))
	assert.Equal(t, []string{"1"}, summary.CompletedChapters)
	assert.Equal(t, []string{iocache.ToolDiagrams}, summary.ExploredTools)
	assert.Equal(t, 25.0, summary.PercentComplete)
}

func TestMCPServerHandlers_NoStore(t *testing.T) {
	s := mcp_internal.NewMCPServer(&contract.Config{}, nil, nil)
	for _, name := range []string{"get_progress", "get_skill"} {
		tool := s.GetTool(name)
		require.NotNil(t, tool)
		res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		assert.True(t, res.IsError, name)
		assert.Contains(t, text(res), "not available")
	}
}
