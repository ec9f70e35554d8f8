// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerVersion is reported to MCP clients.
const ServerVersion = "1.0.0"

var engineEnum = []string{"all", "scaling", "debt", "velocity", "transition"}

func logSourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("log_path", mcp.Description("Path to a `git log --stat` transcript.")),
		mcp.WithString("log_text", mcp.Description("The transcript itself, used when log_path is not given.")),
	}
}

func withLimit() mcp.ToolOption {
	return mcp.WithNumber("limit", mcp.Description("Limit the number of results returned."))
}

// NewMCPServer initializes and configures the gitpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.ProgressStore, reg *registry.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		"gitpulse Analysis Server",
		ServerVersion,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		store:    store,
		registry: reg,
	}

	s.AddTool(mcp.NewTool("analyze_log",
		append([]mcp.ToolOption{
			mcp.WithDescription("Parse a git log and return commit totals, project metrics and every engine composite."),
		}, logSourceOptions()...)...,
	), h.handleAnalyzeLog)

	s.AddTool(mcp.NewTool("get_sessions",
		append([]mcp.ToolOption{
			mcp.WithDescription("Segment commits into work sessions and return the longest ones with a summary."),
			mcp.WithNumber("session_gap", mcp.Description("Maximum minutes between commits of one session. Defaults to 120.")),
			withLimit(),
		}, logSourceOptions()...)...,
	), h.handleGetSessions)

	s.AddTool(mcp.NewTool("get_contributors",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return contributor profiles, busiest first, plus the collaboration pairs."),
			withLimit(),
		}, logSourceOptions()...)...,
	), h.handleGetContributors)

	s.AddTool(mcp.NewTool("get_evolution",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return hotspots, the phase timeline and the file extension histogram."),
			withLimit(),
		}, logSourceOptions()...)...,
	), h.handleGetEvolution)

	s.AddTool(mcp.NewTool("get_scores",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return the full report of one metric engine, or of all of them."),
			mcp.WithString("engine", mcp.Description("Engine to report. Defaults to 'all'."), mcp.Enum(engineEnum...)),
		}, logSourceOptions()...)...,
	), h.handleGetScores)

	s.AddTool(mcp.NewTool("get_skill",
		mcp.WithDescription("Return a skill document from the registry, or the registry index when no id is given."),
		mcp.WithString("id", mcp.Description("Skill id, for example 'git-log-analysis'.")),
	), h.handleGetSkill)

	s.AddTool(mcp.NewTool("get_progress",
		mcp.WithDescription("Return which chapters are complete and which tools were explored."),
	), h.handleGetProgress)

	s.AddTool(mcp.NewTool("set_progress",
		mcp.WithDescription("Mark a chapter complete or a tool explored."),
		mcp.WithString("kind", mcp.Description("What to mark."), mcp.Enum("chapter", "tool"), mcp.Required()),
		mcp.WithString("id", mcp.Description("Chapter or tool id."), mcp.Required()),
	), h.handleSetProgress)

	return s
}

// StartMCPServer starts the gitpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.ProgressStore, reg *registry.Registry) error {
	s := NewMCPServer(baseCfg, store, reg)
	return server.ServeStdio(s)
}
