package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iocache"
	"github.com/huangsam/gitpulse/internal/registry"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	store    contract.ProgressStore
	registry *registry.Registry
}

// jsonResult encodes v as an indented text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// analyze runs the pipeline over the log named by the request.
func (h *toolHandler) analyze(ctx context.Context, request mcp.CallToolRequest) (*schema.AnalysisResult, *contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return nil, nil, fmt.Errorf("limit cannot exceed %d", contract.MaxResultLimit)
		}
		cfg.ResultLimit = l
	}
	if gap := request.GetInt("session_gap", 0); gap != 0 {
		if gap < 1 || gap > contract.MaxSessionGapMinutes {
			return nil, nil, fmt.Errorf("session_gap must be between 1 and %d minutes", contract.MaxSessionGapMinutes)
		}
		cfg.SessionGap = time.Duration(gap) * time.Minute
	}

	var result *schema.AnalysisResult
	var err error
	if text := request.GetString("log_text", ""); text != "" {
		result, err = core.Analyze(ctx, text, core.OptionsFromConfig(cfg))
	} else {
		path := request.GetString("log_path", "")
		if path == "" || path == core.StdinPath {
			return nil, nil, errors.New("log_path or log_text is required")
		}
		cfg.InputPath = path
		result, err = core.RunAnalysis(ctx, cfg)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}
	h.markExplored()
	return result, cfg, nil
}

func (h *toolHandler) markExplored() {
	if h.store == nil {
		return
	}
	if err := iocache.MarkToolExplored(h.store, iocache.ToolGitAnalytics); err != nil {
		contract.LogWarn("Failed to record tool progress", err)
	}
}

func (h *toolHandler) handleAnalyzeLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _, err := h.analyze(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	composites := make(map[schema.EngineName]float64, len(schema.AllEngines))
	for _, engine := range schema.AllEngines {
		report, _ := result.Report(engine)
		composites[engine] = report.Composite
	}
	return jsonResult(struct {
		AsOf            time.Time                     `json:"as_of"`
		Dropped         int                           `json:"dropped"`
		Warnings        []schema.ParseWarning         `json:"warnings"`
		Summary         schema.CommitSummary          `json:"summary"`
		ProjectMetrics  schema.ProjectMetrics         `json:"project_metrics"`
		SessionSummary  schema.SessionSummary         `json:"session_summary"`
		Composites      map[schema.EngineName]float64 `json:"composites"`
		TransitionPhase string                        `json:"transition_phase"`
	}{
		result.AsOf, result.Dropped, result.Warnings, result.Summary, result.ProjectMetrics,
		result.SessionSummary, composites, result.Transition.Phase,
	})
}

func (h *toolHandler) handleGetSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, cfg, err := h.analyze(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	top := algo.TopN(result.Sessions, cfg.ResultLimit, func(s schema.WorkSession) float64 {
		return s.EstimatedHours
	})
	return jsonResult(struct {
		Summary  schema.SessionSummary `json:"summary"`
		Sessions []schema.WorkSession  `json:"sessions"`
	}{result.SessionSummary, top})
}

func (h *toolHandler) handleGetContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, cfg, err := h.analyze(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	top := algo.TopN(result.Contributors, cfg.ResultLimit, func(p schema.ContributorProfile) float64 {
		return float64(p.TotalCommits)
	})
	pairs := result.Collaboration.Pairs
	if cfg.ResultLimit > 0 && len(pairs) > cfg.ResultLimit {
		pairs = pairs[:cfg.ResultLimit]
	}
	return jsonResult(struct {
		Contributors     []schema.ContributorProfile `json:"contributors"`
		Pairs            []schema.CollaborationPair  `json:"collaboration_pairs"`
		TotalSharedFiles int                         `json:"total_shared_files"`
	}{top, pairs, result.Collaboration.TotalSharedFiles})
}

func (h *toolHandler) handleGetEvolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, cfg, err := h.analyze(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	evo := result.Evolution
	hotspots := algo.RankHotspots(evo.Hotspots, cfg.ResultLimit)
	return jsonResult(struct {
		TotalFilesEverTouched int                       `json:"total_files_ever_touched"`
		ProjectAgeDays        float64                   `json:"project_age_days"`
		Hotspots              []schema.FileHistoryEntry `json:"hotspots"`
		Timeline              []schema.PhasePoint       `json:"timeline"`
		FileExtensions        []schema.ExtensionCount   `json:"file_extensions"`
	}{evo.TotalFilesEverTouched, algo.Days(evo.ProjectAge), hotspots, evo.Timeline, evo.FileExtensions})
}

func (h *toolHandler) handleGetScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine := request.GetString("engine", "all")
	engines := schema.AllEngines
	if engine != "all" {
		if _, ok := schema.ValidEngines[schema.EngineName(engine)]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown engine %q", engine)), nil
		}
		engines = []schema.EngineName{schema.EngineName(engine)}
	}

	result, _, err := h.analyze(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reports := make(map[schema.EngineName]any, len(engines))
	for _, e := range engines {
		reports[e] = result.EngineReport(e)
	}
	return jsonResult(reports)
}

func (h *toolHandler) handleGetSkill(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.registry == nil {
		return mcp.NewToolResultError("skill registry is not available"), nil
	}
	id := request.GetString("id", "")
	if id == "" {
		entries, err := h.registry.List()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(entries)
	}
	skill, err := h.registry.Get(id)
	if errors.Is(err, registry.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("404 not found: skill '%s'", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(skill.Content), nil
}

func (h *toolHandler) handleGetProgress(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("progress store is not available"), nil
	}
	summary, err := iocache.Summary(h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read progress: %v", err)), nil
	}
	return jsonResult(summary)
}

func (h *toolHandler) handleSetProgress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("progress store is not available"), nil
	}
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	var err error
	switch kind := request.GetString("kind", ""); kind {
	case "chapter":
		err = iocache.MarkChapterComplete(h.store, id)
	case "tool":
		err = iocache.MarkToolExplored(h.store, id)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("kind must be chapter or tool, got %q", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save progress: %v", err)), nil
	}
	return h.handleGetProgress(context.Background(), request)
}
