package outwriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// WriteScores prints the composite and sub-scores of the selected engines.
func WriteScores(result *schema.AnalysisResult, engines []schema.EngineName, cfg *contract.Config, duration time.Duration) error {
	return emit(scoresView(result, engines, cfg, duration), cfg)
}

// WriteReport prints every analysis and every engine in one document.
func WriteReport(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return emit(reportView(result, cfg, duration), cfg)
}

// scoreLabel labels a composite. Debt grows with pressure, the others with health.
func scoreLabel(engine schema.EngineName, score float64, label func(float64) string) string {
	if engine == schema.DebtEngine {
		return label(score)
	}
	return label(100 - score)
}

func scoresView(result *schema.AnalysisResult, engines []schema.EngineName, cfg *contract.Config, duration time.Duration) view {
	fmtFloat, _ := createFormatters(cfg.Precision)
	label := labeler(useColors(cfg))

	var scoreRows, recRows [][]string
	var notes []string
	reports := make(map[schema.EngineName]any, len(engines))
	for _, engine := range engines {
		report, ok := result.Report(engine)
		if !ok {
			continue
		}
		reports[engine] = result.EngineReport(engine)

		scoreRows = append(scoreRows, []string{
			string(engine), "composite", fmtFloat(report.Composite), "", scoreLabel(engine, report.Composite, label),
		})
		for _, key := range schema.SubScoreKeys(engine) {
			scoreRows = append(scoreRows, []string{
				string(engine), string(key), fmtFloat(report.SubScores[key]), fmtFloat(report.Weights[key]), "",
			})
		}
		for _, rec := range report.Recommendations {
			recRows = append(recRows, []string{string(engine), severityText(rec.Severity, label), rec.Category, rec.Title, rec.Action})
		}
		notes = append(notes, engineHighlights(result, engine, fmtFloat)...)
	}

	return view{
		kind: "scores",
		json: reports,
		sections: []section{
			{
				title:  "Scores",
				header: []string{"engine", "metric", "value", "weight", "label"},
				rows:   scoreRows,
				notes:  notes,
			},
			{
				title:  "Recommendations",
				header: []string{"engine", "severity", "category", "title", "action"},
				rows:   recRows,
			},
		},
		footer: footerLine(cfg, duration),
	}
}

// severityText maps a severity onto the shared label scale.
func severityText(severity schema.Severity, label func(float64) string) string {
	switch severity {
	case schema.SeverityCritical:
		return label(80)
	case schema.SeverityHigh:
		return label(60)
	case schema.SeverityMedium:
		return label(40)
	default:
		return label(0)
	}
}

// engineHighlights are the one-line findings shown under the score table.
func engineHighlights(result *schema.AnalysisResult, engine schema.EngineName, fmtFloat func(float64) string) []string {
	switch engine {
	case schema.ScalingEngine:
		r := result.Scaling.Release
		line := "scaling: release cadence " + r.Status
		if r.Status != schema.InsufficientData {
			line += fmt.Sprintf(", every %s days (%s)", fmtFloat(r.AverageDaysBetweenReleases), r.FrequencyHealth)
		}
		return []string{line, "scaling: decomposition " + result.Scaling.Decomposition.Health}
	case schema.DebtEngine:
		h := result.Debt.Hotspots
		line := fmt.Sprintf("debt: %s%% of changes land in %d files", fmtFloat(h.ConcentrationRatio), h.TopFileCount)
		if len(h.TopFiles) > 0 {
			line += " (" + strings.Join(h.TopFiles, ", ") + ")"
		}
		return []string{line}
	case schema.VelocityEngine:
		ks := result.Velocity.KnowledgeSilos
		return []string{fmt.Sprintf("velocity: bus factor %s across %d critical files", ks.OverallBusFactor, ks.CriticalFiles)}
	case schema.TransitionEngine:
		t := result.Transition
		return []string{
			"transition: phase " + t.Phase,
			fmt.Sprintf("transition: maturity %s (%s, %s)", fmtFloat(t.Maturity.MaturityScore), t.Maturity.DevelopmentPhase, t.Maturity.ScalingReadiness),
		}
	default:
		return nil
	}
}

func reportView(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) view {
	parts := []view{
		statsView(result, cfg, duration),
		scoresView(result, schema.AllEngines, cfg, duration),
		contributorsView(result, cfg, duration),
		sessionsView(result, cfg, duration),
		collaborationView(result, cfg, duration),
		evolutionView(result, cfg, duration),
		timingView(result, cfg, duration),
	}
	var sections []section
	for _, p := range parts {
		sections = append(sections, p.sections...)
	}

	// Evolution is hidden from the result's own encoding, so the report adds it back.
	return view{
		kind: "report",
		json: struct {
			*schema.AnalysisResult
			Evolution schema.Evolution `json:"evolution"`
		}{result, result.Evolution},
		sections: sections,
		footer:   footerLine(cfg, duration),
	}
}
