package schema

import "time"

// AnalysisResult bundles every pipeline stage output for one log.
type AnalysisResult struct {
	AsOf           time.Time            `json:"as_of"`
	Dropped        int                  `json:"dropped"`
	Warnings       []ParseWarning       `json:"warnings"`
	Commits        []Commit             `json:"-"`
	Summary        CommitSummary        `json:"summary"`
	Sessions       []WorkSession        `json:"-"`
	SessionSummary SessionSummary       `json:"session_summary"`
	Contributors   []ContributorProfile `json:"contributors"`
	Collaboration  Collaboration        `json:"collaboration"`
	Evolution      Evolution            `json:"-"`
	ProjectMetrics ProjectMetrics       `json:"project_metrics"`
	Timing         TimingAnalysis       `json:"timing"`
	Scaling        ScalingReport        `json:"scaling"`
	Debt           DebtReport           `json:"debt"`
	Velocity       VelocityReport       `json:"velocity"`
	Transition     TransitionReport     `json:"transition"`
}

// Report returns the shared score report of an engine.
func (r *AnalysisResult) Report(engine EngineName) (ScoreReport, bool) {
	switch engine {
	case ScalingEngine:
		return r.Scaling.ScoreReport, true
	case DebtEngine:
		return r.Debt.ScoreReport, true
	case VelocityEngine:
		return r.Velocity.ScoreReport, true
	case TransitionEngine:
		return r.Transition.ScoreReport, true
	default:
		return ScoreReport{}, false
	}
}

// EngineReport returns the full typed report of an engine.
func (r *AnalysisResult) EngineReport(engine EngineName) any {
	switch engine {
	case ScalingEngine:
		return r.Scaling
	case DebtEngine:
		return r.Debt
	case VelocityEngine:
		return r.Velocity
	case TransitionEngine:
		return r.Transition
	default:
		return nil
	}
}
