package schema

// Recommendation is the output of one threshold rule.
type Recommendation struct {
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}

// ScoreReport is the part every engine report shares. It is a write-once snapshot.
type ScoreReport struct {
	Engine          EngineName              `json:"engine"`
	SubScores       map[SubScoreKey]float64 `json:"sub_scores"`
	Weights         map[SubScoreKey]float64 `json:"weights"`
	Composite       float64                 `json:"composite"`
	Recommendations []Recommendation        `json:"recommendations"`
}

// ModuleStat aggregates the files of one module.
type ModuleStat struct {
	Module        string `json:"module"`
	Files         int    `json:"files"`
	Modifications int    `json:"modifications"`
}

// TagCount counts commits that matched a classifier tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// --- Scaling readiness ---

// ContentionFile is a shared file ranked by coordination cost.
type ContentionFile struct {
	Filename         string  `json:"filename"`
	Authors          int     `json:"authors"`
	Modifications    int     `json:"modifications"`
	CoordinationCost float64 `json:"coordination_cost"`
	ContentionLevel  string  `json:"contention_level"`
}

// CoordinationOverhead estimates the communication cost of shared files.
type CoordinationOverhead struct {
	SharedFiles           int              `json:"shared_files"`
	HighContentionFiles   int              `json:"high_contention_files"`
	SharedFileRatio       float64          `json:"shared_file_ratio"`
	HighContentionRatio   float64          `json:"high_contention_ratio"`
	TotalCoordinationCost float64          `json:"total_coordination_cost"`
	OverheadScore         float64          `json:"overhead_score"`
	TopContentionFiles    []ContentionFile `json:"top_contention_files"`
}

// TimeSlice is one fixed-duration window of commits.
type TimeSlice struct {
	Start        int64 `json:"start"`
	End          int64 `json:"end"`
	Commits      int   `json:"commits"`
	Contributors int   `json:"contributors"`
}

// ReleasePoint is a session that starts after a long pause.
type ReleasePoint struct {
	Sequence     int     `json:"sequence"`
	Date         int64   `json:"date"`
	GapDays      float64 `json:"gap_days"`
	IntervalDays float64 `json:"interval_days"` // Since the previous release point
}

// ReleaseFrequency describes how regularly work ships.
type ReleaseFrequency struct {
	Status                     string         `json:"status"`
	AverageDaysBetweenReleases float64        `json:"average_days_between_releases"`
	VelocityTrend              float64        `json:"velocity_trend"`
	FrequencyHealth            string         `json:"frequency_health"`
	ReleasePoints              []ReleasePoint `json:"release_points"`
	TimeSlices                 []TimeSlice    `json:"time_slices"`
}

// CriticalPath is a frequently modified file and how risky it is to change.
type CriticalPath struct {
	Filename       string  `json:"filename"`
	Module         string  `json:"module"`
	Modifications  int     `json:"modifications"`
	Authors        int     `json:"authors"`
	RecentActivity int     `json:"recent_activity"`
	Criticality    float64 `json:"criticality"`
}

// FileAdvice is a refactoring suggestion for one high-risk file.
type FileAdvice struct {
	Filename       string   `json:"filename"`
	Risk           Severity `json:"risk"`
	Recommendation string   `json:"recommendation"`
}

// CriticalPathAnalysis summarizes the critical files of a project.
type CriticalPathAnalysis struct {
	CriticalFiles int            `json:"critical_files"`
	HighRiskFiles int            `json:"high_risk_files"`
	RiskScore     float64        `json:"risk_score"`
	Paths         []CriticalPath `json:"paths"`
	Advice        []FileAdvice   `json:"advice"`
}

// DecompositionProgress measures how far the code is split into modules.
type DecompositionProgress struct {
	ModuleBoundaries      int          `json:"module_boundaries"`
	AverageFilesPerModule float64      `json:"average_files_per_module"`
	CouplingScore         float64      `json:"coupling_score"`
	CouplingTrend         float64      `json:"coupling_trend"`
	ProgressScore         float64      `json:"progress_score"`
	Health                string       `json:"health"`
	Modules               []ModuleStat `json:"modules"`
}

// ScalingReport is the scaling readiness engine output.
type ScalingReport struct {
	ScoreReport
	Coordination  CoordinationOverhead  `json:"coordination_overhead"`
	Release       ReleaseFrequency      `json:"release_frequency"`
	CriticalPaths CriticalPathAnalysis  `json:"critical_paths"`
	Decomposition DecompositionProgress `json:"decomposition"`
}

// --- Technical debt ---

// HotspotConcentration is the share of the hotspot changes landing in the busiest tenth of files.
type HotspotConcentration struct {
	TotalFiles         int      `json:"total_files"`
	TopFileCount       int      `json:"top_file_count"`
	TopFileChanges     int      `json:"top_file_changes"`
	TotalChanges       int      `json:"total_changes"`
	ConcentrationRatio float64  `json:"concentration_ratio"`
	TopFiles           []string `json:"top_files"`
}

// ChurnFile is a file ranked by modifications per day of life.
type ChurnFile struct {
	Filename      string  `json:"filename"`
	ChurnRate     float64 `json:"churn_rate"`
	Modifications int     `json:"modifications"`
	LifespanDays  float64 `json:"lifespan_days"`
}

// ChurnAnalysis summarizes churn across all files.
type ChurnAnalysis struct {
	AverageChurnRate float64     `json:"average_churn_rate"`
	HighChurnFiles   int         `json:"high_churn_files"`
	TopChurnFiles    []ChurnFile `json:"top_churn_files"`
}

// CommitPatterns splits commits by classified kind.
type CommitPatterns struct {
	Total         int     `json:"total"`
	Feature       int     `json:"feature"`
	Refactor      int     `json:"refactor"`
	Bugfix        int     `json:"bugfix"`
	Other         int     `json:"other"`
	FeatureRatio  float64 `json:"feature_ratio"`
	RefactorRatio float64 `json:"refactor_ratio"`
	BugfixRatio   float64 `json:"bugfix_ratio"`
}

// ArchitectureAnalysis counts changes to deep, crowded, busy files.
type ArchitectureAnalysis struct {
	Violations         int          `json:"violations"`
	TotalModifications int          `json:"total_modifications"`
	ViolationScore     float64      `json:"violation_score"`
	ViolatingFiles     []string     `json:"violating_files"`
	ModuleDistribution []ModuleStat `json:"module_distribution"`
}

// DebtReport is the technical debt engine output. A lower composite is better.
type DebtReport struct {
	ScoreReport
	Hotspots     HotspotConcentration `json:"hotspot_concentration"`
	Churn        ChurnAnalysis        `json:"churn"`
	Patterns     CommitPatterns       `json:"commit_patterns"`
	Architecture ArchitectureAnalysis `json:"architecture"`
}

// --- Velocity health ---

// SessionSwitch is the context-switching cost of one session.
type SessionSwitch struct {
	SessionID int     `json:"session_id"`
	Author    string  `json:"author"`
	Modules   int     `json:"modules"`
	Files     int     `json:"files"`
	Penalty   float64 `json:"penalty"`
}

// ContextSwitching summarizes switching cost over all sessions.
type ContextSwitching struct {
	TotalSessions         int             `json:"total_sessions"`
	ContextSwitches       int             `json:"context_switches"`
	HighSwitchingSessions int             `json:"high_switching_sessions"`
	AveragePenalty        float64         `json:"average_penalty"`
	PenaltyScore          float64         `json:"penalty_score"`
	SwitchingRatio        float64         `json:"switching_ratio"`
	TopSessions           []SessionSwitch `json:"top_sessions"`

	ModuleFragmentation []ModuleFragmentation `json:"module_fragmentation"`
}

// ModuleFragmentation counts the sessions that touched one module.
type ModuleFragmentation struct {
	Module              string  `json:"module"`
	Sessions            int     `json:"sessions"`
	AverageSessionHours float64 `json:"average_session_hours"`
	Fragmentation       string  `json:"fragmentation"` // low, medium or high
}

// SiloFile is a critical file known by few authors.
type SiloFile struct {
	Filename      string `json:"filename"`
	Authors       int    `json:"authors"`
	BusFactor     int    `json:"bus_factor"`
	Modifications int    `json:"modifications"`
	RiskLevel     string `json:"risk_level"`
}

// KnowledgeExpert is a contributor who holds knowledge few others share.
type KnowledgeExpert struct {
	Name           string  `json:"name"`
	ExpertiseFiles int     `json:"expertise_files"`
	Commits        int     `json:"commits"`
	Score          float64 `json:"score"`
}

// KnowledgeSilos summarizes bus-factor risk.
type KnowledgeSilos struct {
	CriticalFiles    int               `json:"critical_files"`
	SiloFiles        int               `json:"silo_files"`
	SiloRatio        float64           `json:"silo_ratio"`
	RiskScore        float64           `json:"risk_score"`
	AverageBusFactor float64           `json:"average_bus_factor"`
	OverallBusFactor string            `json:"overall_bus_factor"`
	TopSilos         []SiloFile        `json:"top_silos"`
	Experts          []KnowledgeExpert `json:"experts"`
}

// RampUp is the onboarding time of one contributor.
type RampUp struct {
	Name             string  `json:"name"`
	FirstCommit      int64   `json:"first_commit"`
	ProductiveCommit int64   `json:"productive_commit"`
	RampUpDays       float64 `json:"ramp_up_days"`
	Complexity       float64 `json:"complexity"`
}

// Onboarding summarizes how long contributors take to become productive.
type Onboarding struct {
	EligibleContributors int      `json:"eligible_contributors"`
	RampUps              []RampUp `json:"ramp_ups"`
	AverageRampUpDays    float64  `json:"average_ramp_up_days"`
	SlowRampUps          int      `json:"slow_ramp_ups"`
	ComplexityScore      float64  `json:"complexity_score"`

	ComplexityFactors []ComplexityFactor `json:"complexity_factors"`
}

// ComplexityFactor names something that makes onboarding slow.
type ComplexityFactor struct {
	Factor      string   `json:"factor"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// VelocityReport is the velocity health engine output.
type VelocityReport struct {
	ScoreReport
	ContextSwitching ContextSwitching `json:"context_switching"`
	KnowledgeSilos   KnowledgeSilos   `json:"knowledge_silos"`
	Onboarding       Onboarding       `json:"onboarding"`
}

// --- MVP-scale transition ---

// CouplingWindow is the co-change density of one 30-day window.
type CouplingWindow struct {
	Start int64   `json:"start"`
	Files int     `json:"files"`
	Pairs int     `json:"pairs"`
	Ratio float64 `json:"ratio"`
}

// CouplingEvolution tracks co-change density over time.
type CouplingEvolution struct {
	Windows             []CouplingWindow `json:"windows"`
	RecentAverage       float64          `json:"recent_average"`
	EarlierAverage      float64          `json:"earlier_average"`
	TrendDirection      float64          `json:"trend_direction"`
	CouplingScore       float64          `json:"coupling_score"`
	Phase               string           `json:"phase"`
	ComponentBoundaries []ModuleStat     `json:"component_boundaries"`
}

// PerformanceDebt tracks performance-related work.
type PerformanceDebt struct {
	PerformanceFiles   int        `json:"performance_files"`
	PerformanceCommits int        `json:"performance_commits"`
	PerformanceRatio   float64    `json:"performance_ratio"`
	HotspotFiles       []string   `json:"hotspot_files"`
	DebtScore          float64    `json:"debt_score"`
	Trend              string     `json:"trend"`
	Rate               float64    `json:"rate"` // Performance commits per 30-day window
	Patterns           []TagCount `json:"patterns"`
}

// FeatureFlagDebt tracks flags that were introduced but never removed.
type FeatureFlagDebt struct {
	FlagCommits          int      `json:"flag_commits"`
	Introductions        int      `json:"introductions"`
	Removals             int      `json:"removals"`
	DebtRatio            float64  `json:"debt_ratio"`
	DebtScore            float64  `json:"debt_score"`
	Trend                string   `json:"trend"`
	RecentActivity       []string `json:"recent_activity"`
	CleanupOpportunities []string `json:"cleanup_opportunities"`
}

// InfrastructureDrift tracks how often infrastructure files change.
type InfrastructureDrift struct {
	InfraFiles     int        `json:"infra_files"`
	InfraCommits   int        `json:"infra_commits"`
	ChangesPerWeek float64    `json:"changes_per_week"`
	ConfigDrift    float64    `json:"config_drift"`
	DriftScore     float64    `json:"drift_score"`
	Patterns       []TagCount `json:"patterns"`
}

// MaturityIndicators are the four inputs of the maturity score.
type MaturityIndicators struct {
	Stability       float64 `json:"stability"`
	TeamGrowth      float64 `json:"team_growth"`
	DevelopmentPace float64 `json:"development_pace"`
	CodebaseSize    float64 `json:"codebase_size"`
}

// MVPMaturity assesses how far past the MVP a project is.
type MVPMaturity struct {
	CodebaseSize       int                `json:"codebase_size"`
	DevelopmentDays    float64            `json:"development_days"`
	TeamSize           int                `json:"team_size"`
	FeatureCommits     int                `json:"feature_commits"`
	MaintenanceCommits int                `json:"maintenance_commits"`
	MaintenanceRatio   float64            `json:"maintenance_ratio"`
	Indicators         MaturityIndicators `json:"indicators"`
	MaturityScore      float64            `json:"maturity_score"`
	DevelopmentPhase   string             `json:"development_phase"`
	ScalingReadiness   string             `json:"scaling_readiness"`
}

// TransitionReport is the MVP-scale transition engine output.
type TransitionReport struct {
	ScoreReport
	Phase          string              `json:"transition_phase"`
	Coupling       CouplingEvolution   `json:"coupling_evolution"`
	Performance    PerformanceDebt     `json:"performance_debt"`
	FeatureFlags   FeatureFlagDebt     `json:"feature_flag_debt"`
	Infrastructure InfrastructureDrift `json:"infrastructure_drift"`
	Maturity       MVPMaturity         `json:"mvp_maturity"`
}
