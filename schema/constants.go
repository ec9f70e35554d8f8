package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// EngineName identifies one of the metric engines.
	EngineName string

	// SubScoreKey names a component of an engine's composite score.
	SubScoreKey string

	// TimeOfDay is the bucket a session start falls into.
	TimeOfDay string

	// Severity ranks a recommendation.
	Severity string

	// DatabaseBackend represents the backend for the progress store.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All metric engines supported.
const (
	ScalingEngine    EngineName = "scaling"
	DebtEngine       EngineName = "debt"
	VelocityEngine   EngineName = "velocity"
	TransitionEngine EngineName = "transition"
)

// Sub-score keys of the scaling readiness engine.
const (
	SubCoordination     SubScoreKey = "coordination"
	SubReleaseFrequency SubScoreKey = "release_frequency"
	SubCriticalPaths    SubScoreKey = "critical_paths"
	SubDecomposition    SubScoreKey = "decomposition"
)

// Sub-score keys of the technical debt engine.
const (
	SubHotspot      SubScoreKey = "hotspot"
	SubChurn        SubScoreKey = "churn"
	SubRefactoring  SubScoreKey = "refactoring"
	SubArchitecture SubScoreKey = "architecture"
)

// Sub-score keys of the velocity health engine.
const (
	SubContextSwitching SubScoreKey = "context_switching"
	SubKnowledgeSilos   SubScoreKey = "knowledge_silos"
	SubOnboarding       SubScoreKey = "onboarding"
)

// Sub-score keys of the MVP-scale transition engine.
const (
	SubCoupling       SubScoreKey = "coupling"
	SubPerformance    SubScoreKey = "performance"
	SubFeatureFlags   SubScoreKey = "feature_flags"
	SubInfrastructure SubScoreKey = "infrastructure"
	SubMaturity       SubScoreKey = "maturity"
)

// Time-of-day buckets, in reporting order.
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Recommendation severities.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// All progress store backends supported.
const (
	BoltBackend       DatabaseBackend = "bolt" // default
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// InsufficientData marks an analysis that had too few commits to produce a trend.
const InsufficientData = "insufficient-data"

// UnknownAuthor is reported when no author dominates a window.
const UnknownAuthor = "Unknown"

// NoExtension is the extension bucket for files without a suffix.
const NoExtension = "no-extension"

// AllEngines lists every engine in reporting order.
var AllEngines = []EngineName{ScalingEngine, DebtEngine, VelocityEngine, TransitionEngine}

// AllTimesOfDay lists the time-of-day buckets in reporting order.
var AllTimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidEngines lists all valid engine names.
var ValidEngines = map[EngineName]struct{}{
	ScalingEngine:    {},
	DebtEngine:       {},
	VelocityEngine:   {},
	TransitionEngine: {},
}

// ValidDatabaseBackends lists all valid progress store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	BoltBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultWeights returns the default composite weights for an engine.
func GetDefaultWeights(engine EngineName) map[SubScoreKey]float64 {
	switch engine {
	case ScalingEngine:
		return map[SubScoreKey]float64{
			SubCoordination:     0.30,
			SubReleaseFrequency: 0.25,
			SubCriticalPaths:    0.25,
			SubDecomposition:    0.20,
		}
	case DebtEngine:
		return map[SubScoreKey]float64{
			SubHotspot:      0.30,
			SubChurn:        0.25,
			SubRefactoring:  0.25,
			SubArchitecture: 0.20,
		}
	case VelocityEngine:
		return map[SubScoreKey]float64{
			SubContextSwitching: 0.40,
			SubKnowledgeSilos:   0.35,
			SubOnboarding:       0.25,
		}
	case TransitionEngine:
		return map[SubScoreKey]float64{
			SubCoupling:       0.25,
			SubPerformance:    0.20,
			SubFeatureFlags:   0.15,
			SubInfrastructure: 0.15,
			SubMaturity:       0.25,
		}
	default:
		return nil
	}
}

// SubScoreKeys returns the sub-score keys of an engine in a stable order.
func SubScoreKeys(engine EngineName) []SubScoreKey {
	switch engine {
	case ScalingEngine:
		return []SubScoreKey{SubCoordination, SubReleaseFrequency, SubCriticalPaths, SubDecomposition}
	case DebtEngine:
		return []SubScoreKey{SubHotspot, SubChurn, SubRefactoring, SubArchitecture}
	case VelocityEngine:
		return []SubScoreKey{SubContextSwitching, SubKnowledgeSilos, SubOnboarding}
	case TransitionEngine:
		return []SubScoreKey{SubCoupling, SubPerformance, SubFeatureFlags, SubInfrastructure, SubMaturity}
	default:
		return nil
	}
}
