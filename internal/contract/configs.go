package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit       = 25
	MaxResultLimit           = 1000
	DefaultPrecision         = 1
	DefaultSessionGapMinutes = 120
	MaxSessionGapMinutes     = 7 * 24 * 60
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ScalingWeightsRaw holds custom weights for the scaling readiness engine.
type ScalingWeightsRaw struct {
	Coordination     *float64 `mapstructure:"coordination"`
	ReleaseFrequency *float64 `mapstructure:"release_frequency"`
	CriticalPaths    *float64 `mapstructure:"critical_paths"`
	Decomposition    *float64 `mapstructure:"decomposition"`
}

// DebtWeightsRaw holds custom weights for the technical debt engine.
type DebtWeightsRaw struct {
	Hotspot      *float64 `mapstructure:"hotspot"`
	Churn        *float64 `mapstructure:"churn"`
	Refactoring  *float64 `mapstructure:"refactoring"`
	Architecture *float64 `mapstructure:"architecture"`
}

// VelocityWeightsRaw holds custom weights for the velocity health engine.
type VelocityWeightsRaw struct {
	ContextSwitching *float64 `mapstructure:"context_switching"`
	KnowledgeSilos   *float64 `mapstructure:"knowledge_silos"`
	Onboarding       *float64 `mapstructure:"onboarding"`
}

// TransitionWeightsRaw holds custom weights for the MVP-scale transition engine.
type TransitionWeightsRaw struct {
	Coupling       *float64 `mapstructure:"coupling"`
	Performance    *float64 `mapstructure:"performance"`
	FeatureFlags   *float64 `mapstructure:"feature_flags"`
	Infrastructure *float64 `mapstructure:"infrastructure"`
	Maturity       *float64 `mapstructure:"maturity"`
}

// WeightsRawInput holds all custom weight definitions from the YAML config file.
type WeightsRawInput struct {
	Scaling    *ScalingWeightsRaw    `mapstructure:"scaling"`
	Debt       *DebtWeightsRaw       `mapstructure:"debt"`
	Velocity   *VelocityWeightsRaw   `mapstructure:"velocity"`
	Transition *TransitionWeightsRaw `mapstructure:"transition"`
}

// Config holds the runtime configuration for the analysis.
// This struct is the "final, validated" config.
type Config struct {
	InputPath   string // "-" or empty reads stdin
	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Workers     int
	Verbose     bool

	SessionGap time.Duration
	Clock      Clock
	RulesPath  string
	Classifier *classify.Classifier

	ProgressBackend   schema.DatabaseBackend
	ProgressDBConnect string // Please use env var as this is plaintext

	RegistryRoot string // Empty uses the built-in registry

	// CustomWeights is a mapping of [Engine][SubScore] = Weight as given by the user
	CustomWeights map[schema.EngineName]map[schema.SubScoreKey]float64

	// Weights holds the validated weights of every engine, defaults merged with overrides
	Weights map[schema.EngineName]algo.Weights
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	Workers           int    `mapstructure:"workers"`
	Verbose           bool   `mapstructure:"verbose"`
	SessionGap        int    `mapstructure:"session-gap"`
	AsOf              string `mapstructure:"as-of"`
	Rules             string `mapstructure:"rules"`
	ProgressBackend   string `mapstructure:"progress-backend"`
	ProgressDBConnect string `mapstructure:"progress-db-connect"`
	RegistryRoot      string `mapstructure:"registry-root"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[schema.EngineName]map[schema.SubScoreKey]float64, len(c.CustomWeights))
		for engine, engineMap := range c.CustomWeights {
			clone.CustomWeights[engine] = maps.Clone(engineMap)
		}
	}
	if c.Weights != nil {
		clone.Weights = maps.Clone(c.Weights) // Weights values are immutable
	}
	return &clone
}

// Now returns the reference time of the run.
func (c *Config) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processClock(cfg, input); err != nil {
		return err
	}
	if err := processRules(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.BoltBackend, schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("progress-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("progress-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the progress store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.ProgressBackend)
	if backend == "" {
		backend = string(schema.BoltBackend)
	}
	cfg.ProgressBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.ProgressBackend]; !ok {
		return fmt.Errorf("invalid progress backend '%s'. must be bolt, sqlite, mysql, postgresql, none", input.ProgressBackend)
	}
	cfg.ProgressDBConnect = input.ProgressDBConnect
	return ValidateDatabaseConnectionString(cfg.ProgressBackend, cfg.ProgressDBConnect)
}

// validateSimpleInputs processes and validates all fields that need no I/O.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.RegistryRoot = input.RegistryRoot

	colorStr := input.Color
	if colorStr == "" {
		colorStr = "yes"
	}
	colors, err := ParseBoolString(colorStr)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.SessionGap <= 0 || input.SessionGap > MaxSessionGapMinutes {
		return fmt.Errorf("session-gap must be between 1 and %d minutes (received %d)", MaxSessionGapMinutes, input.SessionGap)
	}
	cfg.SessionGap = time.Duration(input.SessionGap) * time.Minute

	return validateBackendConfig(cfg, input)
}

// processClock pins the clock when --as-of is given.
func processClock(cfg *Config, input *ConfigRawInput) error {
	asOf := strings.TrimSpace(input.AsOf)
	if asOf == "" {
		cfg.Clock = SystemClock{}
		return nil
	}
	t, err := time.Parse(DateTimeFormat, asOf)
	if err != nil {
		return fmt.Errorf("invalid as-of date '%s'. Expected RFC3339: %w", asOf, err)
	}
	cfg.Clock = FixedClock{T: t}
	return nil
}

// processRules loads the classifier rule set.
func processRules(cfg *Config, input *ConfigRawInput) error {
	cfg.RulesPath = strings.TrimSpace(input.Rules)
	classifier, err := classify.LoadFile(cfg.RulesPath)
	if err != nil {
		return err
	}
	cfg.Classifier = classifier
	return nil
}

type weightField struct {
	key   schema.SubScoreKey
	value *float64
}

func (w *ScalingWeightsRaw) fields() []weightField {
	return []weightField{
		{schema.SubCoordination, w.Coordination},
		{schema.SubReleaseFrequency, w.ReleaseFrequency},
		{schema.SubCriticalPaths, w.CriticalPaths},
		{schema.SubDecomposition, w.Decomposition},
	}
}

func (w *DebtWeightsRaw) fields() []weightField {
	return []weightField{
		{schema.SubHotspot, w.Hotspot},
		{schema.SubChurn, w.Churn},
		{schema.SubRefactoring, w.Refactoring},
		{schema.SubArchitecture, w.Architecture},
	}
}

func (w *VelocityWeightsRaw) fields() []weightField {
	return []weightField{
		{schema.SubContextSwitching, w.ContextSwitching},
		{schema.SubKnowledgeSilos, w.KnowledgeSilos},
		{schema.SubOnboarding, w.Onboarding},
	}
}

func (w *TransitionWeightsRaw) fields() []weightField {
	return []weightField{
		{schema.SubCoupling, w.Coupling},
		{schema.SubPerformance, w.Performance},
		{schema.SubFeatureFlags, w.FeatureFlags},
		{schema.SubInfrastructure, w.Infrastructure},
		{schema.SubMaturity, w.Maturity},
	}
}

// ProcessWeightsRawInput converts WeightsRawInput into a map of the weights the user set.
// Engines without any custom weight are left out.
func ProcessWeightsRawInput(weights WeightsRawInput) map[schema.EngineName]map[schema.SubScoreKey]float64 {
	result := make(map[schema.EngineName]map[schema.SubScoreKey]float64)

	engineFields := map[schema.EngineName][]weightField{}
	if weights.Scaling != nil {
		engineFields[schema.ScalingEngine] = weights.Scaling.fields()
	}
	if weights.Debt != nil {
		engineFields[schema.DebtEngine] = weights.Debt.fields()
	}
	if weights.Velocity != nil {
		engineFields[schema.VelocityEngine] = weights.Velocity.fields()
	}
	if weights.Transition != nil {
		engineFields[schema.TransitionEngine] = weights.Transition.fields()
	}

	for engine, fields := range engineFields {
		engineMap := make(map[schema.SubScoreKey]float64)
		for _, f := range fields {
			if f.value != nil {
				engineMap[f.key] = *f.value
			}
		}
		if len(engineMap) > 0 {
			result[engine] = engineMap
		}
	}
	return result
}

// processCustomWeights merges the custom weights over the defaults and
// validates that every engine's final set sums to 1.0.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.CustomWeights = ProcessWeightsRawInput(input.Weights)

	cfg.Weights = make(map[schema.EngineName]algo.Weights, len(schema.AllEngines))
	for _, engine := range schema.AllEngines {
		values := schema.GetDefaultWeights(engine)
		if custom, ok := cfg.CustomWeights[engine]; ok {
			maps.Copy(values, custom)
		}
		w, err := algo.NewWeights(engine, values)
		if err != nil {
			return fmt.Errorf("invalid custom weights: %w", err)
		}
		cfg.Weights[engine] = w
	}
	return nil
}
