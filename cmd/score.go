package cmd

import (
	"fmt"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
)

// splitScoreArgs separates the optional engine argument from the log path.
// A single argument that is not an engine name is taken as the log path.
func splitScoreArgs(args []string) ([]schema.EngineName, []string, error) {
	if len(args) == 0 {
		return schema.AllEngines, nil, nil
	}
	if args[0] == "all" {
		return schema.AllEngines, args[1:], nil
	}
	engine := schema.EngineName(args[0])
	if _, ok := schema.ValidEngines[engine]; ok {
		return []schema.EngineName{engine}, args[1:], nil
	}
	if len(args) == 1 {
		return schema.AllEngines, args, nil
	}
	return nil, nil, fmt.Errorf("invalid engine '%s'. must be scaling, debt, velocity, transition, all", args[0])
}

// scoreCmd prints engine reports.
var scoreCmd = &cobra.Command{
	Use:   "score [scaling|debt|velocity|transition|all] [log-path]",
	Short: "Score scaling readiness, technical debt, velocity health and MVP transition.",
	Long: `Run the metric engines and print each composite score, its sub-scores and
the recommendations it produced.

Engines:
- scaling:    coordination, release frequency, critical paths, decomposition
- debt:       hotspots, churn, refactoring, architecture (higher is worse)
- velocity:   context switching, knowledge silos, onboarding
- transition: coupling, performance, feature flags, infrastructure, maturity

Sub-score weights can be overridden under 'weights.<engine>' in .gitpulse.yaml.
Each engine's weights must sum to 1.

Examples:
  # Every engine
  git log --stat | gitpulse score

  # Only technical debt, as JSON
  gitpulse score debt history.log --output json`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		_, logArgs, err := splitScoreArgs(args)
		if err != nil {
			return err
		}
		return sharedSetup(rootCtx, cmd, logArgs)
	},
	Run: func(_ *cobra.Command, args []string) {
		engines, _, _ := splitScoreArgs(args)
		if err := core.ExecuteScores(rootCtx, cfg, engines); err != nil {
			contract.LogFatal("Cannot run score analysis", err)
		}
		markAnalyticsExplored()
	},
}

// reportCmd prints everything.
var reportCmd = &cobra.Command{
	Use:   "report [log-path]",
	Short: "Print every analysis and score in one document.",
	Long: `Combine stats, sessions, contributors, collaboration, evolution, timing and
all four engine reports.

Examples:
  gitpulse report history.log --output-file report.txt
  gitpulse report history.log --output json --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("report", core.ExecuteReport),
}

// exportCmd writes parquet files.
var exportCmd = &cobra.Command{
	Use:   "export <dir> [log-path]",
	Short: "Export the analysis to Parquet files for pandas, DuckDB or Spark.",
	Long: `Write commits, sessions, file history, contributors and scores as Parquet
files into the given directory, creating it if needed.

Examples:
  git log --stat | gitpulse export ./out
  duckdb -c "SELECT * FROM 'out/sessions.parquet'"`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args[1:])
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExport(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot export analysis", err)
		}
		markAnalyticsExplored()
	},
}
