// Package cmd defines the command-line interface for gitpulse.
package cmd

import (
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(collabCmd)
	rootCmd.AddCommand(evolutionCmd)
	rootCmd.AddCommand(timingCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the progress subcommands to the parent progress command
	progressCmd.AddCommand(progressGetCmd)
	progressCmd.AddCommand(progressSetCmd)
	progressCmd.AddCommand(progressHasCmd)
	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressResetCmd)
	progressCmd.AddCommand(progressSummaryCmd)
	progressCmd.AddCommand(progressMigrateCmd)

	// Add the skills subcommands to the parent skills command
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsGetCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("as-of", "", "Reference time for age and recency metrics in RFC3339 (default: now)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("progress-backend", string(schema.BoltBackend), "Progress backend: bolt or sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("progress-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("registry-root", "", "Directory holding registry.json and skill documents (default: built-in)")
	rootCmd.PersistentFlags().String("rules", "", "Path to a YAML file of commit classification rules")
	rootCmd.PersistentFlags().Int("session-gap", contract.DefaultSessionGapMinutes, "Minutes of inactivity that end a work session")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details, including dropped commits")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of progressMigrateCmd to Viper
	progressMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(progressMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding progress migrate flags", err)
	}
}
