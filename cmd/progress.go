package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iocache"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// progressCmd focused on progress data management.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track which chapters and tools a viewer has explored",
	Long: `Manage the key-value store that remembers what a viewer has already seen.

Chapters are stored as 'chapter:<id>' and tools as 'tool:<id>'. Running any
analysis marks 'tool:git-analytics' as explored.

Supported backends: bolt (default), sqlite, mysql, postgresql, or none (in memory)

Subcommands:
  get     - Print the value of a key
  set     - Store a value under a key
  has     - Report whether a key exists
  list    - List keys, optionally by prefix
  reset   - Remove every entry
  summary - Show completion across chapters and tools
  migrate - Run database schema migrations

Examples:
  # Mark chapter 2 complete and check the summary
  gitpulse progress set chapter:2
  gitpulse progress summary

  # Keep progress in PostgreSQL
  export GITPULSE_PROGRESS_DB_CONNECT="host=localhost dbname=gitpulse user=me"
  gitpulse progress summary --progress-backend postgresql`,
}

var progressGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Print the value stored under a key",
	Args:    cobra.ExactArgs(1),
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		value, err := progressStore().Get(args[0])
		if errors.Is(err, iocache.ErrNotFound) {
			contract.LogFatal("Unknown progress key", fmt.Errorf("404 not found: %s", args[0]))
		}
		if err != nil {
			contract.LogFatal("Failed to read progress", err)
		}
		fmt.Println(value)
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a value under a key (default value: true)",
	Long: `Store a value under a key, overwriting any previous value.

Examples:
  gitpulse progress set chapter:1
  gitpulse progress set tool:diagrams true`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		value := "true"
		if len(args) == 2 {
			value = args[1]
		}
		if err := progressStore().Set(args[0], value); err != nil {
			contract.LogFatal("Failed to save progress", err)
		}
		fmt.Printf("Saved %s = %s\n", args[0], value)
	},
}

var progressHasCmd = &cobra.Command{
	Use:     "has <key>",
	Short:   "Report whether a key exists",
	Args:    cobra.ExactArgs(1),
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		has, err := progressStore().Has(args[0])
		if err != nil {
			contract.LogFatal("Failed to read progress", err)
		}
		fmt.Println(has)
	},
}

var progressListCmd = &cobra.Command{
	Use:     "list [prefix]",
	Short:   "List stored entries, optionally only keys with a prefix",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}
		store := progressStore()
		keys, err := store.Keys(prefix)
		if err != nil {
			contract.LogFatal("Failed to list progress", err)
		}
		entries := make([]outwriter.ProgressEntry, 0, len(keys))
		for _, key := range keys {
			value, err := store.Get(key)
			if err != nil {
				contract.LogFatal("Failed to read progress", err)
			}
			entries = append(entries, outwriter.ProgressEntry{Key: key, Value: value})
		}
		if err := outwriter.WriteProgressEntries(entries, cfg); err != nil {
			contract.LogFatal("Failed to write progress", err)
		}
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every progress entry",
	Long: `Delete all stored progress.

With --purge, the database file of the bolt and sqlite backends is removed
as well.

WARNING: This action cannot be undone.`,
	Args:    cobra.NoArgs,
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := progressStore().Reset(); err != nil {
			contract.LogFatal("Failed to reset progress", err)
		}
		fileBacked := cfg.ProgressBackend == schema.BoltBackend || cfg.ProgressBackend == schema.SQLiteBackend
		if viper.GetBool("purge") && fileBacked {
			iocache.CloseProgress()
			if err := iocache.ClearProgress(cfg.ProgressBackend, cfg.ProgressDBConnect); err != nil {
				contract.LogFatal("Failed to remove progress database", err)
			}
		}
		fmt.Println("Progress reset successfully.")
	},
}

var progressSummaryCmd = &cobra.Command{
	Use:     "summary",
	Short:   "Show completed chapters, explored tools and store status",
	Args:    cobra.NoArgs,
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := progressStore()
		summary, err := iocache.Summary(store)
		if err != nil {
			contract.LogFatal("Failed to summarize progress", err)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get progress status", err)
		}
		if err := outwriter.WriteProgressSummary(summary, status, cfg); err != nil {
			contract.LogFatal("Failed to write progress summary", err)
		}
	},
}

var progressMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the progress store",
	Long: `Apply or roll back the progress schema on a SQL backend.

Stores apply every migration when they open, so this is only needed to pin
a database to an older version or to prepare one ahead of time.

Examples:
  # Migrate to the latest version
  gitpulse progress migrate --progress-backend sqlite

  # Roll back to version 1
  gitpulse progress migrate --progress-backend mysql --target-version 1`,
	Args:    cobra.NoArgs,
	PreRunE: progressMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.ProgressBackend == schema.NoneBackend || cfg.ProgressBackend == schema.BoltBackend {
			contract.LogFatal("Cannot migrate progress store",
				fmt.Errorf("the %s backend has no schema; use --progress-backend sqlite, mysql or postgresql", cfg.ProgressBackend))
		}
		result, err := iocache.Migrate(cfg.ProgressBackend, cfg.ProgressDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate progress store", err)
		}
		if !result.Changed {
			fmt.Printf("Progress schema already at version %d.\n", result.ToVersion)
			return
		}
		fmt.Printf("Progress schema migrated from version %d to %d.\n", result.FromVersion, result.ToVersion)
	},
}

func init() {
	progressResetCmd.Flags().Bool("purge", false, "Also remove the database file of file-backed stores")
	if err := viper.BindPFlags(progressResetCmd.Flags()); err != nil {
		contract.LogFatal("Error binding progress reset flags", err)
	}
}
