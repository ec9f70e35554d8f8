package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/spf13/cobra"
)

// runAnalysis returns a Run function that executes one analysis view and
// records the visit in the progress store.
func runAnalysis(name string, execute core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := execute(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run "+name+" analysis", err)
		}
		markAnalyticsExplored()
	}
}

// statsCmd prints commit totals.
var statsCmd = &cobra.Command{
	Use:   "stats [log-path]",
	Short: "Show commit, file and contributor totals.",
	Long: `Parse a git log and print headline totals.

Reads the output of 'git log --stat' from a file, or from stdin when the path
is '-' or omitted. Commits that cannot be parsed are skipped and counted.

Examples:
  # Pipe the log straight in
  git log --stat | gitpulse stats

  # Analyze a saved transcript
  git log --stat > history.log
  gitpulse stats history.log --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("stats", core.ExecuteStats),
}

// sessionsCmd prints work sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions [log-path]",
	Short: "Group commits into work sessions and estimate hours worked.",
	Long: `Split the commit timeline into work sessions.

A new session starts whenever the gap to the previous commit exceeds
--session-gap minutes. Each session is credited with its span, and at least
half an hour. The summary breaks sessions down by time of day and weekday.

Examples:
  # Longest sessions with the default two hour gap
  git log --stat | gitpulse sessions

  # Treat anything within four hours as one session
  gitpulse sessions history.log --session-gap 240`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("sessions", core.ExecuteSessions),
}

// contributorsCmd prints contributor profiles.
var contributorsCmd = &cobra.Command{
	Use:   "contributors [log-path]",
	Short: "Profile each contributor's volume, rhythm and favorite files.",
	Long: `Build one profile per author: commits, lines changed, active days, peak hour
and the files they touch most.

Examples:
  gitpulse contributors history.log --limit 10
  gitpulse contributors history.log --output csv --output-file people.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("contributors", core.ExecuteContributors),
}

// collabCmd prints the collaboration matrix.
var collabCmd = &cobra.Command{
	Use:   "collab [log-path]",
	Short: "Show which authors work on the same files.",
	Long: `List every pair of authors that modified a common file, ranked by the number
of files they share, plus the files touched by more than one author.

Examples:
  gitpulse collab history.log`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("collaboration", core.ExecuteCollaboration),
}

// evolutionCmd prints file hotspots and the timeline.
var evolutionCmd = &cobra.Command{
	Use:   "evolution [log-path]",
	Short: "Replay the history: hotspots, growth timeline and file types.",
	Long: `Replay commits in time order to reconstruct how the codebase grew.

Shows the most modified files, a phase-by-phase timeline and a histogram of
file extensions.

Examples:
  gitpulse evolution history.log
  gitpulse evolution history.log --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("evolution", core.ExecuteEvolution),
}

// timingCmd prints commit timing patterns.
var timingCmd = &cobra.Command{
	Use:   "timing [log-path]",
	Short: "Show when commits happen: hours, weekdays, months and work-life balance.",
	Long: `Bucket commits by hour, weekday and month in each author's own time zone.

Examples:
  gitpulse timing history.log`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("timing", core.ExecuteTiming),
}
