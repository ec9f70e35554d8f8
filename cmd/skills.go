package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/internal/registry"
	"github.com/spf13/cobra"
)

// skillsCmd reads the skill registry.
var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Browse the skill documents that explain each analysis",
	Long: `Read skill documents from the registry.

The registry is compiled into the binary. Point --registry-root at a directory
holding registry.json and <id>/SKILL.md files to serve your own.

Examples:
  gitpulse skills list
  gitpulse skills get work-sessions`,
}

var skillsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the skills in the registry",
	Args:    cobra.NoArgs,
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := registry.Open(cfg.RegistryRoot).List()
		if err != nil {
			contract.LogFatal("Failed to read skill registry", err)
		}
		if err := outwriter.WriteSkills(entries, cfg); err != nil {
			contract.LogFatal("Failed to write skills", err)
		}
	},
}

var skillsGetCmd = &cobra.Command{
	Use:     "get <id>",
	Short:   "Print one skill document",
	Args:    cobra.ExactArgs(1),
	PreRunE: noArgSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		skill, err := registry.Open(cfg.RegistryRoot).Get(args[0])
		if errors.Is(err, registry.ErrNotFound) {
			contract.LogFatal("Unknown skill", fmt.Errorf("404 not found: skill '%s'", args[0]))
		}
		if err != nil {
			contract.LogFatal("Failed to read skill", err)
		}
		if err := outwriter.WriteSkill(skill, cfg); err != nil {
			contract.LogFatal("Failed to write skill", err)
		}
	},
}
