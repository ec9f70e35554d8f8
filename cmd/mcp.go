package cmd

import (
	"github.com/huangsam/gitpulse/internal/iocache"
	"github.com/huangsam/gitpulse/internal/mcp"
	"github.com/huangsam/gitpulse/internal/registry"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitpulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents analyze git logs, read
skill documents and record progress through standard tools.

Logs go to stderr so they never mix with the protocol on stdout.`,
	Args:    cobra.NoArgs,
	PreRunE: noArgSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, iocache.Manager.GetProgressStore(), registry.Open(cfg.RegistryRoot))
	},
}
