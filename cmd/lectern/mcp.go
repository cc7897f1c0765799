package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Lectern as an MCP Server.
This allows AI agents to follow and drive a presentation through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.MCPOptions{DeckPath: deckPath(cmd, args)}
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.LogFile, _ = cmd.Flags().GetString("log-file")
		opts.Transport, _ = cmd.Flags().GetString("transport")
		opts.Port, _ = cmd.Flags().GetInt("port")
		opts.Store, _ = cmd.Flags().GetString("store")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		return cli.ServeMCP(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 0, "Port to listen on (only for SSE, default LECTERN_PORT or 8080)")
	mcpCmd.Flags().String("store", "", "Session store: memory, file, redis or sqlite (default LECTERN_STORE)")
	mcpCmd.Flags().BoolP("watch", "w", false, "Reload the deck when files change")
}
