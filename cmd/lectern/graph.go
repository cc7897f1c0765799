package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the deck overview",
	Long:  `Outputs a Mermaid diagram (graph LR) of the slide grid. With --session the stored position of that session is highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		store, _ := cmd.Flags().GetString("store")
		dir, _ := cmd.Flags().GetString("session-dir")
		return cli.Graph(cmd.Context(), deckPath(cmd, args), sessionID, cli.SessionOptions{
			Store:      store,
			SessionDir: dir,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the stored position of this session")
	graphCmd.Flags().String("store", "", "Session store: memory, file, redis or sqlite (default LECTERN_STORE)")
	graphCmd.Flags().String("session-dir", "", "Directory of the file store (default .lectern/sessions)")
}
