package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP server",
	Long: `Hosts presentation sessions over a JSON API with an SSE frame stream,
Prometheus metrics on /metrics and the OpenAPI document on /openapi.yaml.

Settings are read from LECTERN_* environment variables; flags override them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ServeOptions{DeckPath: deckPath(cmd, args)}
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.LogFile, _ = cmd.Flags().GetString("log-file")
		opts.Port, _ = cmd.Flags().GetInt("port")
		opts.Store, _ = cmd.Flags().GetString("store")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		return cli.Serve(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default LECTERN_PORT or 8080)")
	serveCmd.Flags().String("store", "", "Session store: memory, file, redis or sqlite (default LECTERN_STORE)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the deck when files change")
}
