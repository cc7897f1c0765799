package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Lectern presents slide decks laid out on a grid",
	Long: `Lectern navigates decks of Markdown slides: rows left to right, nested slides
top to bottom, fragments revealed one at a time. Present in the terminal, or
host sessions over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the deck")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to Stderr")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}

// deckPath resolves the deck directory from --dir or the first argument.
func deckPath(cmd *cobra.Command, args []string) string {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	return dir
}
