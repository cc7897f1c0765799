package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect, and remove the stored locations of presentation sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListSessions(cmd.Context(), sessionOptions(cmd))
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the stored location of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.InspectSession(cmd.Context(), sessionOptions(cmd), args[0])
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return cli.RemoveSessions(cmd.Context(), sessionOptions(cmd), all, args...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionCmd.PersistentFlags().String("store", "", "Session store: memory, file, redis or sqlite (default LECTERN_STORE)")
	sessionCmd.PersistentFlags().String("session-dir", "", "Directory of the file store (default .lectern/sessions)")
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func sessionOptions(cmd *cobra.Command) cli.SessionOptions {
	store, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("session-dir")
	return cli.SessionOptions{Store: store, SessionDir: dir, Out: cmd.OutOrStdout()}
}
