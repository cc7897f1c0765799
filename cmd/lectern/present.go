package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lectern/internal/cli"
)

var presentCmd = &cobra.Command{
	Use:   "present [dir]",
	Short: "Present the deck in the terminal",
	Long: `Starts an interactive presentation of the deck.

Line mode (default) reads commands: next, prev, up, down, goto <row> [column],
a location such as /2/1, or quit. With --keys the terminal switches to raw mode
and arrow keys, h/j/k/l, space and backspace navigate. With --json frames are
written as NDJSON and commands are read one per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PresentOptions{DeckPath: deckPath(cmd, args)}
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.LogFile, _ = cmd.Flags().GetString("log-file")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Location, _ = cmd.Flags().GetString("location")
		opts.SessionDir, _ = cmd.Flags().GetString("session-dir")
		opts.Keys, _ = cmd.Flags().GetBool("keys")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Stdin = cmd.InOrStdin()
		opts.Stdout = cmd.OutOrStdout()

		return cli.Present(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(presentCmd)

	presentCmd.Flags().String("session", "", "Session ID (default \"local\")")
	presentCmd.Flags().String("location", "", "Open at this location, e.g. /2/1")
	presentCmd.Flags().String("session-dir", "", "Where session locations are stored (default .lectern/sessions)")
	presentCmd.Flags().Bool("keys", false, "Raw keyboard mode (arrow keys)")
	presentCmd.Flags().Bool("json", false, "NDJSON input/output")
	presentCmd.Flags().BoolP("watch", "w", false, "Reload the deck when files change")
	presentCmd.Flags().Bool("fresh", false, "Forget the stored location before starting")

	// 'present' is the default command.
	rootCmd.Args = presentCmd.Args
	rootCmd.RunE = presentCmd.RunE
	rootCmd.Flags().AddFlagSet(presentCmd.Flags())
}
