/*
Package runner implements the interactive presentation loop for Lectern.

It acts as the bridge between a session host (usually *session.Manager) and
the person at the keyboard. The runner enters a session, shows each frame
through a pluggable IOHandler, turns input into navigation commands and
reloads the frame when the deck changes on disk.

# Key Components

  - Runner: The main loop. It owns the session for the duration of Run.
  - IOHandler: Decouples how frames are shown and commands are read.
  - TextHandler: Line-oriented CLI usage ("next", "goto 2 1", "/2/1").
  - KeyHandler: Single-key navigation with the terminal in raw mode.
  - JSONHandler: NDJSON frames out, commands in, for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithHost(manager),
		runner.WithSessionID("local"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
