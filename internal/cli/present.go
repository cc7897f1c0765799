package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/aretw0/lectern/pkg/runner"
)

// PresentOptions contains all the configuration for the present command.
type PresentOptions struct {
	DeckPath   string
	SessionID  string
	Location   string
	SessionDir string
	Keys       bool
	JSON       bool
	Watch      bool
	Fresh      bool
	Debug      bool
	LogFile    string

	Stdin  io.Reader
	Stdout io.Writer
}

func (o *PresentOptions) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.SessionID == "" {
		o.SessionID = runner.DefaultSessionID
	}
}

// Present runs an interactive presentation of the deck in the terminal.
// The location of the session is stored under SessionDir, so the next
// run resumes where this one stopped unless Fresh is set.
func Present(ctx context.Context, opts PresentOptions) error {
	opts.defaults()
	if opts.Keys && opts.JSON {
		return fmt.Errorf("--keys and --json cannot be used together")
	}

	logFile, err := openLogFile(opts.LogFile)
	if err != nil {
		return err
	}
	var logOut io.Writer
	if logFile != nil {
		defer logFile.Close()
		logOut = logFile
	}
	logger := createLogger(opts.Debug, logOut)

	store := file.New(opts.SessionDir)
	if opts.Fresh {
		if err := store.Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	engineOpts := []lectern.Option{
		lectern.WithLogger(logger),
		lectern.WithStore(store),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, lectern.WithLifecycleHooks(createDebugHooks(logger)))
	}
	eng, err := lectern.New(opts.DeckPath, engineOpts...)
	if err != nil {
		return fmt.Errorf("error initializing lectern: %w", err)
	}

	if !opts.JSON {
		tui.PrintBanner(opts.Stdout, lectern.Version)
		title := eng.Deck().Title
		if title == "" {
			title = eng.Name
		}
		printSystemMessage(opts.Stdout, "Presenting '%s' (session '%s').", title, opts.SessionID)
	}

	handler, closeHandler, err := newHandler(opts, eng.Settings().Theme)
	if err != nil {
		return err
	}
	defer closeHandler()

	runnerOpts := []runner.Option{
		runner.WithHost(eng.Sessions()),
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithSessionID(opts.SessionID),
		runner.WithLocation(opts.Location),
	}
	if opts.Watch {
		changes, err := eng.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch deck: %w", err)
		}
		runnerOpts = append(runnerOpts, runner.WithReload(changes, eng.Reload))
		logger.Info("Watching deck", "path", opts.DeckPath)
	}

	err = runner.NewRunner(runnerOpts...).Run(ctx)
	return handleExecutionError(err)
}

// newHandler picks the IO strategy: NDJSON, raw keys or line commands.
func newHandler(opts PresentOptions, theme string) (runner.IOHandler, func(), error) {
	noop := func() {}
	if opts.JSON {
		return runner.NewJSONHandler(opts.Stdin, opts.Stdout), noop, nil
	}

	width := 0
	if f, ok := opts.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w - 4
		}
	}
	renderer := tui.NewRenderer(theme, width)
	status := tui.NewStatus(termenv.ColorProfile())

	if opts.Keys {
		h, err := runner.NewKeyHandler(opts.Stdin, opts.Stdout,
			runner.WithKeyHandlerRenderer(renderer),
			runner.WithKeyHandlerStatus(status),
		)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		return h, func() { _ = h.Close() }, nil
	}

	return runner.NewTextHandler(opts.Stdin, opts.Stdout,
		runner.WithTextHandlerRenderer(renderer),
		runner.WithTextHandlerStatus(status),
	), noop, nil
}
