package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Runner drives one presentation session through an IOHandler.
// It uses an IOHandler strategy to abstract the interaction mode (Text, Key, JSON).
type Runner struct {
	// Host owns the session state. Required.
	Host ports.SessionHost

	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	SessionID string
	Location  string

	// Reload, when set, triggers OnReload followed by a redraw.
	Reload   <-chan struct{}
	OnReload func(ctx context.Context) error
}

type inputResult struct {
	cmd domain.Command
	err error
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		SessionID: DefaultSessionID,
		Logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run enters the session and processes input until the presenter quits,
// input ends or ctx is cancelled. The session is exited (not deleted) on return,
// so the next Run resumes where this one stopped.
func (r *Runner) Run(ctx context.Context) error {
	if r.Host == nil {
		return errors.New("runner: no session host configured")
	}
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()
	runCtx := signals.Context()

	frame, err := r.Host.Enter(runCtx, r.SessionID, r.Location)
	if err != nil {
		return fmt.Errorf("failed to enter session %s: %w", r.SessionID, err)
	}
	defer r.exit()

	if err := handler.Output(runCtx, r.view(frame)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	inputs := make(chan inputResult)
	go r.pump(runCtx, handler, inputs)

	for {
		select {
		case <-runCtx.Done():
			r.Logger.Debug("runner stopped", "reason", runCtx.Err())
			return nil

		case _, ok := <-r.Reload:
			if !ok {
				r.Reload = nil
				continue
			}
			if err := r.reload(runCtx, handler); err != nil {
				return err
			}

		case res := <-inputs:
			if res.err != nil {
				if errors.Is(res.err, ErrQuit) || errors.Is(res.err, io.EOF) {
					return nil
				}
				signals.CheckRace()
				if runCtx.Err() != nil {
					return nil
				}
				return fmt.Errorf("input error: %w", res.err)
			}

			frame, err := r.Host.Dispatch(runCtx, r.SessionID, res.cmd)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownIntent) {
					_ = handler.SystemOutput(runCtx, err.Error())
					continue
				}
				return fmt.Errorf("navigation error: %w", err)
			}
			r.Logger.Debug("navigated", "session_id", r.SessionID, "intent", res.cmd.Intent, "location", frame.Location)

			if err := handler.Output(runCtx, r.view(frame)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}
}

// pump reads commands until a terminal error. Recoverable parse errors are
// reported through SystemOutput and reading continues.
func (r *Runner) pump(ctx context.Context, handler IOHandler, out chan<- inputResult) {
	for {
		cmd, err := handler.Input(ctx)
		if err != nil && !isTerminal(err) && ctx.Err() == nil {
			_ = handler.SystemOutput(ctx, err.Error())
			continue
		}
		select {
		case out <- inputResult{cmd: cmd, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrQuit) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (r *Runner) reload(ctx context.Context, handler IOHandler) error {
	if r.OnReload != nil {
		if err := r.OnReload(ctx); err != nil {
			// The last good deck stays on screen.
			r.Logger.Warn("reload failed", "err", err)
			return handler.SystemOutput(ctx, fmt.Sprintf("reload failed: %v", err))
		}
	}
	frame, err := r.Host.Frame(ctx, r.SessionID)
	if err != nil {
		return fmt.Errorf("failed to refresh frame: %w", err)
	}
	r.Logger.Info("deck reloaded", "session_id", r.SessionID, "location", frame.Location)
	return handler.Output(ctx, r.view(frame))
}

func (r *Runner) exit() {
	if err := r.Host.Exit(context.Background(), r.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		r.Logger.Warn("failed to exit session", "session_id", r.SessionID, "err", err)
	}
}

func (r *Runner) view(frame domain.Frame) View {
	deck := r.Host.Deck()
	v := View{Frame: frame, Total: deck.RowCount()}
	if deck != nil {
		v.Title = deck.Title
	}
	if slide, ok := deck.SlideAt(frame.Position); ok {
		v.Slide = slide
	}
	return v
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
