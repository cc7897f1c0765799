package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout slide output).
// A log file, when given, receives every record as JSON regardless of the mode.
func createLogger(debug bool, logFile io.Writer) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug, logFile)
	}
	if logFile != nil {
		return slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return logging.NewNop()
}

// serverLogger logs to Stderr at Info (Debug with debug) and to the optional log file.
// Long-running commands are never silent.
func serverLogger(debug bool, path string) (*slog.Logger, func(), error) {
	f, err := openLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if f == nil {
		return logging.New(level), func() {}, nil
	}
	return logging.New(level, f), func() { _ = f.Close() }, nil
}

// openLogFile opens path for appending. An empty path returns a nil writer.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSlideEnter: func(ctx context.Context, e *domain.SlideEvent) {
			logger.Debug("Enter Slide", "session_id", e.SessionID, "position", e.Position, "intent", e.Intent)
		},
		OnSlideLeave: func(ctx context.Context, e *domain.SlideEvent) {
			logger.Debug("Leave Slide", "session_id", e.SessionID, "position", e.Position)
		},
		OnFragmentShown: func(ctx context.Context, e *domain.FragmentEvent) {
			logger.Debug("Fragment Shown", "session_id", e.SessionID, "handle", e.Handle, "index", e.Index)
		},
		OnFragmentHidden: func(ctx context.Context, e *domain.FragmentEvent) {
			logger.Debug("Fragment Hidden", "session_id", e.SessionID, "handle", e.Handle, "index", e.Index)
		},
		OnLocationPublished: func(ctx context.Context, e *domain.LocationEvent) {
			logger.Debug("Location Published", "session_id", e.SessionID, "location", e.Location)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
