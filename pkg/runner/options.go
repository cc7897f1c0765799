package runner

import (
	"context"
	"log/slog"

	"github.com/aretw0/lectern/pkg/ports"
)

// DefaultSessionID is used when no session ID is configured.
const DefaultSessionID = "local"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHost configures the session host the runner drives.
func WithHost(host ports.SessionHost) Option {
	return func(r *Runner) {
		r.Host = host
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session the runner enters.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLocation sets the location to enter at. Empty resumes the stored one.
func WithLocation(loc string) Option {
	return func(r *Runner) {
		r.Location = loc
	}
}

// WithReload enables hot reload: every signal on ch calls fn, then redraws.
func WithReload(ch <-chan struct{}, fn func(ctx context.Context) error) Option {
	return func(r *Runner) {
		r.Reload = ch
		r.OnReload = fn
	}
}
