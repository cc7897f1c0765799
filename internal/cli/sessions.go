package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/lectern/internal/config"
	"github.com/aretw0/lectern/pkg/ports"
)

// SessionOptions selects the store the session commands operate on.
type SessionOptions struct {
	Store      string
	SessionDir string
	Out        io.Writer
}

func openSessions(ctx context.Context, opts SessionOptions) (*config.Backend, error) {
	settings, err := config.LoadServer()
	if err != nil {
		return nil, err
	}
	if opts.Store != "" {
		settings.Store = opts.Store
	}
	if opts.SessionDir != "" {
		settings.SessionDir = opts.SessionDir
	}
	return config.OpenStore(ctx, settings)
}

// ListSessions prints the stored sessions.
func ListSessions(ctx context.Context, opts SessionOptions) error {
	backend, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	return listSessions(ctx, backend.Store, opts.Out)
}

func listSessions(ctx context.Context, store ports.StateStore, out io.Writer) error {
	sessions, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No stored sessions found.")
		return nil
	}
	fmt.Fprintln(out, "Stored Sessions:")
	for _, id := range sessions {
		record, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(out, "- %s\n", id)
			continue
		}
		fmt.Fprintf(out, "- %s at %s (%s)\n", id, record.Location, record.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// InspectSession prints the stored record of a session as JSON.
func InspectSession(ctx context.Context, opts SessionOptions, sessionID string) error {
	backend, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	return inspectSession(ctx, backend.Store, opts.Out, sessionID)
}

func inspectSession(ctx context.Context, store ports.StateStore, out io.Writer, sessionID string) error {
	record, err := store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling record: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// RemoveSessions deletes the given sessions. With all set every stored session is removed.
func RemoveSessions(ctx context.Context, opts SessionOptions, all bool, ids ...string) error {
	backend, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	return removeSessions(ctx, backend.Store, opts.Out, all, ids...)
}

func removeSessions(ctx context.Context, store ports.StateStore, out io.Writer, all bool, ids ...string) error {
	if all {
		stored, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		ids = stored
	}

	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "Removed session '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d sessions", failed)
	}
	return nil
}
