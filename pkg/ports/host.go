package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// SessionHost is the interface transport adapters (HTTP, MCP) drive.
// It hosts many independent presentation sessions keyed by ID.
type SessionHost interface {
	// Enter activates a session. An empty location resumes the stored one,
	// falling back to the configured initial position.
	Enter(ctx context.Context, sessionID, location string) (domain.Frame, error)

	// Dispatch applies a navigation command and returns the resulting frame.
	Dispatch(ctx context.Context, sessionID string, cmd domain.Command) (domain.Frame, error)

	// Frame returns the current frame without navigating.
	Frame(ctx context.Context, sessionID string) (domain.Frame, error)

	// Exit deactivates a live session, keeping its stored record.
	Exit(ctx context.Context, sessionID string) error

	// Delete removes the session and its stored record.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of known sessions.
	List(ctx context.Context) ([]string, error)

	// Subscribe streams frames for a session until cancel is called.
	Subscribe(sessionID string) (frames <-chan domain.Frame, cancel func())

	// Deck returns the deck being presented.
	Deck() *domain.Deck
}
