package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// StateStore defines the interface for persisting session locations.
// This allows a presentation to be stopped and resumed where it was left.
type StateStore interface {
	// Save persists the record for a given session ID.
	Save(ctx context.Context, sessionID string, record *domain.Record) error

	// Load retrieves the record for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Record, error)

	// Delete removes the record for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
