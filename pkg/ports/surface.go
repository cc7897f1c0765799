package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// Surface applies a rendered frame to whatever displays it.
type Surface interface {
	Apply(ctx context.Context, frame domain.Frame) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(ctx context.Context, frame domain.Frame) error

func (f SurfaceFunc) Apply(ctx context.Context, frame domain.Frame) error {
	return f(ctx, frame)
}

// LocationPublisher writes the externally visible location string
// (a URL hash, a persisted record, a broadcast channel).
type LocationPublisher interface {
	PublishLocation(ctx context.Context, location string) error
}

// PublisherFunc adapts a function to LocationPublisher.
type PublisherFunc func(ctx context.Context, location string) error

func (f PublisherFunc) PublishLocation(ctx context.Context, location string) error {
	return f(ctx, location)
}
