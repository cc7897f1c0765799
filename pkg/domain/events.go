package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSlideEnter        EventType = "slide_enter"
	EventSlideLeave        EventType = "slide_leave"
	EventFragmentShown     EventType = "fragment_shown"
	EventFragmentHidden    EventType = "fragment_hidden"
	EventLocationPublished EventType = "location_published"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// SlideEvent represents entry to or exit from a slide.
type SlideEvent struct {
	EventBase
	Position Position `json:"position"`
	Intent   Intent   `json:"intent,omitempty"`
}

// FragmentEvent represents a fragment changing visibility.
type FragmentEvent struct {
	EventBase
	Position Position       `json:"position"`
	Handle   FragmentHandle `json:"handle"`
	Index    int            `json:"index"`
}

// LocationEvent represents a location string being published.
type LocationEvent struct {
	EventBase
	Location string `json:"location"`
}

// LifecycleHooks defines callbacks for navigation observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnSlideEnter        func(context.Context, *SlideEvent)
	OnSlideLeave        func(context.Context, *SlideEvent)
	OnFragmentShown     func(context.Context, *FragmentEvent)
	OnFragmentHidden    func(context.Context, *FragmentEvent)
	OnLocationPublished func(context.Context, *LocationEvent)
}

// Merge combines hook sets; each callback invokes all non-nil callbacks in order.
func Merge(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		out.OnSlideEnter = chain(out.OnSlideEnter, h.OnSlideEnter)
		out.OnSlideLeave = chain(out.OnSlideLeave, h.OnSlideLeave)
		out.OnFragmentShown = chain(out.OnFragmentShown, h.OnFragmentShown)
		out.OnFragmentHidden = chain(out.OnFragmentHidden, h.OnFragmentHidden)
		out.OnLocationPublished = chain(out.OnLocationPublished, h.OnLocationPublished)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
