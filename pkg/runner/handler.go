package runner

import (
	"context"
	"errors"

	"github.com/aretw0/lectern/pkg/domain"
)

// ErrQuit is returned by IOHandler.Input when the user asks to leave.
var ErrQuit = errors.New("quit requested")

// View is everything a handler needs to draw one frame.
type View struct {
	Title string        `json:"title,omitempty"`
	Total int           `json:"total"`
	Frame domain.Frame  `json:"frame"`
	Slide *domain.Slide `json:"slide,omitempty"`
}

// VisibleFragments returns the handles of the fragments currently shown.
func (v View) VisibleFragments() []domain.FragmentHandle {
	if v.Slide == nil {
		return nil
	}
	var out []domain.FragmentHandle
	for i, shown := range v.Frame.Fragments {
		if shown && i < len(v.Slide.Fragments) {
			out = append(out, v.Slide.Fragments[i])
		}
	}
	return out
}

// IOHandler defines the strategy for interacting with the presenter.
// This allows switching between Text, Key (raw terminal) and JSON modes.
type IOHandler interface {
	// Output presents a frame.
	Output(ctx context.Context, view View) error

	// Input blocks until the next navigation command.
	// It returns ErrQuit or io.EOF when the presenter is done.
	Input(ctx context.Context) (domain.Command, error)

	// SystemOutput presents a meta-message (errors, reload notices).
	// This is distinct from slide rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms slide content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the runner.
type ContentRenderer func(string) (string, error)

// StatusRenderer formats the status line shown under each slide.
type StatusRenderer func(View) string
