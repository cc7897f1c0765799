// Package render projects navigation state onto the visual state of a deck.
//
// The Renderer is pure: it reads counts from a SlideSource and never changes
// position or fragment state, so rendering the same input twice yields the
// same Frame.
package render

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Input is the navigation state to project.
type Input struct {
	Position  domain.Position
	Routes    domain.Routes
	Fragments []bool
}

// Renderer classifies slides relative to the present position.
type Renderer struct {
	source ports.SlideSource
}

// New creates a renderer over the given slide source.
func New(source ports.SlideSource) *Renderer {
	return &Renderer{source: source}
}

// Render builds the frame for in. Location is left for the caller to encode.
func (r *Renderer) Render(in Input) domain.Frame {
	rows := r.source.RowCount()
	cols := r.source.ColumnCount(in.Position.Row)

	frame := domain.Frame{
		Position:   in.Position,
		Routes:     in.Routes,
		Rows:       classify(rows, in.Position.Row),
		Columns:    classify(cols, in.Position.Column),
		FirstSlide: rows > 0 && in.Position.Row == 0 && cols == 0,
	}
	if len(in.Fragments) > 0 {
		frame.Fragments = append([]bool(nil), in.Fragments...)
	}
	return frame
}

func classify(count, present int) []domain.Visibility {
	if count <= 0 {
		return nil
	}
	out := make([]domain.Visibility, count)
	for i := range out {
		out[i] = domain.Classify(i, present)
	}
	return out
}
