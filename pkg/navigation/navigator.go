// Package navigation implements the grid navigator: bounds clamping, route
// availability and fragment-first precedence for directional moves.
//
// Nothing in this package returns an error. Out-of-range targets are clamped
// against the live counts of the SlideSource on every call.
package navigation

import (
	"log/slog"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/fragment"
	"github.com/aretw0/lectern/pkg/ports"
)

// StepKind describes what a move did.
type StepKind int

const (
	// StepNone means the move was clamped in place.
	StepNone StepKind = iota
	// StepFragmentShown means a fragment was revealed instead of moving.
	StepFragmentShown
	// StepFragmentHidden means a fragment was hidden instead of moving.
	StepFragmentHidden
	// StepSlide means the position changed.
	StepSlide
)

func (k StepKind) String() string {
	switch k {
	case StepFragmentShown:
		return "fragment_shown"
	case StepFragmentHidden:
		return "fragment_hidden"
	case StepSlide:
		return "slide"
	default:
		return "none"
	}
}

// Step reports the outcome of a navigation call.
type Step struct {
	Kind StepKind
	From domain.Position
	To   domain.Position

	// Fragment is the index of the fragment that changed visibility, or -1.
	Fragment int
}

// Moved reports whether the position changed.
func (s Step) Moved() bool {
	return s.Kind == StepSlide
}

// Navigator owns the current grid position and the fragment tracker of the
// active slide. It is not safe for concurrent use.
type Navigator struct {
	source  ports.SlideSource
	tracker *fragment.Tracker
	pos     domain.Position
	logger  *slog.Logger
}

// Option configures the Navigator.
type Option func(*Navigator)

// WithLogger configures a logger for the Navigator.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// New creates a navigator at the origin, scoped to the fragments of the first slide.
func New(source ports.SlideSource, opts ...Option) *Navigator {
	n := &Navigator{
		source:  source,
		tracker: &fragment.Tracker{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.pos = n.clamp(domain.Origin)
	n.Rescope()
	return n
}

// Position returns the current position.
func (n *Navigator) Position() domain.Position {
	return n.pos
}

// Fragments returns the fragment tracker of the active slide.
func (n *Navigator) Fragments() *fragment.Tracker {
	return n.tracker
}

// Routes returns which directions lead somewhere from the current position,
// computed from the live counts.
func (n *Navigator) Routes() domain.Routes {
	rows := n.source.RowCount()
	cols := n.source.ColumnCount(n.pos.Row)
	return domain.Routes{
		Left:  n.pos.Row > 0,
		Right: n.pos.Row < rows-1,
		Up:    n.pos.Column > 0,
		Down:  n.pos.Column < cols-1,
	}
}

// Rescope resets the fragment tracker to the fragments of the active slide.
func (n *Navigator) Rescope() {
	n.tracker.Rescope(n.source.Fragments(n.pos))
}

// MoveTo sets the position. A nil coordinate keeps its current value.
// Each coordinate is clamped independently; the column is clamped against
// the target row.
func (n *Navigator) MoveTo(row, column *int) Step {
	target := n.pos
	if row != nil {
		target.Row = *row
	}
	if column != nil {
		target.Column = *column
	}
	return n.jump(target)
}

// Sync applies a decoded external position. Unlike MoveTo the fragment
// tracker is always reset, even when the position is unchanged.
func (n *Navigator) Sync(pos domain.Position) Step {
	step := n.jump(pos)
	if !step.Moved() {
		n.Rescope()
	}
	return step
}

// MoveLeft hides the last visible fragment, or moves to the previous row at column 0.
func (n *Navigator) MoveLeft() Step {
	if step, ok := n.hide(); ok {
		return step
	}
	return n.jump(domain.Position{Row: n.pos.Row - 1, Column: 0})
}

// MoveRight reveals the next hidden fragment, or moves to the next row at column 0.
func (n *Navigator) MoveRight() Step {
	if step, ok := n.reveal(); ok {
		return step
	}
	return n.jump(domain.Position{Row: n.pos.Row + 1, Column: 0})
}

// MoveUp hides the last visible fragment, or moves to the previous column.
func (n *Navigator) MoveUp() Step {
	if step, ok := n.hide(); ok {
		return step
	}
	return n.jump(domain.Position{Row: n.pos.Row, Column: n.pos.Column - 1})
}

// MoveDown reveals the next hidden fragment, or moves to the next column.
func (n *Navigator) MoveDown() Step {
	if step, ok := n.reveal(); ok {
		return step
	}
	return n.jump(domain.Position{Row: n.pos.Row, Column: n.pos.Column + 1})
}

// Refresh re-clamps the current position after the source changed shape.
// The tracker is rescoped when the position moves or the fragment list differs.
func (n *Navigator) Refresh() Step {
	step := n.jump(n.pos)
	if !step.Moved() && !sameHandles(n.tracker.Handles(), n.source.Fragments(n.pos)) {
		n.Rescope()
	}
	return step
}

func (n *Navigator) reveal() (Step, bool) {
	if !n.tracker.RevealNext() {
		return Step{}, false
	}
	return Step{Kind: StepFragmentShown, From: n.pos, To: n.pos, Fragment: n.tracker.VisibleCount() - 1}, true
}

func (n *Navigator) hide() (Step, bool) {
	if !n.tracker.HidePrevious() {
		return Step{}, false
	}
	return Step{Kind: StepFragmentHidden, From: n.pos, To: n.pos, Fragment: n.tracker.VisibleCount()}, true
}

func (n *Navigator) jump(target domain.Position) Step {
	from := n.pos
	to := n.clamp(target)
	if to == from {
		return Step{Kind: StepNone, From: from, To: to, Fragment: -1}
	}

	n.pos = to
	n.Rescope()
	n.logger.Debug("slide changed", "from", from.String(), "to", to.String(), "fragments", n.tracker.Len())
	return Step{Kind: StepSlide, From: from, To: to, Fragment: -1}
}

// clamp bounds the row first, then the column against the bounded row.
func (n *Navigator) clamp(p domain.Position) domain.Position {
	row := Clamp(p.Row, n.source.RowCount())
	return domain.Position{
		Row:    row,
		Column: Clamp(p.Column, n.source.ColumnCount(row)),
	}
}

// Clamp bounds v into [0, count-1]. A zero or negative count forces 0.
func Clamp(v, count int) int {
	if count <= 0 || v < 0 {
		return 0
	}
	if v > count-1 {
		return count - 1
	}
	return v
}

func sameHandles(a, b []domain.FragmentHandle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
