// Package fragment tracks the incremental reveal of a slide's fragments.
//
// The visible fragments of a scope always form a prefix of its ordered
// handle list: revealing shows the first hidden fragment and hiding hides
// the last visible one.
package fragment

import "github.com/aretw0/lectern/pkg/domain"

// Tracker holds the reveal state of the fragments of one slide.
// The zero value is an empty scope. It is not safe for concurrent use.
type Tracker struct {
	handles []domain.FragmentHandle
	visible int
}

// New returns a tracker scoped to the given handles, all hidden.
func New(handles []domain.FragmentHandle) *Tracker {
	t := &Tracker{}
	t.Rescope(handles)
	return t
}

// Rescope replaces the tracked fragments. Every fragment starts hidden.
func (t *Tracker) Rescope(handles []domain.FragmentHandle) {
	t.handles = append(t.handles[:0], handles...)
	t.visible = 0
}

// RevealNext shows the first hidden fragment.
// It reports false, changing nothing, when every fragment is already visible.
func (t *Tracker) RevealNext() bool {
	if t.visible >= len(t.handles) {
		return false
	}
	t.visible++
	return true
}

// HidePrevious hides the last visible fragment.
// It reports false, changing nothing, when no fragment is visible.
func (t *Tracker) HidePrevious() bool {
	if t.visible == 0 {
		return false
	}
	t.visible--
	return true
}

// Len returns the number of fragments in scope.
func (t *Tracker) Len() int {
	return len(t.handles)
}

// VisibleCount returns how many fragments are shown.
func (t *Tracker) VisibleCount() int {
	return t.visible
}

// HasHidden reports whether a reveal would change anything.
func (t *Tracker) HasHidden() bool {
	return t.visible < len(t.handles)
}

// HasVisible reports whether a hide would change anything.
func (t *Tracker) HasVisible() bool {
	return t.visible > 0
}

// Handle returns the handle at index i.
func (t *Tracker) Handle(i int) domain.FragmentHandle {
	if i < 0 || i >= len(t.handles) {
		return ""
	}
	return t.handles[i]
}

// Handles returns a copy of the tracked handles in order.
func (t *Tracker) Handles() []domain.FragmentHandle {
	return append([]domain.FragmentHandle(nil), t.handles...)
}

// Visibility returns the visible flag of every fragment, in order.
func (t *Tracker) Visibility() []bool {
	if len(t.handles) == 0 {
		return nil
	}
	flags := make([]bool, len(t.handles))
	for i := 0; i < t.visible; i++ {
		flags[i] = true
	}
	return flags
}
