package ports

import "github.com/aretw0/lectern/pkg/domain"

// SlideSource answers structural questions about the deck.
// Counts are queried live on every navigation step, so an implementation
// may change underneath a running session.
type SlideSource interface {
	// RowCount returns the number of top-level slides.
	RowCount() int

	// ColumnCount returns the number of nested slides in a row (0 if none or out of range).
	ColumnCount(row int) int

	// Fragments returns the ordered fragment handles of the active slide at pos.
	Fragments(pos domain.Position) []domain.FragmentHandle
}
