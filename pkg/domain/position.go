package domain

import "fmt"

// Position identifies a slide in the grid.
// Row is the top-level (horizontal) index, Column the nested (vertical) index
// within that row.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Origin is the first slide of a deck.
var Origin = Position{}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Routes reports which directions are navigable from a position.
// Fragment state never affects routes.
type Routes struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
}

// Any reports whether at least one direction is open.
func (r Routes) Any() bool {
	return r.Left || r.Right || r.Up || r.Down
}

// Visibility classifies a slide relative to the present one.
type Visibility string

const (
	Past    Visibility = "past"
	Present Visibility = "present"
	Future  Visibility = "future"
)

// Classify returns the visibility of index i given the present index.
func Classify(i, present int) Visibility {
	switch {
	case i < present:
		return Past
	case i > present:
		return Future
	default:
		return Present
	}
}
