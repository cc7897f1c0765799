package domain

// Frame is the complete visual state a presentation surface must reflect.
// It is a pure projection of (position, routes, fragment visibility) and
// carries no behaviour of its own.
type Frame struct {
	Position Position `json:"position"`
	Location string   `json:"location"`
	Routes   Routes   `json:"routes"`

	// Rows classifies every top-level slide. Columns classifies the nested
	// slides of the present row only and is empty when it has none.
	Rows    []Visibility `json:"rows"`
	Columns []Visibility `json:"columns,omitempty"`

	// Fragments holds the visible flag of each fragment of the active slide, in order.
	Fragments []bool `json:"fragments,omitempty"`

	// FirstSlide marks that the very first top-level slide is on screen.
	FirstSlide bool `json:"first_slide"`
}

// VisibleFragments counts the fragments currently shown.
func (f Frame) VisibleFragments() int {
	n := 0
	for _, v := range f.Fragments {
		if v {
			n++
		}
	}
	return n
}
