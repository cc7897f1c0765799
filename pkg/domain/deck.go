package domain

// FragmentHandle identifies an incrementally revealable element of a slide.
type FragmentHandle string

// Slide is one unit of content. A top-level slide may hold nested slides,
// which form the columns of its row.
type Slide struct {
	ID        string           `json:"id"`
	Title     string           `json:"title,omitempty"`
	Content   string           `json:"content,omitempty"`
	Fragments []FragmentHandle `json:"fragments,omitempty"`
	Nested    []Slide          `json:"nested,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

// Deck is an ordered collection of top-level slides.
// A *Deck satisfies ports.SlideSource.
type Deck struct {
	Title  string  `json:"title,omitempty"`
	Slides []Slide `json:"slides"`
}

// RowCount returns the number of top-level slides.
func (d *Deck) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Slides)
}

// ColumnCount returns the number of nested slides in the given row.
// Out-of-range rows have zero columns.
func (d *Deck) ColumnCount(row int) int {
	if d == nil || row < 0 || row >= len(d.Slides) {
		return 0
	}
	return len(d.Slides[row].Nested)
}

// SlideAt returns the active slide at pos: the nested slide when the row has
// nested slides, otherwise the top-level slide itself.
func (d *Deck) SlideAt(pos Position) (*Slide, bool) {
	if d == nil || pos.Row < 0 || pos.Row >= len(d.Slides) {
		return nil, false
	}
	top := &d.Slides[pos.Row]
	if len(top.Nested) == 0 {
		return top, true
	}
	if pos.Column < 0 || pos.Column >= len(top.Nested) {
		return nil, false
	}
	return &top.Nested[pos.Column], true
}

// Fragments returns the ordered fragment handles of the active slide at pos.
// Fragments declared on a top-level slide that has nested slides are not
// reachable: the nested slide is the scope.
func (d *Deck) Fragments(pos Position) []FragmentHandle {
	s, ok := d.SlideAt(pos)
	if !ok {
		return nil
	}
	return s.Fragments
}

// Find returns the position of the slide with the given ID.
func (d *Deck) Find(id string) (Position, bool) {
	if d == nil {
		return Position{}, false
	}
	for r, top := range d.Slides {
		if top.ID == id {
			return Position{Row: r}, true
		}
		for c, nested := range top.Nested {
			if nested.ID == id {
				return Position{Row: r, Column: c}, true
			}
		}
	}
	return Position{}, false
}
