package dsl

import (
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
)

// SlideBuilder provides a fluent API for configuring a slide.
type SlideBuilder struct {
	slide   domain.Slide
	nested  []*SlideBuilder
	parent  *SlideBuilder
	builder *Builder
}

// Title sets the slide title.
func (s *SlideBuilder) Title(title string) *SlideBuilder {
	s.slide.Title = title
	return s
}

// Text sets the Markdown content of the slide.
func (s *SlideBuilder) Text(content string) *SlideBuilder {
	s.slide.Content = content
	return s
}

// Fragments appends fragment handles in reveal order.
func (s *SlideBuilder) Fragments(handles ...string) *SlideBuilder {
	for _, h := range handles {
		s.slide.Fragments = append(s.slide.Fragments, domain.FragmentHandle(h))
	}
	return s
}

// Meta adds a metadata value to the slide.
func (s *SlideBuilder) Meta(key string, value any) *SlideBuilder {
	if s.slide.Metadata == nil {
		s.slide.Metadata = make(map[string]any)
	}
	s.slide.Metadata[key] = value
	return s
}

// Nest appends a nested slide (a new column) below this row and returns it.
// Nesting is one level deep: calling Nest on a nested slide adds a sibling.
func (s *SlideBuilder) Nest(id string) *SlideBuilder {
	row := s
	if s.parent != nil {
		row = s.parent
	}
	child := &SlideBuilder{slide: domain.Slide{ID: id}, parent: row, builder: s.builder}
	row.nested = append(row.nested, child)
	return child
}

// Add starts the next top-level slide.
func (s *SlideBuilder) Add(id string) *SlideBuilder {
	return s.builder.Add(id)
}

// Deck compiles the whole deck this slide belongs to, so a chain can end on
// any slide.
func (s *SlideBuilder) Deck() (*domain.Deck, error) {
	return s.builder.Deck()
}

// Build compiles the whole deck this slide belongs to into a memory.Source.
func (s *SlideBuilder) Build() (*memory.Source, error) {
	return s.builder.Build()
}

// Slide returns a snapshot of this slide and its nested slides.
func (s *SlideBuilder) Slide() domain.Slide {
	slide := s.slide
	slide.Nested = nil
	for _, n := range s.nested {
		slide.Nested = append(slide.Nested, n.Slide())
	}
	return slide
}
