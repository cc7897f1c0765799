package dsl

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
)

// Builder manages the deck construction.
type Builder struct {
	title string
	rows  []*SlideBuilder
	index map[string]*SlideBuilder
}

// New creates a new deck builder.
func New(title string) *Builder {
	return &Builder{
		title: title,
		index: make(map[string]*SlideBuilder),
	}
}

// Add appends a top-level slide (a new row).
// If the slide already exists, it returns the existing builder.
func (b *Builder) Add(id string) *SlideBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &SlideBuilder{slide: domain.Slide{ID: id}, builder: b}
	b.index[id] = sb
	b.rows = append(b.rows, sb)
	return sb
}

// Deck compiles the slides in insertion order.
func (b *Builder) Deck() (*domain.Deck, error) {
	deck := &domain.Deck{Title: b.title, Slides: make([]domain.Slide, 0, len(b.rows))}
	for i, sb := range b.rows {
		if sb.slide.ID == "" {
			return nil, fmt.Errorf("slide %d missing ID", i)
		}
		deck.Slides = append(deck.Slides, sb.Slide())
	}
	if len(deck.Slides) == 0 {
		return nil, domain.ErrEmptyDeck
	}
	return deck, nil
}

// Build compiles the deck into a memory.Source.
func (b *Builder) Build() (*memory.Source, error) {
	deck, err := b.Deck()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}
	return memory.NewSource(deck), nil
}
