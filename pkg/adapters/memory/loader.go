package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
)

// Source implements ports.SlideSource and ports.DeckLoader over an in-memory deck.
// The deck can be swapped at runtime with Replace, e.g. after a hot reload.
// Safe for concurrent use.
type Source struct {
	mu      sync.RWMutex
	deck    *domain.Deck
	changes chan struct{}
}

// NewSource wraps a deck. A nil deck is treated as empty.
func NewSource(deck *domain.Deck) *Source {
	if deck == nil {
		deck = &domain.Deck{}
	}
	return &Source{deck: deck, changes: make(chan struct{}, 1)}
}

// NewFromSlides builds a deck from slides, validating that each has an ID.
// This improves DX for tests and examples.
func NewFromSlides(slides ...domain.Slide) (*Source, error) {
	for i, s := range slides {
		if s.ID == "" {
			return nil, fmt.Errorf("slide %d missing ID", i)
		}
		for j, n := range s.Nested {
			if n.ID == "" {
				return nil, fmt.Errorf("slide %s: nested slide %d missing ID", s.ID, j)
			}
		}
	}
	return NewSource(&domain.Deck{Slides: slides}), nil
}

// Load returns the current deck.
func (s *Source) Load(_ context.Context) (*domain.Deck, error) {
	deck := s.Deck()
	if deck.RowCount() == 0 {
		return nil, domain.ErrEmptyDeck
	}
	return deck, nil
}

// Deck returns the current deck.
func (s *Source) Deck() *domain.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deck
}

// Replace swaps the deck and signals watchers.
func (s *Source) Replace(deck *domain.Deck) {
	if deck == nil {
		deck = &domain.Deck{}
	}
	s.mu.Lock()
	s.deck = deck
	s.mu.Unlock()

	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Watch signals after every Replace. Only one watcher is supported.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.changes:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Source) RowCount() int {
	return s.Deck().RowCount()
}

func (s *Source) ColumnCount(row int) int {
	return s.Deck().ColumnCount(row)
}

func (s *Source) Fragments(pos domain.Position) []domain.FragmentHandle {
	return s.Deck().Fragments(pos)
}
