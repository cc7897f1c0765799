package render_test

import (
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/render"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func deck() *domain.Deck {
	return &domain.Deck{Slides: []domain.Slide{
		{ID: "title"},
		{ID: "agenda", Nested: []domain.Slide{{ID: "agenda-1"}, {ID: "agenda-2"}, {ID: "agenda-3"}}},
		{ID: "end"},
	}}
}

func TestRender_ClassifiesRowsAndColumns(t *testing.T) {
	r := render.New(deck())

	got := r.Render(render.Input{
		Position:  domain.Position{Row: 1, Column: 1},
		Routes:    domain.Routes{Left: true, Right: true, Up: true, Down: true},
		Fragments: []bool{true, false},
	})

	want := domain.Frame{
		Position:  domain.Position{Row: 1, Column: 1},
		Routes:    domain.Routes{Left: true, Right: true, Up: true, Down: true},
		Rows:      []domain.Visibility{domain.Past, domain.Present, domain.Future},
		Columns:   []domain.Visibility{domain.Past, domain.Present, domain.Future},
		Fragments: []bool{true, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FirstSlideMarker(t *testing.T) {
	r := render.New(deck())

	assert.True(t, r.Render(render.Input{}).FirstSlide)
	assert.False(t, r.Render(render.Input{Position: domain.Position{Row: 2}}).FirstSlide)

	withNested := &domain.Deck{Slides: []domain.Slide{{ID: "a", Nested: []domain.Slide{{ID: "a0"}}}}}
	assert.False(t, render.New(withNested).Render(render.Input{}).FirstSlide)
}

func TestRender_FlatRowHasNoColumns(t *testing.T) {
	frame := render.New(deck()).Render(render.Input{Position: domain.Position{Row: 2}})

	assert.Nil(t, frame.Columns)
	assert.Nil(t, frame.Fragments)
	assert.Equal(t, []domain.Visibility{domain.Past, domain.Past, domain.Present}, frame.Rows)
}

func TestRender_Idempotent(t *testing.T) {
	r := render.New(deck())
	in := render.Input{Position: domain.Position{Row: 1, Column: 2}, Fragments: []bool{true}}

	first := r.Render(in)
	second := r.Render(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second render differs:\n%s", diff)
	}

	in.Fragments[0] = false
	assert.Equal(t, []bool{true}, first.Fragments, "frame must not alias input")
}

func TestRender_EmptyDeck(t *testing.T) {
	frame := render.New(&domain.Deck{}).Render(render.Input{})

	assert.Empty(t, frame.Rows)
	assert.False(t, frame.FirstSlide)
}
