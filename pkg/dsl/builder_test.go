package dsl

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern/pkg/domain"
)

func TestBuilder_Deck(t *testing.T) {
	deck, err := New("Talk").
		Add("intro").Title("Intro").Text("# Intro").
		Add("points").Fragments("a", "b").Meta("layout", "two-columns").
		Add("detail").
		Nest("d0").Title("First").
		Nest("d1").Fragments("x").
		Deck()
	require.NoError(t, err)

	want := &domain.Deck{
		Title: "Talk",
		Slides: []domain.Slide{
			{ID: "intro", Title: "Intro", Content: "# Intro"},
			{ID: "points", Fragments: []domain.FragmentHandle{"a", "b"}, Metadata: map[string]any{"layout": "two-columns"}},
			{ID: "detail", Nested: []domain.Slide{
				{ID: "d0", Title: "First"},
				{ID: "d1", Fragments: []domain.FragmentHandle{"x"}},
			}},
		},
	}
	if diff := cmp.Diff(want, deck); diff != "" {
		t.Errorf("deck mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("")
	b.Add("a").Title("First")
	b.Add("b")
	b.Add("a").Text("again")

	deck, err := b.Deck()
	require.NoError(t, err)
	require.Len(t, deck.Slides, 2)
	assert.Equal(t, "First", deck.Slides[0].Title)
	assert.Equal(t, "again", deck.Slides[0].Content)
}

func TestBuilder_Build(t *testing.T) {
	src, err := New("Talk").Add("a").Add("b").Nest("b0").Nest("b1").Build()
	require.NoError(t, err)

	assert.Equal(t, 2, src.RowCount())
	assert.Equal(t, 2, src.ColumnCount(1))

	deck, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Talk", deck.Title)
}

func TestBuilder_ChainEndsOnAnySlide(t *testing.T) {
	// The chain keeps going after nested slides and may end on any of them.
	src, err := New("Built with Go").
		Add("start").Title("Hello").
		Add("more").
		Nest("down").Text("# Nested").
		Nest("deeper").
		Add("end").Text("# Goodbye!").
		Build()
	require.NoError(t, err)
	assert.Equal(t, 3, src.RowCount())
	assert.Equal(t, 2, src.ColumnCount(1))
	assert.Equal(t, 0, src.ColumnCount(2))

	b := New("Talk")
	last := b.Add("a").Nest("a0").Nest("a1")
	fromNested, err := last.Deck()
	require.NoError(t, err)
	fromBuilder, err := b.Deck()
	require.NoError(t, err)
	if diff := cmp.Diff(fromBuilder, fromNested); diff != "" {
		t.Errorf("deck from nested slide differs (-builder +nested):\n%s", diff)
	}

	_, err = New("").Add("x").Nest("").Add("").Build()
	assert.ErrorContains(t, err, "slide 1 missing ID")
}

func TestSlideBuilder_Slide(t *testing.T) {
	row := New("").Add("detail").Title("Detail")
	row.Nest("d0").Fragments("x")

	got := row.Slide()
	assert.Equal(t, "detail", got.ID)
	require.Len(t, got.Nested, 1)
	assert.Equal(t, []domain.FragmentHandle{"x"}, got.Nested[0].Fragments)

	got.Nested[0].ID = "changed"
	assert.Equal(t, "d0", row.Slide().Nested[0].ID, "snapshots do not alias the builder")
}

func TestBuilder_Errors(t *testing.T) {
	_, err := New("empty").Build()
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)

	_, err = New("").Add("").Build()
	assert.ErrorContains(t, err, "slide 0 missing ID")
}
