package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"

	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(d *testutils.DeckRepo) *Loader {
	return New(loam.NewTypedRepository[SlideMetadata](d.Repo))
}

func TestLoader_Contract(t *testing.T) {
	d := testutils.NewDeckRepo(t, nil)
	d.Save(t, "a.md", map[string]any{"id": "a", "fragments": []string{"first", "second"}}, "Slide A")
	d.Save(t, "b.md", map[string]any{"id": "b"}, "Slide B")

	deck, err := newLoader(d).Load(context.Background())
	require.NoError(t, err)

	want := &domain.Deck{Slides: []domain.Slide{
		{ID: "a", Fragments: []domain.FragmentHandle{"first", "second"}},
		{ID: "b"},
	}}
	tests.SlideSourceContractTest(t, memory.NewSource(deck), want)
}

// Slides saved with their frontmatter inside the body reach the repository
// index without metadata; the loader must still see ID, fragments and flags.
func TestLoader_Load_SavedInSameProcess(t *testing.T) {
	d := testutils.NewDeckRepo(t, nil)
	d.Save(t, "01-points.md", nil, `---
id: points
title: Points
fragments:
  - first
  - id: second
    text: The second point
metadata:
  notes: speak slowly
---
Body`)
	d.Save(t, "02-draft.md", nil, "---\nid: draft\nhidden: true\n---\nDraft")
	d.Save(t, "03-end.md", nil, "---\nid: end\n---\n# The End")

	deck, err := newLoader(d).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, deck.RowCount(), "hidden slide is skipped")
	points := deck.Slides[0]
	assert.Equal(t, "points", points.ID)
	assert.Equal(t, "Points", points.Title)
	assert.Equal(t, []domain.FragmentHandle{"first", "second"}, points.Fragments)
	assert.Equal(t, "speak slowly", points.Metadata["notes"])

	end := deck.Slides[1]
	assert.Equal(t, "end", end.ID)
	assert.Equal(t, "The End", end.Title)
}

func TestLoader_Load_RowsAndNestedSlides(t *testing.T) {
	d := testutils.NewDeckRepo(t, map[string]string{
		"01-intro.md": `---
title: Welcome
---
Hello`,
		"02-agenda/index.md": `---
id: agenda
---
# Agenda`,
		"02-agenda/01-why.md": `---
fragments:
  - one
  - id: two
    text: The second point
---
Why`,
		"02-agenda/02-how.md": `---
id: how
---
How`,
		"03-end.md": `---
id: end
---
Bye`,
	})

	loader := newLoader(d)
	deck, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, deck.RowCount())
	assert.Equal(t, "01-intro", deck.Slides[0].ID)
	assert.Equal(t, "Welcome", deck.Slides[0].Title)
	assert.Equal(t, 0, deck.ColumnCount(0))

	agenda := deck.Slides[1]
	assert.Equal(t, "agenda", agenda.ID)
	assert.Equal(t, "Agenda", agenda.Title, "title falls back to the first heading")
	require.Len(t, agenda.Nested, 2)
	assert.Equal(t, "02-agenda/01-why", agenda.Nested[0].ID)
	assert.Equal(t, []domain.FragmentHandle{"one", "two"}, agenda.Nested[0].Fragments)
	assert.Equal(t, "how", agenda.Nested[1].ID)

	assert.Equal(t, "end", deck.Slides[2].ID)

	pos, ok := deck.Find("how")
	require.True(t, ok)
	assert.Equal(t, domain.Position{Row: 1, Column: 1}, pos)
}

func TestLoader_Load_DirectoryWithoutIndex(t *testing.T) {
	d := testutils.NewDeckRepo(t, map[string]string{
		"topic/a.md": "---\nid: a\n---\nA",
		"topic/b.md": "---\nid: b\n---\nB",
	})

	deck, err := newLoader(d).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, deck.RowCount())
	assert.Equal(t, "topic", deck.Slides[0].ID)
	assert.Equal(t, 2, deck.ColumnCount(0))
}

func TestLoader_Load_SkipsConfigHiddenAndPrivate(t *testing.T) {
	d := testutils.NewDeckRepo(t, map[string]string{
		"lectern.yaml":   "title: My Talk\n",
		"slide.md":       "---\nid: slide\n---\nVisible",
		"draft.md":       "---\nid: draft\nhidden: true\n---\nNot yet",
		"_partials/x.md": "---\nid: x\n---\nPartial",
	})

	deck, err := newLoader(d).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, deck.RowCount())
	assert.Equal(t, "slide", deck.Slides[0].ID)
}

func TestLoader_Load_DetectsCollisions(t *testing.T) {
	d := testutils.NewDeckRepo(t, map[string]string{
		"foo.md":   "---\nid: foo\n---\nExplicit ID",
		"other.md": "---\nid: foo\n---\nSame ID",
	})

	_, err := newLoader(d).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_Load_Empty(t *testing.T) {
	d := testutils.NewDeckRepo(t, nil)

	_, err := newLoader(d).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)
}

func TestLoader_Load_InvalidFragment(t *testing.T) {
	d := testutils.NewDeckRepo(t, map[string]string{
		"bad.md": "---\nid: bad\nfragments:\n  - text: \"\"\n---\nBad",
	})

	_, err := newLoader(d).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestDecodeFragments(t *testing.T) {
	handles, err := decodeFragments([]any{
		"plain",
		map[string]any{"id": "long", "text": "Long form"},
		map[string]any{"text": "Text only"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.FragmentHandle{"plain", "long", "Text only"}, handles)

	_, err = decodeFragments([]any{true})
	assert.Error(t, err)
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "start", trimExtension("start.md"))
	assert.Equal(t, "topic/a", trimExtension("topic/a.json"))
	assert.Equal(t, "plain", trimExtension("plain"))
}

func TestHeadingOf(t *testing.T) {
	assert.Equal(t, "Title", headingOf("intro\n# Title\n## Sub"))
	assert.Empty(t, headingOf("no heading"))
}
