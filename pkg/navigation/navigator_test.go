package navigation_test

import (
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(rows int) *domain.Deck {
	d := &domain.Deck{}
	for i := 0; i < rows; i++ {
		d.Slides = append(d.Slides, domain.Slide{ID: string(rune('a' + i))})
	}
	return d
}

func frags(n int) []domain.FragmentHandle {
	out := make([]domain.FragmentHandle, n)
	for i := range out {
		out[i] = domain.FragmentHandle(string(rune('0' + i)))
	}
	return out
}

func TestNavigator_RightClampsAtLastRow(t *testing.T) {
	nav := navigation.New(flat(4))

	var visited []domain.Position
	for i := 0; i < 5; i++ {
		nav.MoveRight()
		visited = append(visited, nav.Position())
	}

	assert.Equal(t, []domain.Position{
		{Row: 1}, {Row: 2}, {Row: 3}, {Row: 3}, {Row: 3},
	}, visited)
}

func TestNavigator_RevealsFragmentsBeforeMoving(t *testing.T) {
	deck := flat(3)
	deck.Slides[1].Fragments = frags(3)
	nav := navigation.New(deck)
	nav.MoveTo(domain.Ptr(1), domain.Ptr(0))
	require.Equal(t, 0, nav.Fragments().VisibleCount())

	for i := 0; i < 3; i++ {
		step := nav.MoveRight()
		assert.Equal(t, navigation.StepFragmentShown, step.Kind)
		assert.Equal(t, i, step.Fragment)
		assert.Equal(t, domain.Position{Row: 1}, nav.Position())
	}

	step := nav.MoveRight()
	assert.Equal(t, navigation.StepSlide, step.Kind)
	assert.Equal(t, domain.Position{Row: 2}, nav.Position())
}

func TestNavigator_HidesFragmentsBeforeMovingBack(t *testing.T) {
	deck := flat(2)
	deck.Slides[1].Fragments = frags(2)
	nav := navigation.New(deck)
	nav.MoveRight()
	nav.MoveRight()
	nav.MoveRight()
	require.Equal(t, 2, nav.Fragments().VisibleCount())

	assert.Equal(t, navigation.StepFragmentHidden, nav.MoveLeft().Kind)
	assert.Equal(t, navigation.StepFragmentHidden, nav.MoveUp().Kind)
	assert.Equal(t, domain.Position{Row: 1}, nav.Position())

	assert.True(t, nav.MoveLeft().Moved())
	assert.Equal(t, domain.Position{Row: 0}, nav.Position())
}

func TestNavigator_FragmentsResetOnSlideChange(t *testing.T) {
	deck := flat(2)
	deck.Slides[0].Fragments = frags(1)
	nav := navigation.New(deck)
	nav.MoveRight()
	nav.MoveRight()
	require.Equal(t, domain.Position{Row: 1}, nav.Position())

	nav.MoveLeft()
	assert.Equal(t, domain.Position{Row: 0}, nav.Position())
	assert.Equal(t, []bool{false}, nav.Fragments().Visibility())
}

func nested() *domain.Deck {
	return &domain.Deck{Slides: []domain.Slide{
		{ID: "a"},
		{ID: "b", Nested: []domain.Slide{{ID: "b0"}, {ID: "b1", Fragments: frags(2)}, {ID: "b2"}}},
		{ID: "c"},
	}}
}

func TestNavigator_VerticalMoves(t *testing.T) {
	nav := navigation.New(nested())
	nav.MoveRight()

	nav.MoveDown()
	assert.Equal(t, domain.Position{Row: 1, Column: 1}, nav.Position())
	assert.Equal(t, 2, nav.Fragments().Len(), "nested slide owns the fragment scope")

	nav.MoveDown()
	nav.MoveDown()
	assert.Equal(t, domain.Position{Row: 1, Column: 1}, nav.Position())
	nav.MoveDown()
	assert.Equal(t, domain.Position{Row: 1, Column: 2}, nav.Position())
	nav.MoveDown()
	assert.Equal(t, domain.Position{Row: 1, Column: 2}, nav.Position(), "clamped at last column")

	nav.MoveRight()
	assert.Equal(t, domain.Position{Row: 2, Column: 0}, nav.Position(), "row change resets column")

	nav.MoveLeft()
	assert.Equal(t, domain.Position{Row: 1, Column: 0}, nav.Position())
}

func TestNavigator_UpOnFlatSlideStays(t *testing.T) {
	nav := navigation.New(flat(2))
	step := nav.MoveUp()
	assert.Equal(t, navigation.StepNone, step.Kind)
	step = nav.MoveDown()
	assert.Equal(t, navigation.StepNone, step.Kind)
	assert.Equal(t, domain.Origin, nav.Position())
}

func TestNavigator_MoveTo(t *testing.T) {
	nav := navigation.New(nested())

	nav.MoveTo(domain.Ptr(1), domain.Ptr(2))
	assert.Equal(t, domain.Position{Row: 1, Column: 2}, nav.Position())

	nav.MoveTo(nil, domain.Ptr(0))
	assert.Equal(t, domain.Position{Row: 1, Column: 0}, nav.Position(), "omitted row is kept")

	nav.MoveTo(domain.Ptr(99), domain.Ptr(99))
	assert.Equal(t, domain.Position{Row: 2, Column: 0}, nav.Position(), "column clamps against the target row")

	nav.MoveTo(domain.Ptr(-5), nil)
	assert.Equal(t, domain.Origin, nav.Position())

	step := nav.MoveTo(nil, nil)
	assert.Equal(t, navigation.StepNone, step.Kind)
}

func TestNavigator_Routes(t *testing.T) {
	nav := navigation.New(nested())
	assert.Equal(t, domain.Routes{Right: true}, nav.Routes())

	nav.MoveTo(domain.Ptr(1), domain.Ptr(1))
	assert.Equal(t, domain.Routes{Left: true, Right: true, Up: true, Down: true}, nav.Routes())

	nav.MoveTo(domain.Ptr(2), nil)
	assert.Equal(t, domain.Routes{Left: true}, nav.Routes())
}

func TestNavigator_RoutesIgnoreFragments(t *testing.T) {
	deck := flat(1)
	deck.Slides[0].Fragments = frags(3)
	nav := navigation.New(deck)

	assert.False(t, nav.Routes().Any())
	assert.Equal(t, navigation.StepFragmentShown, nav.MoveRight().Kind)
}

func TestNavigator_EmptyDeck(t *testing.T) {
	nav := navigation.New(&domain.Deck{})

	nav.MoveRight()
	nav.MoveDown()
	nav.MoveTo(domain.Ptr(3), domain.Ptr(4))

	assert.Equal(t, domain.Origin, nav.Position())
	assert.False(t, nav.Routes().Any())
}

func TestNavigator_Sync(t *testing.T) {
	deck := flat(2)
	deck.Slides[1].Fragments = frags(2)
	nav := navigation.New(deck)
	nav.MoveRight()
	nav.MoveRight()
	require.Equal(t, 1, nav.Fragments().VisibleCount())

	step := nav.Sync(domain.Position{Row: 1})
	assert.False(t, step.Moved())
	assert.Equal(t, 0, nav.Fragments().VisibleCount(), "external sync resets fragments")

	nav.Sync(domain.Position{Row: 40, Column: 2})
	assert.Equal(t, domain.Position{Row: 1}, nav.Position())
}

func TestNavigator_RefreshAfterShrink(t *testing.T) {
	deck := flat(4)
	nav := navigation.New(deck)
	nav.MoveTo(domain.Ptr(3), nil)

	deck.Slides = deck.Slides[:2]
	step := nav.Refresh()

	assert.True(t, step.Moved())
	assert.Equal(t, domain.Position{Row: 1}, nav.Position())
}

func TestNavigator_BoundsHoldUnderRandomWalk(t *testing.T) {
	deck := nested()
	nav := navigation.New(deck)
	moves := []func() navigation.Step{nav.MoveLeft, nav.MoveRight, nav.MoveUp, nav.MoveDown}

	for i := 0; i < 500; i++ {
		moves[(i*7+i/3)%4]()
		pos := nav.Position()
		assert.GreaterOrEqual(t, pos.Row, 0)
		assert.Less(t, pos.Row, deck.RowCount())
		cols := deck.ColumnCount(pos.Row)
		if cols == 0 {
			assert.Equal(t, 0, pos.Column)
		} else {
			assert.Less(t, pos.Column, cols)
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, navigation.Clamp(5, 0))
	assert.Equal(t, 0, navigation.Clamp(-1, 3))
	assert.Equal(t, 2, navigation.Clamp(9, 3))
	assert.Equal(t, 1, navigation.Clamp(1, 3))
}
