package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() View {
	return View{
		Title: "Talk",
		Total: 3,
		Frame: domain.Frame{
			Position:  domain.Position{Row: 1},
			Location:  "/1",
			Routes:    domain.Routes{Left: true, Right: true},
			Fragments: []bool{true, false},
		},
		Slide: &domain.Slide{
			ID:        "points",
			Content:   "# Points",
			Fragments: []domain.FragmentHandle{"first", "second"},
		},
	}
}

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	require.NoError(t, handler.Output(context.Background(), sampleView()))

	output := outBuf.String()
	assert.Contains(t, output, "Rendered: # Points")
	assert.Contains(t, output, "• first")
	assert.NotContains(t, output, "second")
	assert.Contains(t, output, "(1 more)")
	assert.Contains(t, output, "[2/3] /1 ←→")
}

func TestTextHandler_Output_EmptyDeck(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	require.NoError(t, handler.Output(context.Background(), View{}))
	assert.Contains(t, outBuf.String(), "(empty deck)")
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("dance\ngoto 2 1\nq\n"), outBuf)
	ctx := context.Background()

	cmd, err := handler.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.GoTo(domain.Ptr(2), domain.Ptr(1)), cmd, "invalid lines are re-prompted")
	assert.Contains(t, outBuf.String(), "Please try again")

	_, err = handler.Input(ctx)
	assert.ErrorIs(t, err, ErrQuit)
}

func TestTextHandler_Input_EOF(t *testing.T) {
	handler := NewTextHandler(strings.NewReader("next"), io.Discard)

	cmd, err := handler.Input(context.Background())
	require.NoError(t, err, "a final line without newline is still read")
	assert.Equal(t, domain.IntentRight, cmd.Intent)

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_Input_RespectsContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	handler := NewTextHandler(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestArrows(t *testing.T) {
	assert.Equal(t, "←↑↓→", Arrows(domain.Routes{Left: true, Right: true, Up: true, Down: true}))
	assert.Empty(t, Arrows(domain.Routes{}))
}
