package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) ([]domain.Command, error) {
	t.Helper()
	h, err := NewKeyHandler(strings.NewReader(input), io.Discard)
	require.NoError(t, err)
	assert.False(t, h.Raw(), "a plain reader is never put in raw mode")

	var cmds []domain.Command
	for {
		cmd, err := h.Input(context.Background())
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, cmd)
	}
}

func TestKeyHandler_DecodesKeys(t *testing.T) {
	cmds, err := readAll(t, " \rlhjk\x7f\x1b[A\x1b[B\x1b[C\x1b[D\x1b[6~x")
	assert.ErrorIs(t, err, io.EOF)

	var intents []domain.Intent
	for _, c := range cmds {
		intents = append(intents, c.Intent)
	}
	assert.Equal(t, []domain.Intent{
		domain.IntentRight, domain.IntentRight, domain.IntentRight,
		domain.IntentLeft, domain.IntentDown, domain.IntentUp, domain.IntentLeft,
		domain.IntentUp, domain.IntentDown, domain.IntentRight, domain.IntentLeft,
		domain.IntentRight,
	}, intents, "unbound keys are ignored")
}

func TestKeyHandler_FirstAndLast(t *testing.T) {
	cmds, _ := readAll(t, "gG")
	require.Len(t, cmds, 2)
	assert.Equal(t, domain.GoTo(domain.Ptr(0), domain.Ptr(0)), cmds[0])
	assert.Equal(t, domain.IntentGoTo, cmds[1].Intent)
}

func TestKeyHandler_Quit(t *testing.T) {
	for _, input := range []string{"nqn", "n\x03n", "n\x1b"} {
		cmds, err := readAll(t, input)
		assert.ErrorIs(t, err, ErrQuit)
		assert.Len(t, cmds, 1, "keys after quit are not read")
	}
}

func TestKeyHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h, err := NewKeyHandler(strings.NewReader(""), out)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Output(context.Background(), sampleView()))
	assert.Contains(t, out.String(), "# Points")
	assert.NotContains(t, out.String(), clearScreen)
	assert.NotContains(t, out.String(), "\r\n")
}
