package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/runner"
)

func writeDeck(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"01-intro.md":  "---\nid: intro\n---\n# Intro",
		"02-points.md": "---\nid: points\nfragments: [one]\n---\n# Points",
		"03-end.md":    "---\nid: end\n---\n# End",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// locations extracts the frame locations from NDJSON output.
func locations(t *testing.T, out string) []string {
	t.Helper()
	var locs []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var msg runner.Message
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		if msg.Type == runner.MessageFrame {
			locs = append(locs, msg.View.Frame.Location)
		}
	}
	return locs
}

func TestPresent_JSONResumes(t *testing.T) {
	deck := writeDeck(t)
	sessions := t.TempDir()
	ctx := context.Background()

	var out bytes.Buffer
	err := Present(ctx, PresentOptions{
		DeckPath:   deck,
		SessionDir: sessions,
		JSON:       true,
		Stdin:      strings.NewReader("right\n{\"intent\":\"right\"}\nq\n"),
		Stdout:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/1", "/1"}, locations(t, out.String()))

	out.Reset()
	err = Present(ctx, PresentOptions{
		DeckPath:   deck,
		SessionDir: sessions,
		JSON:       true,
		Stdin:      strings.NewReader(""),
		Stdout:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/1"}, locations(t, out.String()), "the stored location is resumed")

	out.Reset()
	err = Present(ctx, PresentOptions{
		DeckPath:   deck,
		SessionDir: sessions,
		JSON:       true,
		Fresh:      true,
		Stdin:      strings.NewReader(""),
		Stdout:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/"}, locations(t, out.String()), "fresh drops the stored location")
}

func TestPresent_TextAtLocation(t *testing.T) {
	var out bytes.Buffer
	err := Present(context.Background(), PresentOptions{
		DeckPath:   writeDeck(t),
		SessionDir: t.TempDir(),
		Location:   "/2",
		Stdin:      strings.NewReader("quit\n"),
		Stdout:     &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), ">>> Presenting")
	assert.Contains(t, out.String(), "End")
	assert.Contains(t, out.String(), "[3/3]")
}

func TestPresent_Errors(t *testing.T) {
	err := Present(context.Background(), PresentOptions{DeckPath: writeDeck(t), Keys: true, JSON: true})
	assert.ErrorContains(t, err, "cannot be used together")

	err = Present(context.Background(), PresentOptions{
		DeckPath:   t.TempDir(),
		SessionDir: t.TempDir(),
		Stdin:      strings.NewReader(""),
		Stdout:     io.Discard,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Validate(context.Background(), writeDeck(t), &out))
	assert.Contains(t, out.String(), "Deck is valid!")

	out.Reset()
	assert.Error(t, Validate(context.Background(), t.TempDir(), &out))
}

func TestGraph(t *testing.T) {
	deck := writeDeck(t)
	sessionDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sessionDir, "talk.json"),
		[]byte(`{"session_id":"talk","location":"/1"}`), 0o644))

	var out bytes.Buffer
	err := Graph(context.Background(), deck, "talk", SessionOptions{Store: "file", SessionDir: sessionDir, Out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "graph LR")
	assert.Contains(t, out.String(), "class r1 current;")
}

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, "a", domain.NewRecord("a", "/2/1")))
	require.NoError(t, store.Save(ctx, "b", domain.NewRecord("b", "/")))

	var out bytes.Buffer
	require.NoError(t, listSessions(ctx, store, &out))
	assert.Contains(t, out.String(), "- a at /2/1")
	assert.Contains(t, out.String(), "- b at /")

	out.Reset()
	require.NoError(t, inspectSession(ctx, store, &out, "a"))
	assert.Contains(t, out.String(), `"location": "/2/1"`)
	assert.ErrorIs(t, inspectSession(ctx, store, &out, "ghost"), domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, removeSessions(ctx, store, &out, false, "a"))
	assert.Contains(t, out.String(), "Removed session 'a'")

	require.NoError(t, removeSessions(ctx, store, &out, true))
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	out.Reset()
	require.NoError(t, listSessions(ctx, store, &out))
	assert.Contains(t, out.String(), "No stored sessions found.")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func TestCreateDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := createDebugHooks(logger)

	hooks.OnLocationPublished(context.Background(), &domain.LocationEvent{
		EventBase: domain.EventBase{SessionID: "s1"},
		Location:  "/2",
	})
	hooks.OnFragmentShown(context.Background(), &domain.FragmentEvent{Handle: "one"})

	assert.Contains(t, buf.String(), "Location Published")
	assert.Contains(t, buf.String(), "location=/2")
	assert.Contains(t, buf.String(), "handle=one")
}

func TestNewHandler(t *testing.T) {
	h, closeFn, err := newHandler(PresentOptions{JSON: true, Stdin: strings.NewReader(""), Stdout: io.Discard}, "")
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &runner.JSONHandler{}, h)

	h, closeFn, err = newHandler(PresentOptions{Keys: true, Stdin: strings.NewReader(""), Stdout: io.Discard}, "notty")
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &runner.KeyHandler{}, h)

	h, closeFn, err = newHandler(PresentOptions{Stdin: strings.NewReader(""), Stdout: io.Discard}, "notty")
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &runner.TextHandler{}, h)
}
