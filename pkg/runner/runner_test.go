package runner_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/runner"
	"github.com/aretw0/lectern/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func talk() *domain.Deck {
	return &domain.Deck{
		Title: "Talk",
		Slides: []domain.Slide{
			{ID: "intro", Content: "Intro"},
			{ID: "points", Content: "Points", Fragments: []domain.FragmentHandle{"first", "second"}},
			{ID: "end", Content: "End"},
		},
	}
}

// scriptedHandler feeds commands from a channel and records every view.
type scriptedHandler struct {
	cmds  chan domain.Command
	views chan runner.View

	mu     sync.Mutex
	system []string
}

func newScripted() *scriptedHandler {
	return &scriptedHandler{
		cmds:  make(chan domain.Command),
		views: make(chan runner.View, 16),
	}
}

func (h *scriptedHandler) Output(_ context.Context, v runner.View) error {
	h.views <- v
	return nil
}

func (h *scriptedHandler) Input(ctx context.Context) (domain.Command, error) {
	select {
	case <-ctx.Done():
		return domain.Command{}, ctx.Err()
	case cmd, ok := <-h.cmds:
		if !ok {
			return domain.Command{}, io.EOF
		}
		return cmd, nil
	}
}

func (h *scriptedHandler) SystemOutput(_ context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.system = append(h.system, msg)
	return nil
}

func (h *scriptedHandler) next(t *testing.T) runner.View {
	t.Helper()
	select {
	case v := <-h.views:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("expected a view")
		return runner.View{}
	}
}

func TestRunner_TextSession(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(memory.NewSource(talk()), store)
	out := &bytes.Buffer{}

	r := runner.NewRunner(
		runner.WithHost(mgr),
		runner.WithSessionID("demo"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("n\nn\nn\ngoto 2\nq\n"), out)),
	)
	require.NoError(t, r.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "[1/3] / →")
	assert.Contains(t, output, "• first")
	assert.Contains(t, output, "• second")
	assert.Contains(t, output, "[3/3] /2 ←")

	record, err := store.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "/2", record.Location)
	assert.Empty(t, mgr.Live(), "the session is exited on return")
}

func TestRunner_ResumesStoredSession(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "demo", domain.NewRecord("demo", "/2")))
	mgr := session.NewManager(memory.NewSource(talk()), store)

	h := newScripted()
	close(h.cmds)
	r := runner.NewRunner(runner.WithHost(mgr), runner.WithSessionID("demo"), runner.WithInputHandler(h))
	require.NoError(t, r.Run(ctx))

	v := h.next(t)
	assert.Equal(t, "/2", v.Frame.Location)
	assert.Equal(t, "end", v.Slide.ID)
	assert.Equal(t, "Talk", v.Title)
	assert.Equal(t, 3, v.Total)
}

func TestRunner_UnknownIntentIsReported(t *testing.T) {
	mgr := session.NewManager(memory.NewSource(talk()), memory.NewStore())
	h := newScripted()
	r := runner.NewRunner(runner.WithHost(mgr), runner.WithInputHandler(h))

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	h.next(t)
	h.cmds <- domain.Command{Intent: "fly"}
	h.cmds <- domain.Command{Intent: domain.IntentRight}
	v := h.next(t)
	assert.Equal(t, "/1", v.Frame.Location)

	close(h.cmds)
	require.NoError(t, <-done)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.system, 1)
	assert.Contains(t, h.system[0], "fly")
}

func TestRunner_HotReload(t *testing.T) {
	src := memory.NewSource(talk())
	mgr := session.NewManager(src, memory.NewStore())
	h := newScripted()
	reload := make(chan struct{})

	r := runner.NewRunner(
		runner.WithHost(mgr),
		runner.WithLocation("/2"),
		runner.WithInputHandler(h),
		runner.WithReload(reload, func(ctx context.Context) error {
			src.Replace(&domain.Deck{Slides: []domain.Slide{{ID: "only", Content: "Only"}}})
			return mgr.Refresh(ctx)
		}),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	assert.Equal(t, "/2", h.next(t).Frame.Location)

	reload <- struct{}{}
	v := h.next(t)
	assert.Equal(t, "/", v.Frame.Location, "the position is clamped to the new deck")
	assert.Equal(t, "only", v.Slide.ID)

	close(h.cmds)
	require.NoError(t, <-done)
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	mgr := session.NewManager(memory.NewSource(talk()), memory.NewStore())
	h := newScripted()
	r := runner.NewRunner(runner.WithHost(mgr), runner.WithInputHandler(h))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	h.next(t)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_RequiresHost(t *testing.T) {
	assert.Error(t, runner.NewRunner().Run(context.Background()))
}
