package lectern_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
)

func writeDeck(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestNew_FromDirectory(t *testing.T) {
	dir := writeDeck(t, map[string]string{
		"01-intro.md":         "---\nid: intro\n---\n# Intro",
		"02-demo/index.md":    "---\nid: demo\n---\n# Demo",
		"02-demo/01-setup.md": "---\nid: setup\nfragments: [install, run]\n---\n# Setup",
		"lectern.yaml":        "title: Conference Talk\ninitial_position: {row: 1}\n",
	})

	eng, err := lectern.New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), eng.Name)
	assert.Equal(t, "Conference Talk", eng.Deck().Title)
	assert.Equal(t, 2, eng.Deck().RowCount())
	assert.Equal(t, domain.Position{Row: 1}, eng.Settings().InitialPosition)

	frame, err := eng.Sessions().Enter(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "/1", frame.Location, "sessions start at the configured initial position")
}

func TestNew_Errors(t *testing.T) {
	_, err := lectern.New("")
	assert.Error(t, err, "a path or a loader is required")

	_, err = lectern.New("", lectern.WithLoader(memory.NewSource(nil)))
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)
}

func TestNew_InitialPositionOption(t *testing.T) {
	loader, err := memory.NewFromSlides(domain.Slide{ID: "a"}, domain.Slide{ID: "b"}, domain.Slide{ID: "c"})
	require.NoError(t, err)

	eng, err := lectern.New("", lectern.WithLoader(loader), lectern.WithInitialPosition(domain.Position{Row: 2}))
	require.NoError(t, err)

	frame, err := eng.Sessions().Enter(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "/2", frame.Location)
}

func TestEngine_Reload(t *testing.T) {
	loader, err := memory.NewFromSlides(domain.Slide{ID: "a"}, domain.Slide{ID: "b"}, domain.Slide{ID: "c"})
	require.NoError(t, err)
	store := memory.NewStore()

	eng, err := lectern.New("", lectern.WithLoader(loader), lectern.WithStore(store))
	require.NoError(t, err)
	ctx := context.Background()
	_, err = eng.Sessions().Enter(ctx, "s1", "/2")
	require.NoError(t, err)

	loader.Replace(&domain.Deck{Slides: []domain.Slide{{ID: "a"}}})
	require.NoError(t, eng.Reload(ctx))
	assert.Equal(t, 1, eng.Deck().RowCount())

	record, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/", record.Location, "live sessions are clamped to the new deck")
}

func TestEngine_ReloadFailureKeepsDeck(t *testing.T) {
	loader, err := memory.NewFromSlides(domain.Slide{ID: "a"}, domain.Slide{ID: "b"})
	require.NoError(t, err)

	eng, err := lectern.New("", lectern.WithLoader(loader))
	require.NoError(t, err)

	loader.Replace(nil)
	assert.ErrorIs(t, eng.Reload(context.Background()), domain.ErrEmptyDeck)
	assert.Equal(t, 2, eng.Deck().RowCount())
}

type staticLoader struct{ deck *domain.Deck }

func (l staticLoader) Load(context.Context) (*domain.Deck, error) { return l.deck, nil }

func TestEngine_Watch(t *testing.T) {
	eng, err := lectern.New("", lectern.WithLoader(staticLoader{deck: &domain.Deck{Slides: []domain.Slide{{ID: "a"}}}}))
	require.NoError(t, err)

	_, err = eng.Watch(context.Background())
	assert.ErrorIs(t, err, lectern.ErrWatchUnsupported)
}
