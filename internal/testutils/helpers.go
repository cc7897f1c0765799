package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// DeckRepo is a throwaway Loam repository holding slide documents.
type DeckRepo struct {
	Dir  string
	Repo core.Repository
}

// NewDeckRepo initializes a Loam repository in a temp dir and writes files
// into it. Keys are slash separated paths relative to the deck root, so
// "02-agenda/index.md" creates a directory row.
func NewDeckRepo(t *testing.T, files map[string]string, opts ...loam.Option) *DeckRepo {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	d := &DeckRepo{Dir: dir, Repo: repo}
	d.Write(t, files)
	return d
}

// Write puts raw slide files on disk, bypassing the repository.
func (d *DeckRepo) Write(t *testing.T, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(d.Dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// Save stores a slide through Loam in the same process that later reads it.
// front becomes the document frontmatter; nil keeps any frontmatter already
// written into body.
func (d *DeckRepo) Save(t *testing.T, id string, front map[string]any, body string) {
	t.Helper()
	doc := core.Document{ID: id, Content: body}
	if front != nil {
		doc.Metadata = core.Metadata(front)
	}
	require.NoError(t, d.Repo.Save(context.Background(), doc), "Failed to save slide %s", id)
}
