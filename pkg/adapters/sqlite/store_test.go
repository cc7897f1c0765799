package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/sqlite/migrations"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, openTempStore(t))
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "talk", domain.NewRecord("talk", "/5/1")))
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	record, err := store.Load(ctx, "talk")
	require.NoError(t, err)
	assert.Equal(t, "/5/1", record.Location)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, applyMigrations(ctx, store.db, migrations.FS))

	var count int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+migrationTable).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestExtractUp(t *testing.T) {
	sql := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;"
	assert.Equal(t, "\nCREATE TABLE a (x);\n", extractUp(sql))
	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}
