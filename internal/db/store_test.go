package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/storybuilder/internal/kv"

	_ "modernc.org/sqlite"
)

// createTestDB creates an in-memory SQLite database with the kv schema.
func createTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a fresh database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	require.NoError(t, err, "create schema")
	t.Cleanup(func() { db.Close() })

	return db
}

func TestGetMissingKey(t *testing.T) {
	store := &Store{db: createTestDB(t)}

	value, ok, err := store.Get(context.Background(), "spaceStories")
	require.NoError(t, err)
	assert.False(t, ok, "value %q for missing key", value)
}

func TestSetOverwrites(t *testing.T) {
	rawDB := createTestDB(t)
	store := &Store{db: rawDB}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "spaceStories", `[]`))
	require.NoError(t, store.Set(ctx, "spaceStories", `[{"title":"A"}]`))

	value, ok, err := store.Get(ctx, "spaceStories")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"title":"A"}]`, value)

	var rows int
	require.NoError(t, rawDB.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows))
	assert.Equal(t, 1, rows)

	var updatedAt float64
	require.NoError(t, rawDB.QueryRow(`SELECT updatedAt FROM kv WHERE key = 'spaceStories'`).Scan(&updatedAt))
	assert.Positive(t, updatedAt)
}

func TestRemove(t *testing.T) {
	store := &Store{db: createTestDB(t)}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "spaceStories", `[]`))
	require.NoError(t, store.Remove(ctx, "spaceStories"))
	require.NoError(t, store.Remove(ctx, "spaceStories"), "removing a missing key")

	_, ok, err := store.Get(ctx, "spaceStories")
	require.NoError(t, err)
	assert.False(t, ok, "key still present after Remove")
}

func TestTake(t *testing.T) {
	store := &Store{db: createTestDB(t)}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "editingStory", `{"index":2}`))

	value, ok, err := store.Take(ctx, "editingStory")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"index":2}`, value)

	_, ok, err = store.Take(ctx, "editingStory")
	require.NoError(t, err)
	assert.False(t, ok, "second Take returned a value")
}

func TestNilStore(t *testing.T) {
	var store *Store
	_, _, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrNotConfigured)
	assert.NoError(t, store.Close())
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stories.sqlite")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "spaceStories", `[]`))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "spaceStories")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, value)
}
