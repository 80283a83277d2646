package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session_token", []byte("tok-1")))

	got, err := r.Get(ctx, "session_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-1"), got)

	// upsert
	require.NoError(t, r.Set(ctx, "session_token", []byte("tok-2")))
	got, err = r.Get(ctx, "session_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-2"), got)
}

func TestGet_AbsentKeyReturnsNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteListClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))

	require.NoError(t, r.Delete(ctx, "a"))

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"b": []byte("2")}, list)

	require.NoError(t, r.Clear(ctx))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
