package chords

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE chord_contents (
  id           TEXT PRIMARY KEY,
  body         TEXT NOT NULL,
  content_hash TEXT NOT NULL DEFAULT '',
  updated_at   INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestCreateOrUpdate_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := &models.ChordContent{
		ID:          "content-1",
		Body:        "[G]Amazing grace",
		ContentHash: "abc123",
		UpdatedAt:   time.UnixMilli(1700000000000),
	}
	require.NoError(t, r.CreateOrUpdate(ctx, want))

	got, err := r.GetByID(ctx, "content-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCreateOrUpdate_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	c := &models.ChordContent{ID: "content-1", Body: "old", UpdatedAt: time.UnixMilli(1)}
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	c.Body = "new"
	c.ContentHash = "h2"
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	got, err := r.GetByID(ctx, "content-1")
	require.NoError(t, err)
	require.Equal(t, "new", got.Body)
	require.Equal(t, "h2", got.ContentHash)
}

func TestGetByID_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.GetByID(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, &models.ChordContent{ID: "content-1", Body: "x", UpdatedAt: time.UnixMilli(1)}))
	require.NoError(t, r.DeleteByID(ctx, "content-1"))

	got, err := r.GetByID(ctx, "content-1")
	require.NoError(t, err)
	require.Nil(t, got)
}
