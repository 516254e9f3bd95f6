package songs

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
CREATE TABLE songs (
  id                   TEXT PRIMARY KEY,
  song_id              TEXT NOT NULL,
  title                TEXT NOT NULL,
  normalized_title     TEXT NOT NULL,
  key                  TEXT NOT NULL DEFAULT '',
  tempo                TEXT NOT NULL DEFAULT '',
  time_signature       TEXT NOT NULL DEFAULT '',
  variant_label        TEXT NOT NULL DEFAULT '',
  content_id           TEXT NOT NULL,
  content_hash         TEXT NOT NULL DEFAULT '',
  updated_at           INTEGER NOT NULL,
  remote_object_id     TEXT NOT NULL DEFAULT '',
  remote_modified_time INTEGER NOT NULL DEFAULT 0,
  last_synced_at       INTEGER NOT NULL DEFAULT 0
);`)
	require.NoError(t, err)
	return db
}

func sampleSong() *models.SongEntity {
	return &models.SongEntity{
		ID:              "variant-1",
		SongID:          "song-1",
		Title:           "Amazing Grace",
		NormalizedTitle: "amazing grace",
		Key:             "G",
		Tempo:           "72",
		TimeSignature:   "3/4",
		ContentID:       "content-1",
		ContentHash:     "abc123",
		UpdatedAt:       time.UnixMilli(1700000000000),
	}
}

func TestCreateOrUpdate_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := sampleSong()
	require.NoError(t, r.CreateOrUpdate(ctx, want))

	got, err := r.GetByID(ctx, "variant-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCreateOrUpdate_UpsertOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	s := sampleSong()
	require.NoError(t, r.CreateOrUpdate(ctx, s))

	s.Key = "A"
	s.RemoteObjectID = "obj-1"
	s.LastSyncedAt = time.UnixMilli(1700000100000)
	require.NoError(t, r.CreateOrUpdate(ctx, s))

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "A", got.Key)
	require.Equal(t, "obj-1", got.RemoteObjectID)
	require.Equal(t, s.LastSyncedAt, got.LastSyncedAt)
}

func TestGetByID_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.GetByID(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestGetAll_OrderedByTitle(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	b := sampleSong()
	b.ID = "variant-b"
	b.Title = "Be Thou My Vision"
	b.NormalizedTitle = "be thou my vision"
	require.NoError(t, r.CreateOrUpdate(ctx, b))
	require.NoError(t, r.CreateOrUpdate(ctx, sampleSong()))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "amazing grace", all[0].NormalizedTitle)
	require.Equal(t, "be thou my vision", all[1].NormalizedTitle)
}

func TestDeleteByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleSong()))
	require.NoError(t, r.DeleteByID(ctx, "variant-1"))

	got, err := r.GetByID(ctx, "variant-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestClearSyncState(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	s := sampleSong()
	s.RemoteObjectID = "obj-1"
	s.RemoteModifiedTime = time.UnixMilli(1700000200000)
	s.LastSyncedAt = time.UnixMilli(1700000300000)
	require.NoError(t, r.CreateOrUpdate(ctx, s))

	require.NoError(t, r.ClearSyncState(ctx))

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Empty(t, got.RemoteObjectID)
	require.True(t, got.RemoteModifiedTime.IsZero())
	require.True(t, got.LastSyncedAt.IsZero())
	require.Equal(t, "abc123", got.ContentHash, "content fields must survive")
}
