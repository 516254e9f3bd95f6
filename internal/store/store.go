// Package store exposes the local database as a single LocalStore interface
// consumed by the sync engine, backed by the per-aggregate repositories.
package store

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/models"
)

// LocalStore is everything the sync engine needs from the local replica.
// Batch saves are transactional: either the whole chunk of sync-state
// updates lands, or none of it does.
type LocalStore interface {
	AllSongs(ctx context.Context) ([]*models.SongEntity, error)
	Song(ctx context.Context, id string) (*models.SongEntity, error)
	SaveSong(ctx context.Context, song *models.SongEntity) error
	SaveSongs(ctx context.Context, songs []*models.SongEntity) error

	AllSetlists(ctx context.Context) ([]*models.SetlistEntity, error)
	Setlist(ctx context.Context, id string) (*models.SetlistEntity, error)
	SaveSetlist(ctx context.Context, setlist *models.SetlistEntity) error
	SaveSetlists(ctx context.Context, setlists []*models.SetlistEntity) error

	ChordContent(ctx context.Context, id string) (*models.ChordContent, error)
	SaveChordContent(ctx context.Context, content *models.ChordContent) error

	// ClearSyncState wipes remote linkage on every song and setlist in one
	// transaction. Used by clear-and-reupload.
	ClearSyncState(ctx context.Context) error
}
