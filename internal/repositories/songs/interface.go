package songs

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/models"
)

// Repository describes CRUD and query operations for SongEntity records.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// CreateOrUpdate inserts a new song or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, song *models.SongEntity) error

	// GetAll returns every song, including ones that have never synced.
	GetAll(ctx context.Context) ([]*models.SongEntity, error)

	// GetByID returns a song by its identifier, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.SongEntity, error)

	// DeleteByID removes a song.
	DeleteByID(ctx context.Context, id string) error

	// ClearSyncState wipes remote linkage and sync timestamps on all rows,
	// forcing every song to look brand-new to the next push.
	ClearSyncState(ctx context.Context) error
}
