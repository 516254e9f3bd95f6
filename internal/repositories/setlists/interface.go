package setlists

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/models"
)

// Repository describes CRUD and query operations for SetlistEntity records.
type Repository interface {
	// CreateOrUpdate inserts a new setlist or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, setlist *models.SetlistEntity) error

	// GetAll returns every setlist.
	GetAll(ctx context.Context) ([]*models.SetlistEntity, error)

	// GetByID returns a setlist by its identifier, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.SetlistEntity, error)

	// DeleteByID removes a setlist.
	DeleteByID(ctx context.Context, id string) error

	// ClearSyncState wipes remote linkage, sync timestamps and the cached
	// sync hash on all rows.
	ClearSyncState(ctx context.Context) error
}
