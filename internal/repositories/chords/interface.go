package chords

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/models"
)

// Repository stores the chord-sheet text blobs owned by songs.
type Repository interface {
	// CreateOrUpdate inserts or replaces a chord content blob by ID.
	CreateOrUpdate(ctx context.Context, content *models.ChordContent) error

	// GetByID returns a blob by its identifier, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.ChordContent, error)

	// DeleteByID removes a blob.
	DeleteByID(ctx context.Context, id string) error
}
