package chords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songsync/internal/dbx"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a chord content blob by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, c *models.ChordContent) error {
	query := `INSERT INTO chord_contents (id, body, content_hash, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				body = excluded.body,
				content_hash = excluded.content_hash,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Body, c.ContentHash, dbx.UnixMilli(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert chord content: %w", err)
	}
	return nil
}

// GetByID returns a single blob, or (nil, nil) when the id is unknown.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ChordContent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, body, content_hash, updated_at FROM chord_contents WHERE id = ?`, id)

	c := &models.ChordContent{}
	var updatedAt int64
	err := row.Scan(&c.ID, &c.Body, &c.ContentHash, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	c.UpdatedAt = dbx.TimeFromMilli(updatedAt)
	return c, nil
}

// DeleteByID removes a blob row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chord_contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chord content: %w", err)
	}
	return nil
}
