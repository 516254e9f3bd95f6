package songs

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

const songColumns = `id, song_id, title, normalized_title, key, tempo, time_signature,
	variant_label, content_id, content_hash, updated_at,
	remote_object_id, remote_modified_time, last_synced_at`

// CreateOrUpdate upserts a song by id. On conflict every column is updated,
// sync-state fields included.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, s *models.SongEntity) error {
	query := `INSERT INTO songs (` + songColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				song_id = excluded.song_id,
				title = excluded.title,
				normalized_title = excluded.normalized_title,
				key = excluded.key,
				tempo = excluded.tempo,
				time_signature = excluded.time_signature,
				variant_label = excluded.variant_label,
				content_id = excluded.content_id,
				content_hash = excluded.content_hash,
				updated_at = excluded.updated_at,
				remote_object_id = excluded.remote_object_id,
				remote_modified_time = excluded.remote_modified_time,
				last_synced_at = excluded.last_synced_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.SongID, s.Title, s.NormalizedTitle, s.Key, s.Tempo, s.TimeSignature,
		s.VariantLabel, s.ContentID, s.ContentHash, dbx.UnixMilli(s.UpdatedAt),
		s.RemoteObjectID, dbx.UnixMilli(s.RemoteModifiedTime), dbx.UnixMilli(s.LastSyncedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert song: %w", err)
	}
	return nil
}

func scanSong(scan func(dest ...any) error) (*models.SongEntity, error) {
	s := &models.SongEntity{}
	var updatedAt, remoteModified, lastSynced int64
	err := scan(&s.ID, &s.SongID, &s.Title, &s.NormalizedTitle, &s.Key, &s.Tempo,
		&s.TimeSignature, &s.VariantLabel, &s.ContentID, &s.ContentHash, &updatedAt,
		&s.RemoteObjectID, &remoteModified, &lastSynced)
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = dbx.TimeFromMilli(updatedAt)
	s.RemoteModifiedTime = dbx.TimeFromMilli(remoteModified)
	s.LastSyncedAt = dbx.TimeFromMilli(lastSynced)
	return s, nil
}

// GetAll lists all songs ordered by normalized title.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.SongEntity, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY normalized_title, variant_label`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select songs: %w", err)
	}
	defer rows.Close()

	var result []*models.SongEntity
	for rows.Next() {
		s, err := scanSong(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single song, or (nil, nil) when the id is unknown.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SongEntity, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSong(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// DeleteByID removes a song row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}

// ClearSyncState resets remote linkage on every song.
func (r *SQLiteRepository) ClearSyncState(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE songs SET remote_object_id = '', remote_modified_time = 0, last_synced_at = 0`)
	if err != nil {
		return fmt.Errorf("failed to clear song sync state: %w", err)
	}
	return nil
}
