package setlists

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songsync/internal/dbx"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Setlist items are stored as a JSON column: the setlist syncs whole-entity,
// so there is nothing to gain from a separate items table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const setlistColumns = `id, name, items, updated_at,
	remote_object_id, remote_modified_time, last_synced_at, last_sync_hash`

// CreateOrUpdate upserts a setlist by id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, s *models.SetlistEntity) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("failed to encode setlist items: %w", err)
	}

	query := `INSERT INTO setlists (` + setlistColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				items = excluded.items,
				updated_at = excluded.updated_at,
				remote_object_id = excluded.remote_object_id,
				remote_modified_time = excluded.remote_modified_time,
				last_synced_at = excluded.last_synced_at,
				last_sync_hash = excluded.last_sync_hash
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.Name, string(items), dbx.UnixMilli(s.UpdatedAt),
		s.RemoteObjectID, dbx.UnixMilli(s.RemoteModifiedTime),
		dbx.UnixMilli(s.LastSyncedAt), s.LastSyncHash)
	if err != nil {
		return fmt.Errorf("failed to upsert setlist: %w", err)
	}
	return nil
}

func scanSetlist(scan func(dest ...any) error) (*models.SetlistEntity, error) {
	s := &models.SetlistEntity{}
	var items string
	var updatedAt, remoteModified, lastSynced int64
	err := scan(&s.ID, &s.Name, &items, &updatedAt,
		&s.RemoteObjectID, &remoteModified, &lastSynced, &s.LastSyncHash)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return nil, fmt.Errorf("failed to decode setlist items: %w", err)
	}
	s.UpdatedAt = dbx.TimeFromMilli(updatedAt)
	s.RemoteModifiedTime = dbx.TimeFromMilli(remoteModified)
	s.LastSyncedAt = dbx.TimeFromMilli(lastSynced)
	return s, nil
}

// GetAll lists all setlists ordered by name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.SetlistEntity, error) {
	query := `SELECT ` + setlistColumns + ` FROM setlists ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select setlists: %w", err)
	}
	defer rows.Close()

	var result []*models.SetlistEntity
	for rows.Next() {
		s, err := scanSetlist(rows.Scan)
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

// GetByID returns a single setlist, or (nil, nil) when the id is unknown.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SetlistEntity, error) {
	query := `SELECT ` + setlistColumns + ` FROM setlists WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSetlist(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// DeleteByID removes a setlist row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM setlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete setlist: %w", err)
	}
	return nil
}

// ClearSyncState resets remote linkage on every setlist.
func (r *SQLiteRepository) ClearSyncState(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE setlists SET remote_object_id = '', remote_modified_time = 0, last_synced_at = 0, last_sync_hash = ''`)
	if err != nil {
		return fmt.Errorf("failed to clear setlist sync state: %w", err)
	}
	return nil
}
