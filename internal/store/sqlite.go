package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/songsync/internal/dbx"
	"github.com/dmitrijs2005/songsync/internal/migrations"
	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/dmitrijs2005/songsync/internal/repositories/chords"
	"github.com/dmitrijs2005/songsync/internal/repositories/setlists"
	"github.com/dmitrijs2005/songsync/internal/repositories/songs"
	"github.com/pressly/goose/v3"
)

// SQLiteStore implements LocalStore over a single *sql.DB handle.
type SQLiteStore struct {
	db       *sql.DB
	songs    songs.Repository
	setlists setlists.Repository
	chords   chords.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the local database at dsn and runs
// migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return New(db), nil
}

// New wraps an already-migrated database handle.
func New(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:       db,
		songs:    songs.NewSQLiteRepository(db),
		setlists: setlists.NewSQLiteRepository(db),
		chords:   chords.NewSQLiteRepository(db),
	}
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) AllSongs(ctx context.Context) ([]*models.SongEntity, error) {
	return s.songs.GetAll(ctx)
}

func (s *SQLiteStore) Song(ctx context.Context, id string) (*models.SongEntity, error) {
	return s.songs.GetByID(ctx, id)
}

func (s *SQLiteStore) SaveSong(ctx context.Context, song *models.SongEntity) error {
	return s.songs.CreateOrUpdate(ctx, song)
}

// SaveSongs persists a chunk of songs in one transaction.
func (s *SQLiteStore) SaveSongs(ctx context.Context, list []*models.SongEntity) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := songs.NewSQLiteRepository(tx)
		for _, song := range list {
			if err := repo.CreateOrUpdate(ctx, song); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AllSetlists(ctx context.Context) ([]*models.SetlistEntity, error) {
	return s.setlists.GetAll(ctx)
}

func (s *SQLiteStore) Setlist(ctx context.Context, id string) (*models.SetlistEntity, error) {
	return s.setlists.GetByID(ctx, id)
}

func (s *SQLiteStore) SaveSetlist(ctx context.Context, setlist *models.SetlistEntity) error {
	return s.setlists.CreateOrUpdate(ctx, setlist)
}

// SaveSetlists persists a chunk of setlists in one transaction.
func (s *SQLiteStore) SaveSetlists(ctx context.Context, list []*models.SetlistEntity) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := setlists.NewSQLiteRepository(tx)
		for _, setlist := range list {
			if err := repo.CreateOrUpdate(ctx, setlist); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ChordContent(ctx context.Context, id string) (*models.ChordContent, error) {
	return s.chords.GetByID(ctx, id)
}

func (s *SQLiteStore) SaveChordContent(ctx context.Context, content *models.ChordContent) error {
	return s.chords.CreateOrUpdate(ctx, content)
}

// ClearSyncState resets sync bookkeeping on songs and setlists atomically.
func (s *SQLiteStore) ClearSyncState(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := songs.NewSQLiteRepository(tx).ClearSyncState(ctx); err != nil {
			return err
		}
		return setlists.NewSQLiteRepository(tx).ClearSyncState(ctx)
	})
}
