package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/songsync/internal/chordtext"
	"github.com/dmitrijs2005/songsync/internal/hashx"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// runImport reads chord-sheet files and creates local song entities from
// them. Imported songs carry no remote link, so the next sync uploads them.
func (a *App) runImport(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("import requires at least one chord sheet file")
	}

	for _, file := range files {
		song, err := a.importFile(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to import %q: %w", file, err)
		}
		fmt.Printf("imported %q as %s (%s)\n", song.Title, song.ID, file)
	}
	return nil
}

func (a *App) importFile(ctx context.Context, file string) (*models.SongEntity, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	body := string(data)
	meta := chordtext.Parse(body)

	title := meta.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	now := time.Now()
	song := &models.SongEntity{
		ID:              uuid.NewString(),
		SongID:          songID(title),
		Title:           title,
		NormalizedTitle: models.NormalizeTitle(title),
		Key:             meta.Key,
		Tempo:           meta.Tempo,
		TimeSignature:   meta.TimeSignature,
		ContentID:       uuid.NewString(),
		UpdatedAt:       now,
	}

	if err := a.store.SaveSong(ctx, song); err != nil {
		return nil, err
	}
	if err := a.store.SaveChordContent(ctx, &models.ChordContent{
		ID:          song.ContentID,
		Body:        body,
		ContentHash: hashx.SumString(body),
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}
	return song, nil
}

// songID derives the shared logical song id from the normalized title, so
// variants of the same song imported separately group together.
func songID(title string) string {
	return "song-" + hashx.SumString(models.NormalizeTitle(title))[:12]
}
