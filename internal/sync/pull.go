package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/songsync/internal/chordtext"
	"github.com/dmitrijs2005/songsync/internal/hashx"
	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/dmitrijs2005/songsync/internal/remote"
)

// setlistDoc is the JSON wire format of a setlist object's content.
type setlistDoc struct {
	Name  string               `json:"name"`
	Items []models.SetlistItem `json:"items"`
}

type songPullItem struct {
	rec   models.RemoteObjectRecord
	local *models.SongEntity
}

// pulledSong is a merged song plus its downloaded chord sheet. content is
// nil when the merge kept the local version and only refreshed the linkage;
// such refreshes are persisted but not counted as pulls.
type pulledSong struct {
	song    *models.SongEntity
	content *models.ChordContent
}

type setlistPullItem struct {
	rec   models.RemoteObjectRecord
	local *models.SetlistEntity
}

// pulledSetlist mirrors pulledSong: merged is false for a linkage-only
// refresh.
type pulledSetlist struct {
	setlist *models.SetlistEntity
	merged  bool
}

func (o *Orchestrator) pullSongs(ctx context.Context, songsFolderID string, rep *Report, progress ProgressFunc) error {
	records, err := o.fs.ListChildren(ctx, songsFolderID)
	if err != nil {
		return fmt.Errorf("failed to list remote songs: %w", err)
	}

	canonical, demoted := NewDuplicateResolver(o.log).Resolve(ctx, filterFiles(records))
	rep.DuplicatesDemoted += demoted

	detector := NewChangeDetector(nil, o.log)
	var toPull []songPullItem
	for identity, rec := range canonical {
		local, err := o.local.Song(ctx, identity)
		if err != nil {
			return fmt.Errorf("failed to load song %q: %w", identity, err)
		}
		if detector.NeedsPullSong(rec, local) {
			toPull = append(toPull, songPullItem{rec: rec, local: local})
		} else {
			rep.Skipped++
		}
	}

	op := func(ctx context.Context, it songPullItem) (*pulledSong, error) {
		data, err := o.fs.GetContent(ctx, it.rec.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to download song %q: %w", it.rec.Name, err)
		}
		return o.mergeSong(it, string(data)), nil
	}

	handle := func(ctx context.Context, chunk []songPullItem, results []*pulledSong) error {
		songs := make([]*models.SongEntity, 0, len(results))
		merged := 0
		for _, r := range results {
			if r == nil {
				rep.Failed++
				continue
			}
			if r.content != nil {
				if err := o.local.SaveChordContent(ctx, r.content); err != nil {
					return fmt.Errorf("failed to persist chord content for song %q: %w", r.song.ID, err)
				}
				merged++
			} else {
				rep.Skipped++
			}
			songs = append(songs, r.song)
		}
		if len(songs) == 0 {
			return nil
		}
		if err := o.local.SaveSongs(ctx, songs); err != nil {
			return fmt.Errorf("failed to persist pulled songs: %w", err)
		}
		rep.SongsPulled += merged
		return nil
	}

	onChunk := func(done, total int) {
		report(progress, Progress{Stage: StagePulling, Message: "pulling songs", Current: done, Total: total})
	}

	_, err = runBatched(ctx, toPull, o.cfg.ChunkSize, op, handle, onChunk, o.log)
	return err
}

// mergeSong folds a downloaded remote song into the local record. Last
// writer wins: when the local entity was edited after the remote object's
// modification time, the local content is kept and only the remote linkage
// is refreshed, leaving the push phase to upload the local version.
func (o *Orchestrator) mergeSong(it songPullItem, body string) *pulledSong {
	s := it.local
	if s == nil {
		s = &models.SongEntity{ID: it.rec.Identity(), ContentID: uuid.NewString()}
	}

	if it.local != nil && it.local.UpdatedAt.After(it.rec.ModifiedTime) {
		s.RemoteObjectID = it.rec.ID
		s.RemoteModifiedTime = it.rec.ModifiedTime
		return &pulledSong{song: s}
	}

	md := models.MetadataFromProperties(it.rec.Properties)
	meta := chordtext.Parse(body)

	s.Title = firstNonEmpty(md.Title, meta.Title, s.Title)
	s.NormalizedTitle = models.NormalizeTitle(s.Title)
	s.Key = firstNonEmpty(md.Key, meta.Key, s.Key)
	s.Tempo = firstNonEmpty(md.Tempo, meta.Tempo, s.Tempo)
	s.TimeSignature = firstNonEmpty(md.TimeSignature, meta.TimeSignature, s.TimeSignature)
	s.VariantLabel = firstNonEmpty(md.VariantLabel, s.VariantLabel)
	s.SongID = firstNonEmpty(md.SongID, s.SongID, s.ID)
	if s.ContentID == "" {
		s.ContentID = uuid.NewString()
	}
	s.UpdatedAt = it.rec.ModifiedTime
	s.ContentHash = md.ContentHash
	if s.ContentHash == "" {
		s.ContentHash = hashx.Song(s, body)
	}
	s.RemoteObjectID = it.rec.ID
	s.RemoteModifiedTime = it.rec.ModifiedTime
	s.LastSyncedAt = o.now()

	return &pulledSong{
		song: s,
		content: &models.ChordContent{
			ID:          s.ContentID,
			Body:        body,
			ContentHash: hashx.SumString(body),
			UpdatedAt:   it.rec.ModifiedTime,
		},
	}
}

func (o *Orchestrator) pullSetlists(ctx context.Context, setlistsFolderID string, rep *Report, progress ProgressFunc) error {
	records, err := o.fs.ListChildren(ctx, setlistsFolderID)
	if err != nil {
		return fmt.Errorf("failed to list remote setlists: %w", err)
	}

	canonical, demoted := NewDuplicateResolver(o.log).Resolve(ctx, filterFiles(records))
	rep.DuplicatesDemoted += demoted

	detector := NewChangeDetector(nil, o.log)
	var toPull []setlistPullItem
	for identity, rec := range canonical {
		local, err := o.local.Setlist(ctx, identity)
		if err != nil {
			return fmt.Errorf("failed to load setlist %q: %w", identity, err)
		}
		if detector.NeedsPullSetlist(rec, local) {
			toPull = append(toPull, setlistPullItem{rec: rec, local: local})
		} else {
			rep.Skipped++
		}
	}

	op := func(ctx context.Context, it setlistPullItem) (*pulledSetlist, error) {
		data, err := o.fs.GetContent(ctx, it.rec.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to download setlist %q: %w", it.rec.Name, err)
		}
		var doc setlistDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode setlist %q: %w", it.rec.Name, err)
		}
		return o.mergeSetlist(it, doc), nil
	}

	handle := func(ctx context.Context, chunk []setlistPullItem, results []*pulledSetlist) error {
		setlists := make([]*models.SetlistEntity, 0, len(results))
		merged := 0
		for _, r := range results {
			if r == nil {
				rep.Failed++
				continue
			}
			if r.merged {
				merged++
			} else {
				rep.Skipped++
			}
			setlists = append(setlists, r.setlist)
		}
		if len(setlists) == 0 {
			return nil
		}
		if err := o.local.SaveSetlists(ctx, setlists); err != nil {
			return fmt.Errorf("failed to persist pulled setlists: %w", err)
		}
		rep.SetlistsPulled += merged
		return nil
	}

	onChunk := func(done, total int) {
		report(progress, Progress{Stage: StagePulling, Message: "pulling setlists", Current: done, Total: total})
	}

	_, err = runBatched(ctx, toPull, o.cfg.ChunkSize, op, handle, onChunk, o.log)
	return err
}

// mergeSetlist is mergeSong for setlists. The whole entity is replaced; items
// are never merged individually.
func (o *Orchestrator) mergeSetlist(it setlistPullItem, doc setlistDoc) *pulledSetlist {
	s := it.local
	if s == nil {
		s = &models.SetlistEntity{ID: it.rec.Identity()}
	}

	if it.local != nil && it.local.UpdatedAt.After(it.rec.ModifiedTime) {
		s.RemoteObjectID = it.rec.ID
		s.RemoteModifiedTime = it.rec.ModifiedTime
		return &pulledSetlist{setlist: s}
	}

	md := models.MetadataFromProperties(it.rec.Properties)
	s.Name = firstNonEmpty(doc.Name, md.Title, s.Name)
	s.Items = doc.Items
	s.UpdatedAt = it.rec.ModifiedTime
	s.LastSyncHash = hashx.Setlist(s)
	s.RemoteObjectID = it.rec.ID
	s.RemoteModifiedTime = it.rec.ModifiedTime
	s.LastSyncedAt = o.now()
	return &pulledSetlist{setlist: s, merged: true}
}

// filterFiles drops folder records from a listing.
func filterFiles(records []models.RemoteObjectRecord) []models.RemoteObjectRecord {
	files := records[:0:0]
	for _, rec := range records {
		if !remote.IsFolder(rec) {
			files = append(files, rec)
		}
	}
	return files
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
