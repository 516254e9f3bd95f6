package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/songsync/internal/hashx"
	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/dmitrijs2005/songsync/internal/remote"
)

type songPush struct {
	song *models.SongEntity
	body string
}

type setlistPush struct {
	setlist *models.SetlistEntity
	doc     []byte
	hash    string
}

func (o *Orchestrator) pushSongs(ctx context.Context, sess *session, songsFolderID string, rep *Report, progress ProgressFunc) error {
	songs, err := o.local.AllSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load local songs: %w", err)
	}

	detector := NewChangeDetector(sess.inventory, o.log)

	var create, update []songPush
	var stale []*models.SongEntity
	for _, s := range songs {
		var body string
		loaded := false
		loader := func(ctx context.Context) (string, error) {
			if loaded {
				return body, nil
			}
			c, err := o.local.ChordContent(ctx, s.ContentID)
			if err != nil {
				return "", fmt.Errorf("failed to load chord content for song %q: %w", s.ID, err)
			}
			if c != nil {
				body = c.Body
			}
			loaded = true
			return body, nil
		}

		needs, staleCleared, err := detector.NeedsPushSong(ctx, s, loader)
		if err != nil {
			o.log.Error(ctx, "failed to evaluate song for push, skipping", "song", s.ID, "error", err)
			rep.Failed++
			continue
		}
		if staleCleared {
			stale = append(stale, s)
			rep.StaleLinksCleared++
		}
		if !needs {
			rep.Skipped++
			continue
		}
		if _, err := loader(ctx); err != nil {
			o.log.Error(ctx, "failed to load song content for push, skipping", "song", s.ID, "error", err)
			rep.Failed++
			continue
		}

		if s.RemoteObjectID == "" {
			create = append(create, songPush{song: s, body: body})
		} else {
			update = append(update, songPush{song: s, body: body})
		}
	}

	// Cleared links are persisted up front so the healing survives even if
	// the re-upload below fails.
	if len(stale) > 0 {
		if err := o.local.SaveSongs(ctx, stale); err != nil {
			return fmt.Errorf("failed to persist cleared song links: %w", err)
		}
	}

	handle := o.songPushHandler(sess, rep)
	onChunk := func(done, total int) {
		report(progress, Progress{Stage: StageUploading, Message: "uploading songs", Current: done, Total: total})
	}

	combined := func(ctx context.Context, chunk []songPush) ([]*models.RemoteObjectRecord, error) {
		items := make([]remote.UploadItem, len(chunk))
		for i, p := range chunk {
			items[i] = o.songUploadItem(songsFolderID, p)
		}
		return o.fs.BatchUpload(ctx, items)
	}
	single := func(ctx context.Context, p songPush) (*models.RemoteObjectRecord, error) {
		return o.fs.UploadObject(ctx, o.songUploadItem(songsFolderID, p))
	}
	if _, err := runCombined(ctx, create, o.cfg.ChunkSize, combined, single, handle, onChunk, o.log); err != nil {
		return err
	}

	updateOp := func(ctx context.Context, p songPush) (*models.RemoteObjectRecord, error) {
		if err := o.fs.UpdateObjectContent(ctx, p.song.RemoteObjectID, []byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to update content of song %q: %w", p.song.ID, err)
		}
		p.song.ContentHash = hashx.Song(p.song, p.body)
		if err := o.fs.UpdateObjectMetadata(ctx, p.song.RemoteObjectID, models.SongMetadata(p.song).ToProperties()); err != nil {
			return nil, fmt.Errorf("failed to update metadata of song %q: %w", p.song.ID, err)
		}
		return &models.RemoteObjectRecord{ID: p.song.RemoteObjectID, ModifiedTime: o.now()}, nil
	}
	_, err = runBatched(ctx, update, o.cfg.ChunkSize, updateOp, handle, onChunk, o.log)
	return err
}

// songUploadItem freezes the song's current content hash and builds the
// self-describing upload.
func (o *Orchestrator) songUploadItem(parentID string, p songPush) remote.UploadItem {
	p.song.ContentHash = hashx.Song(p.song, p.body)
	return remote.UploadItem{
		ParentID:    parentID,
		Name:        p.song.ID + ".cho",
		ContentType: songContentType,
		Properties:  models.SongMetadata(p.song).ToProperties(),
		Content:     []byte(p.body),
	}
}

// songPushHandler stamps sync state on each settled chunk and persists the
// whole chunk in one batch write.
func (o *Orchestrator) songPushHandler(sess *session, rep *Report) chunkHandler[songPush, models.RemoteObjectRecord] {
	return func(ctx context.Context, chunk []songPush, results []*models.RemoteObjectRecord) error {
		now := o.now()
		saved := make([]*models.SongEntity, 0, len(chunk))
		for i, rec := range results {
			if rec == nil {
				rep.Failed++
				continue
			}
			s := chunk[i].song
			s.RemoteObjectID = rec.ID
			s.RemoteModifiedTime = rec.ModifiedTime
			if s.RemoteModifiedTime.IsZero() {
				s.RemoteModifiedTime = now
			}
			s.LastSyncedAt = now
			sess.inventory.add(rec)
			saved = append(saved, s)
		}
		if len(saved) == 0 {
			return nil
		}
		if err := o.local.SaveSongs(ctx, saved); err != nil {
			return fmt.Errorf("failed to persist pushed songs: %w", err)
		}
		rep.SongsPushed += len(saved)
		return nil
	}
}

func (o *Orchestrator) pushSetlists(ctx context.Context, sess *session, setlistsFolderID string, rep *Report, progress ProgressFunc) error {
	setlists, err := o.local.AllSetlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to load local setlists: %w", err)
	}

	detector := NewChangeDetector(sess.inventory, o.log)

	var create, update []setlistPush
	var stale []*models.SetlistEntity
	for _, s := range setlists {
		needs, staleCleared := detector.NeedsPushSetlist(ctx, s)
		if staleCleared {
			stale = append(stale, s)
			rep.StaleLinksCleared++
		}
		if !needs {
			rep.Skipped++
			continue
		}

		doc, err := json.Marshal(setlistDoc{Name: s.Name, Items: s.Items})
		if err != nil {
			o.log.Error(ctx, "failed to encode setlist, skipping", "setlist", s.ID, "error", err)
			rep.Failed++
			continue
		}
		p := setlistPush{setlist: s, doc: doc, hash: hashx.Setlist(s)}
		if s.RemoteObjectID == "" {
			create = append(create, p)
		} else {
			update = append(update, p)
		}
	}

	if len(stale) > 0 {
		if err := o.local.SaveSetlists(ctx, stale); err != nil {
			return fmt.Errorf("failed to persist cleared setlist links: %w", err)
		}
	}

	handle := o.setlistPushHandler(sess, rep)
	onChunk := func(done, total int) {
		report(progress, Progress{Stage: StageUploading, Message: "uploading setlists", Current: done, Total: total})
	}

	combined := func(ctx context.Context, chunk []setlistPush) ([]*models.RemoteObjectRecord, error) {
		items := make([]remote.UploadItem, len(chunk))
		for i, p := range chunk {
			items[i] = setlistUploadItem(setlistsFolderID, p)
		}
		return o.fs.BatchUpload(ctx, items)
	}
	single := func(ctx context.Context, p setlistPush) (*models.RemoteObjectRecord, error) {
		return o.fs.UploadObject(ctx, setlistUploadItem(setlistsFolderID, p))
	}
	if _, err := runCombined(ctx, create, o.cfg.ChunkSize, combined, single, handle, onChunk, o.log); err != nil {
		return err
	}

	updateOp := func(ctx context.Context, p setlistPush) (*models.RemoteObjectRecord, error) {
		if err := o.fs.UpdateObjectContent(ctx, p.setlist.RemoteObjectID, p.doc); err != nil {
			return nil, fmt.Errorf("failed to update content of setlist %q: %w", p.setlist.ID, err)
		}
		if err := o.fs.UpdateObjectMetadata(ctx, p.setlist.RemoteObjectID, models.SetlistMetadata(p.setlist, p.hash).ToProperties()); err != nil {
			return nil, fmt.Errorf("failed to update metadata of setlist %q: %w", p.setlist.ID, err)
		}
		return &models.RemoteObjectRecord{ID: p.setlist.RemoteObjectID, ModifiedTime: o.now()}, nil
	}
	_, err = runBatched(ctx, update, o.cfg.ChunkSize, updateOp, handle, onChunk, o.log)
	return err
}

func setlistUploadItem(parentID string, p setlistPush) remote.UploadItem {
	return remote.UploadItem{
		ParentID:    parentID,
		Name:        p.setlist.ID + ".json",
		ContentType: setlistContentType,
		Properties:  models.SetlistMetadata(p.setlist, p.hash).ToProperties(),
		Content:     p.doc,
	}
}

func (o *Orchestrator) setlistPushHandler(sess *session, rep *Report) chunkHandler[setlistPush, models.RemoteObjectRecord] {
	return func(ctx context.Context, chunk []setlistPush, results []*models.RemoteObjectRecord) error {
		now := o.now()
		saved := make([]*models.SetlistEntity, 0, len(chunk))
		for i, rec := range results {
			if rec == nil {
				rep.Failed++
				continue
			}
			s := chunk[i].setlist
			s.RemoteObjectID = rec.ID
			s.RemoteModifiedTime = rec.ModifiedTime
			if s.RemoteModifiedTime.IsZero() {
				s.RemoteModifiedTime = now
			}
			s.LastSyncedAt = now
			s.LastSyncHash = chunk[i].hash
			sess.inventory.add(rec)
			saved = append(saved, s)
		}
		if len(saved) == 0 {
			return nil
		}
		if err := o.local.SaveSetlists(ctx, saved); err != nil {
			return fmt.Errorf("failed to persist pushed setlists: %w", err)
		}
		rep.SetlistsPushed += len(saved)
		return nil
	}
}
