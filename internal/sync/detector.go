package sync

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/hashx"
	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// ChangeDetector decides per entity whether a push or pull is required.
// The checks run cheapest-first and short-circuit at the first decisive
// signal: link presence, inventory membership, timestamp comparison, and
// only then the content hash. Hashing chord sheets is the expensive path
// and stays the last resort.
type ChangeDetector struct {
	inv *Inventory
	log logging.Logger
}

func NewChangeDetector(inv *Inventory, log logging.Logger) *ChangeDetector {
	return &ChangeDetector{inv: inv, log: log}
}

// bodyFunc lazily loads the chord-sheet body so unchanged songs never pay
// for a blob read.
type bodyFunc func(ctx context.Context) (string, error)

// NeedsPushSong reports whether the song must be uploaded. As a side effect
// it clears a remote link that points at a since-deleted object; the caller
// is responsible for persisting the cleared entity. staleCleared tells the
// caller that healing happened.
func (d *ChangeDetector) NeedsPushSong(ctx context.Context, s *models.SongEntity, body bodyFunc) (needs bool, staleCleared bool, err error) {
	if s.RemoteObjectID == "" {
		return true, false, nil
	}

	if !d.inv.Contains(s.RemoteObjectID) {
		d.log.Warn(ctx, "remote object vanished, clearing stale link",
			"song", s.ID, "remote_object", s.RemoteObjectID)
		s.ClearRemoteLink()
		return true, true, nil
	}

	if !s.ModifiedSince() {
		return false, false, nil
	}

	// Timestamp bumped; confirm the content actually changed before paying
	// for an upload.
	text, err := body(ctx)
	if err != nil {
		return false, false, err
	}
	if hashx.Song(s, text) == s.ContentHash {
		d.log.Debug(ctx, "timestamp bumped but content unchanged, skipping push", "song", s.ID)
		return false, false, nil
	}
	return true, false, nil
}

// NeedsPushSetlist mirrors NeedsPushSong using the cached LastSyncHash to
// short-circuit re-hashing.
func (d *ChangeDetector) NeedsPushSetlist(ctx context.Context, s *models.SetlistEntity) (needs bool, staleCleared bool) {
	if s.RemoteObjectID == "" {
		return true, false
	}

	if !d.inv.Contains(s.RemoteObjectID) {
		d.log.Warn(ctx, "remote object vanished, clearing stale link",
			"setlist", s.ID, "remote_object", s.RemoteObjectID)
		s.ClearRemoteLink()
		return true, true
	}

	if !s.ModifiedSince() {
		return false, false
	}

	if hashx.Setlist(s) == s.LastSyncHash {
		d.log.Debug(ctx, "timestamp bumped but content unchanged, skipping push", "setlist", s.ID)
		return false, false
	}
	return true, false
}

// NeedsPullSong reports whether the canonical remote record must be
// downloaded over the local song. A nil local means the entity only exists
// remotely and is always pulled.
func (d *ChangeDetector) NeedsPullSong(rec models.RemoteObjectRecord, local *models.SongEntity) bool {
	if local == nil || local.RemoteObjectID == "" {
		return true
	}
	if !rec.ModifiedTime.After(local.RemoteModifiedTime) {
		return false
	}
	// Remote timestamp moved; the embedded hash settles whether content did.
	if h := rec.Properties[models.PropContentHash]; h != "" && h == local.ContentHash {
		return false
	}
	return true
}

// NeedsPullSetlist mirrors NeedsPullSong for setlists.
func (d *ChangeDetector) NeedsPullSetlist(rec models.RemoteObjectRecord, local *models.SetlistEntity) bool {
	if local == nil || local.RemoteObjectID == "" {
		return true
	}
	if !rec.ModifiedTime.After(local.RemoteModifiedTime) {
		return false
	}
	if h := rec.Properties[models.PropContentHash]; h != "" && h == local.LastSyncHash {
		return false
	}
	return true
}
