package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/dmitrijs2005/songsync/internal/remote"
	"github.com/dmitrijs2005/songsync/internal/store"
)

// Content types written on uploaded objects.
const (
	songContentType    = "application/x-chordpro"
	setlistContentType = "application/json"
)

// Config holds the orchestrator's knobs.
type Config struct {
	// RootFolderName is the remote folder everything syncs under.
	RootFolderName string
	// ChunkSize caps in-flight network calls per batch chunk.
	ChunkSize int
}

// Orchestrator runs full sync cycles against one local store and one
// remote file store. A cycle is pull-then-push: pull always completes in
// full before push begins, so a push can never race a pull's merge of the
// same entity.
type Orchestrator struct {
	local store.LocalStore
	fs    remote.FileStore
	cfg   Config
	log   logging.Logger

	now func() time.Time
}

func NewOrchestrator(local store.LocalStore, fs remote.FileStore, cfg Config, log logging.Logger) *Orchestrator {
	if cfg.RootFolderName == "" {
		cfg.RootFolderName = "songsync"
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &Orchestrator{local: local, fs: fs, cfg: cfg, log: log, now: time.Now}
}

// Sync performs one pull-then-push cycle. The progress callback is purely
// observational; it cannot halt the cycle. A nil error means the cycle
// completed (individual skipped items are detailed in the report).
func (o *Orchestrator) Sync(ctx context.Context, progress ProgressFunc) (*Report, error) {
	sess := newSession()
	defer sess.discard()

	rep := &Report{}
	report(progress, Progress{Stage: StageStarting, Message: "starting sync"})

	rootID, songsID, setlistsID, err := o.resolveFolders(ctx, sess)
	if err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StagePulling, Message: "pulling remote changes"})
	if err := o.pullSongs(ctx, songsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}
	if err := o.pullSetlists(ctx, setlistsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StagePushing, Message: "pushing local changes"})
	// The inventory is rebuilt fresh for the push phase: objects may have
	// been deleted out of band since the pull listing.
	sess.inventory = BuildInventory(ctx, o.fs, rootID, o.log)
	o.log.Debug(ctx, "remote inventory built", "objects", sess.inventory.Len())

	if err := o.pushSongs(ctx, sess, songsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}
	if err := o.pushSetlists(ctx, sess, setlistsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StageComplete, Message: "sync complete"})
	o.log.Info(ctx, "sync cycle complete",
		"songs_pulled", rep.SongsPulled, "songs_pushed", rep.SongsPushed,
		"setlists_pulled", rep.SetlistsPulled, "setlists_pushed", rep.SetlistsPushed,
		"skipped", rep.Skipped, "failed", rep.Failed,
		"duplicates_demoted", rep.DuplicatesDemoted, "stale_links_cleared", rep.StaleLinksCleared)
	return rep, nil
}

// ClearAndReupload wipes every synced object from the remote store and all
// local sync bookkeeping, then pushes everything from scratch. Every entity
// ends up with a brand-new remote object.
func (o *Orchestrator) ClearAndReupload(ctx context.Context, progress ProgressFunc) (*Report, error) {
	sess := newSession()
	defer sess.discard()

	rep := &Report{}
	report(progress, Progress{Stage: StageStarting, Message: "starting clear-and-reupload"})

	rootID, songsID, setlistsID, err := o.resolveFolders(ctx, sess)
	if err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StageClearing, Message: "clearing remote objects"})
	if err := o.clearRemote(ctx, songsID, setlistsID, rep); err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StageClearing, Message: "clearing local sync metadata"})
	if err := o.local.ClearSyncState(ctx); err != nil {
		return nil, o.fail(ctx, progress, fmt.Errorf("failed to clear local sync state: %w", err))
	}

	report(progress, Progress{Stage: StagePushing, Message: "re-uploading everything"})
	sess.inventory = BuildInventory(ctx, o.fs, rootID, o.log)

	if err := o.pushSongs(ctx, sess, songsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}
	if err := o.pushSetlists(ctx, sess, setlistsID, rep, progress); err != nil {
		return nil, o.fail(ctx, progress, err)
	}

	report(progress, Progress{Stage: StageComplete, Message: "clear-and-reupload complete"})
	o.log.Info(ctx, "clear-and-reupload complete",
		"remote_deleted", rep.RemoteDeleted,
		"songs_pushed", rep.SongsPushed, "setlists_pushed", rep.SetlistsPushed)
	return rep, nil
}

// resolveFolders makes sure the remote folder skeleton exists. Failure here
// is phase-fatal: nothing can transfer without the folders.
func (o *Orchestrator) resolveFolders(ctx context.Context, sess *session) (rootID, songsID, setlistsID string, err error) {
	rootID, err = sess.folder(ctx, o.fs, o.cfg.RootFolderName, "")
	if err != nil {
		return "", "", "", err
	}
	songsID, err = sess.folder(ctx, o.fs, songsFolderName, rootID)
	if err != nil {
		return "", "", "", err
	}
	setlistsID, err = sess.folder(ctx, o.fs, setlistsFolderName, rootID)
	if err != nil {
		return "", "", "", err
	}
	return rootID, songsID, setlistsID, nil
}

// clearRemote deletes every file object under the songs and setlists
// folders, in chunks. Folder markers stay.
func (o *Orchestrator) clearRemote(ctx context.Context, songsID, setlistsID string, rep *Report) error {
	var ids []string
	for _, folderID := range []string{songsID, setlistsID} {
		children, err := o.fs.ListChildren(ctx, folderID)
		if err != nil {
			return fmt.Errorf("failed to list %q for clearing: %w", folderID, err)
		}
		for _, child := range children {
			if !remote.IsFolder(child) {
				ids = append(ids, child.ID)
			}
		}
	}

	for start := 0; start < len(ids); start += o.cfg.ChunkSize {
		end := min(start+o.cfg.ChunkSize, len(ids))
		n, err := o.fs.BatchDelete(ctx, ids[start:end])
		rep.RemoteDeleted += n
		if err != nil {
			return fmt.Errorf("failed to clear remote objects: %w", err)
		}
	}
	return nil
}

// fail reports the error through the progress callback and returns it to
// the caller. Session caches are discarded by the deferred cleanup in the
// entry points, so a failed cycle never poisons the next one.
func (o *Orchestrator) fail(ctx context.Context, progress ProgressFunc, err error) error {
	o.log.Error(ctx, "sync cycle aborted", "error", err)
	report(progress, Progress{Stage: StageError, Message: err.Error()})
	return err
}
