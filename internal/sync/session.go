package sync

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songsync/internal/remote"
)

// Folder names under the sync root.
const (
	songsFolderName    = "songs"
	setlistsFolderName = "setlists"
)

// session carries the only mutable state shared across one sync cycle: the
// folder-id cache and the remote inventory. A fresh session is created per
// Sync/ClearAndReupload call and discarded on exit, success or failure:
// remote structure can change between cycles, so a warm cache is a
// correctness hazard, not an optimization.
type session struct {
	folderIDs map[string]string
	inventory *Inventory
}

func newSession() *session {
	return &session{folderIDs: make(map[string]string)}
}

// discard empties the caches so accidental reuse fails loudly instead of
// serving stale ids.
func (s *session) discard() {
	s.folderIDs = nil
	s.inventory = nil
}

// folder resolves a folder id populate-on-miss. The single-threaded phase
// structure guarantees no two lookups for the same key race; a repeated
// FindOrCreateFolder would be idempotent anyway.
func (s *session) folder(ctx context.Context, fs remote.FileStore, name, parentID string) (string, error) {
	cacheKey := parentID + "/" + name
	if id, ok := s.folderIDs[cacheKey]; ok {
		return id, nil
	}

	id, err := fs.FindOrCreateFolder(ctx, name, parentID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve folder %q: %w", name, err)
	}
	s.folderIDs[cacheKey] = id
	return id, nil
}
