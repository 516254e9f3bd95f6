package sync

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/dmitrijs2005/songsync/internal/remote"
)

// Inventory is the membership set of every remote object id reachable from
// the sync root, folders included. It is the sole authority for "does this
// remote id still exist" within one cycle and is rebuilt fresh each push
// phase.
type Inventory struct {
	ids map[string]struct{}
	// partial is set when any listing failed during the walk. A partial set
	// cannot prove absence, so membership checks stop answering "no".
	partial bool
}

// Contains reports membership. A nil or partial Inventory answers true for
// every id: when a listing failed we degrade to "assume exists" rather than
// clearing links we cannot verify.
func (inv *Inventory) Contains(id string) bool {
	if inv == nil || inv.partial {
		return true
	}
	_, ok := inv.ids[id]
	return ok
}

// Len returns the number of known ids.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.ids)
}

// BuildInventory recursively lists everything under rootID. Listing errors
// are non-fatal: they are logged and the inventory is marked partial, which
// disables stale-link detection for the cycle instead of aborting the sync
// or mass-clearing links the walk simply failed to see.
func BuildInventory(ctx context.Context, fs remote.FileStore, rootID string, log logging.Logger) *Inventory {
	inv := &Inventory{ids: make(map[string]struct{})}
	inv.walk(ctx, fs, rootID, log)
	return inv
}

func (inv *Inventory) walk(ctx context.Context, fs remote.FileStore, folderID string, log logging.Logger) {
	children, err := fs.ListChildren(ctx, folderID)
	if err != nil {
		log.Warn(ctx, "inventory listing failed, existence checks degrade to assume-exists",
			"folder", folderID, "error", err)
		inv.partial = true
		return
	}

	for _, child := range children {
		inv.ids[child.ID] = struct{}{}
		if remote.IsFolder(child) {
			inv.walk(ctx, fs, child.ID, log)
		}
	}
}

// add records an id created after the inventory was built, keeping the set
// truthful for the remainder of the cycle.
func (inv *Inventory) add(rec *models.RemoteObjectRecord) {
	if inv == nil || rec == nil {
		return
	}
	inv.ids[rec.ID] = struct{}{}
}
