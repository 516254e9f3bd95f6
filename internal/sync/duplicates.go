package sync

import (
	"context"

	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/dmitrijs2005/songsync/internal/models"
)

// DuplicateResolver collapses multiple remote objects claiming the same
// logical identity down to one canonical winner. Users duplicating files in
// the remote store copy the embedded metadata too, so colliding identities
// with different object ids are an expected failure mode, not a corruption.
type DuplicateResolver struct {
	log logging.Logger
}

func NewDuplicateResolver(log logging.Logger) *DuplicateResolver {
	return &DuplicateResolver{log: log}
}

// Resolve groups records by embedded identity and keeps the most recently
// modified record per group. Losers are demoted (dropped from further
// processing) but never deleted remotely; cleanup is a separate, explicit
// operation. Ties keep the first-seen record deterministically.
//
// The returned demoted count feeds the cycle report.
func (r *DuplicateResolver) Resolve(ctx context.Context, records []models.RemoteObjectRecord) (map[string]models.RemoteObjectRecord, int) {
	canonical := make(map[string]models.RemoteObjectRecord, len(records))
	demoted := 0

	for _, rec := range records {
		identity := rec.Identity()

		current, seen := canonical[identity]
		if !seen {
			canonical[identity] = rec
			continue
		}

		demoted++
		switch {
		case rec.ModifiedTime.After(current.ModifiedTime):
			r.log.Info(ctx, "demoting duplicate remote object",
				"identity", identity, "kept", rec.ID, "demoted", current.ID)
			canonical[identity] = rec
		case rec.ModifiedTime.Equal(current.ModifiedTime):
			r.log.Warn(ctx, "duplicate remote objects with identical modification time, keeping first seen",
				"identity", identity, "kept", current.ID, "demoted", rec.ID)
		default:
			r.log.Info(ctx, "demoting duplicate remote object",
				"identity", identity, "kept", current.ID, "demoted", rec.ID)
		}
	}

	return canonical, demoted
}
