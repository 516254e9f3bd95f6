package models

import "time"

// SetlistItem is one slot in a setlist: a song reference with optional
// per-performance overrides.
type SetlistItem struct {
	SongEntityID string `json:"song_entity_id"`
	OverrideKey  string `json:"override_key,omitempty"`
	OverrideTempo string `json:"override_tempo,omitempty"`
	// InlineContent carries ad-hoc edits made to the chord sheet for this
	// setlist only, without touching the song itself.
	InlineContent string `json:"inline_content,omitempty"`
}

// SetlistEntity is an ordered sequence of song references. The whole entity
// is the unit of synchronization; items are never synced individually.
type SetlistEntity struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Items     []SetlistItem `json:"items"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Sync-state bookkeeping.
	RemoteObjectID     string    `json:"remote_object_id"`
	RemoteModifiedTime time.Time `json:"remote_modified_time"`
	LastSyncedAt       time.Time `json:"last_synced_at"`
	// LastSyncHash caches the hash of the serialized setlist at the time of
	// the last sync, so an unchanged setlist is not re-hashed on every cycle.
	LastSyncHash string `json:"last_sync_hash"`
}

// ModifiedSince reports whether the setlist changed after its last
// successful sync.
func (s *SetlistEntity) ModifiedSince() bool {
	if s.LastSyncedAt.IsZero() {
		return true
	}
	return s.UpdatedAt.After(s.LastSyncedAt)
}

// ClearRemoteLink drops the remote linkage fields.
func (s *SetlistEntity) ClearRemoteLink() {
	s.RemoteObjectID = ""
	s.RemoteModifiedTime = time.Time{}
}
