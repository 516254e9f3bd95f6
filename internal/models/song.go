// Package models defines the song, setlist and remote-object types
// synchronized between the local database and the remote object store.
package models

import (
	"strings"
	"time"
)

// SongEntity is one variant of a song (a concrete key/arrangement).
// ID is unique per variant; SongID is the deterministic content id shared
// by all variants of the same logical song.
type SongEntity struct {
	ID              string `json:"id"`
	SongID          string `json:"song_id"`
	Title           string `json:"title"`
	NormalizedTitle string `json:"normalized_title"`
	Key             string `json:"key"`
	Tempo           string `json:"tempo"`
	TimeSignature   string `json:"time_signature"`
	VariantLabel    string `json:"variant_label"`

	// ContentID references the ChordContent blob holding the chord sheet.
	ContentID   string `json:"content_id"`
	ContentHash string `json:"content_hash"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sync-state bookkeeping. Never part of user-facing content.
	RemoteObjectID     string    `json:"remote_object_id"`
	RemoteModifiedTime time.Time `json:"remote_modified_time"`
	LastSyncedAt       time.Time `json:"last_synced_at"`
}

// ChordContent is the opaque chord-sheet text blob owned by a SongEntity.
type ChordContent struct {
	ID          string    `json:"id"`
	Body        string    `json:"body"`
	ContentHash string    `json:"content_hash"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeTitle lowercases a title and collapses interior whitespace so
// that "Amazing  Grace " and "amazing grace" map to the same value.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// ModifiedSince reports whether the song changed after its last successful
// sync. Entities that have never synced are always considered modified.
func (s *SongEntity) ModifiedSince() bool {
	if s.LastSyncedAt.IsZero() {
		return true
	}
	return s.UpdatedAt.After(s.LastSyncedAt)
}

// ClearRemoteLink drops the remote linkage fields. Called when the remote
// object the entity pointed at no longer exists.
func (s *SongEntity) ClearRemoteLink() {
	s.RemoteObjectID = ""
	s.RemoteModifiedTime = time.Time{}
}
