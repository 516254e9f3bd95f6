// Package hashx computes deterministic content hashes for synchronized
// entities. The same logical content always produces the same hash, so the
// hash doubles as a cheap change detector and a deduplication key.
package hashx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dmitrijs2005/songsync/internal/models"
)

// Sum returns the lowercase hex SHA-256 of b.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SumString is Sum for strings.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Canonical serialization structs. Field order is fixed, so json.Marshal
// output is deterministic. Sync-state fields are deliberately excluded:
// bookkeeping changes must not look like content changes.

type canonicalSong struct {
	Title         string `json:"title"`
	Key           string `json:"key"`
	Tempo         string `json:"tempo"`
	TimeSignature string `json:"time_signature"`
	VariantLabel  string `json:"variant_label"`
	Body          string `json:"body"`
}

type canonicalSetlistItem struct {
	SongEntityID  string `json:"song_entity_id"`
	OverrideKey   string `json:"override_key"`
	OverrideTempo string `json:"override_tempo"`
	InlineContent string `json:"inline_content"`
}

type canonicalSetlist struct {
	Name  string                 `json:"name"`
	Items []canonicalSetlistItem `json:"items"`
}

// Song hashes a song variant together with its chord-sheet body.
func Song(s *models.SongEntity, body string) string {
	c := canonicalSong{
		Title:         s.Title,
		Key:           s.Key,
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
		VariantLabel:  s.VariantLabel,
		Body:          body,
	}
	b, _ := json.Marshal(c)
	return Sum(b)
}

// Setlist hashes a setlist's name and ordered items. Reordering items
// changes the hash; that is a real content change for an ordered record.
func Setlist(s *models.SetlistEntity) string {
	c := canonicalSetlist{Name: s.Name, Items: make([]canonicalSetlistItem, 0, len(s.Items))}
	for _, it := range s.Items {
		c.Items = append(c.Items, canonicalSetlistItem{
			SongEntityID:  it.SongEntityID,
			OverrideKey:   it.OverrideKey,
			OverrideTempo: it.OverrideTempo,
			InlineContent: it.InlineContent,
		})
	}
	b, _ := json.Marshal(c)
	return Sum(b)
}
