package models

import "time"

// EntityKind discriminates the two synchronized entity types inside remote
// object metadata.
type EntityKind string

const (
	KindSong    EntityKind = "song"
	KindSetlist EntityKind = "setlist"
)

// Property-bag keys written onto every remote object. The remote store only
// carries flat string key/value pairs; ObjectMetadata is the typed view.
const (
	PropIdentity      = "identity"
	PropSongID        = "song-id"
	PropContentHash   = "content-hash"
	PropTitle         = "title"
	PropKey           = "key"
	PropTempo         = "tempo"
	PropTimeSignature = "time-signature"
	PropVariantLabel  = "variant"
	PropKind          = "kind"
)

// RemoteObjectRecord is the store-agnostic description of one remote object
// as returned by listings. Properties is the raw string bag; use
// MetadataFromProperties for typed access.
type RemoteObjectRecord struct {
	ID           string
	Name         string
	ParentID     string
	ContentType  string
	ModifiedTime time.Time
	Properties   map[string]string
}

// Identity returns the logical identity embedded in the record: the uuid
// property first, the secondary song-id next, and the object's own id as the
// last resort for objects created outside this tool.
func (r *RemoteObjectRecord) Identity() string {
	if id := r.Properties[PropIdentity]; id != "" {
		return id
	}
	if id := r.Properties[PropSongID]; id != "" {
		return id
	}
	return r.ID
}

// ObjectMetadata is the typed form of the remote property bag. Remote
// objects are self-describing: everything needed to rebuild the local record
// travels inside the object itself.
type ObjectMetadata struct {
	Identity      string
	SongID        string
	ContentHash   string
	Title         string
	Key           string
	Tempo         string
	TimeSignature string
	VariantLabel  string
	Kind          EntityKind
}

// ToProperties flattens the metadata into the string map the remote store
// requires. Empty fields are omitted.
func (m ObjectMetadata) ToProperties() map[string]string {
	props := make(map[string]string, 9)
	set := func(k, v string) {
		if v != "" {
			props[k] = v
		}
	}
	set(PropIdentity, m.Identity)
	set(PropSongID, m.SongID)
	set(PropContentHash, m.ContentHash)
	set(PropTitle, m.Title)
	set(PropKey, m.Key)
	set(PropTempo, m.Tempo)
	set(PropTimeSignature, m.TimeSignature)
	set(PropVariantLabel, m.VariantLabel)
	set(PropKind, string(m.Kind))
	return props
}

// MetadataFromProperties parses the flat string bag back into typed form.
// Unknown keys are ignored; missing keys yield zero values.
func MetadataFromProperties(props map[string]string) ObjectMetadata {
	return ObjectMetadata{
		Identity:      props[PropIdentity],
		SongID:        props[PropSongID],
		ContentHash:   props[PropContentHash],
		Title:         props[PropTitle],
		Key:           props[PropKey],
		Tempo:         props[PropTempo],
		TimeSignature: props[PropTimeSignature],
		VariantLabel:  props[PropVariantLabel],
		Kind:          EntityKind(props[PropKind]),
	}
}

// SongMetadata builds the self-describing metadata for a song upload.
func SongMetadata(s *SongEntity) ObjectMetadata {
	return ObjectMetadata{
		Identity:      s.ID,
		SongID:        s.SongID,
		ContentHash:   s.ContentHash,
		Title:         s.Title,
		Key:           s.Key,
		Tempo:         s.Tempo,
		TimeSignature: s.TimeSignature,
		VariantLabel:  s.VariantLabel,
		Kind:          KindSong,
	}
}

// SetlistMetadata builds the self-describing metadata for a setlist upload.
func SetlistMetadata(s *SetlistEntity, hash string) ObjectMetadata {
	return ObjectMetadata{
		Identity:    s.ID,
		ContentHash: hash,
		Title:       s.Name,
		Kind:        KindSetlist,
	}
}
