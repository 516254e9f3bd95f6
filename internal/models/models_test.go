package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	require.Equal(t, "amazing grace", NormalizeTitle("  Amazing   Grace "))
	require.Equal(t, "amazing grace", NormalizeTitle("AMAZING GRACE"))
	require.Equal(t, "", NormalizeTitle("   "))
}

func TestSongEntity_ModifiedSince(t *testing.T) {
	now := time.Now()

	s := &SongEntity{UpdatedAt: now}
	require.True(t, s.ModifiedSince(), "never-synced entity is always modified")

	s.LastSyncedAt = now.Add(time.Minute)
	require.False(t, s.ModifiedSince())

	s.UpdatedAt = now.Add(2 * time.Minute)
	require.True(t, s.ModifiedSince())
}

func TestSongEntity_ClearRemoteLink(t *testing.T) {
	s := &SongEntity{RemoteObjectID: "obj-1", RemoteModifiedTime: time.Now()}
	s.ClearRemoteLink()
	require.Empty(t, s.RemoteObjectID)
	require.True(t, s.RemoteModifiedTime.IsZero())
}

func TestRemoteObjectRecord_Identity_Fallbacks(t *testing.T) {
	r := &RemoteObjectRecord{
		ID: "obj-9",
		Properties: map[string]string{
			PropIdentity: "uuid-1",
			PropSongID:   "content-1",
		},
	}
	require.Equal(t, "uuid-1", r.Identity())

	delete(r.Properties, PropIdentity)
	require.Equal(t, "content-1", r.Identity())

	delete(r.Properties, PropSongID)
	require.Equal(t, "obj-9", r.Identity(), "object id is the last resort")
}

func TestObjectMetadata_RoundTrip(t *testing.T) {
	m := ObjectMetadata{
		Identity:      "uuid-1",
		SongID:        "song-1",
		ContentHash:   "abc123",
		Title:         "Amazing Grace",
		Key:           "G",
		Tempo:         "72",
		TimeSignature: "3/4",
		VariantLabel:  "capo 2",
		Kind:          KindSong,
	}

	got := MetadataFromProperties(m.ToProperties())
	require.Equal(t, m, got)
}

func TestObjectMetadata_ToProperties_OmitsEmpty(t *testing.T) {
	props := ObjectMetadata{Identity: "uuid-1", Kind: KindSetlist}.ToProperties()
	require.Equal(t, map[string]string{
		PropIdentity: "uuid-1",
		PropKind:     "setlist",
	}, props)
}
