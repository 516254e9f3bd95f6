package hashx

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/stretchr/testify/require"
)

func TestSong_DeterministicAndSensitive(t *testing.T) {
	s := &models.SongEntity{Title: "Amazing Grace", Key: "G", Tempo: "72"}

	h1 := Song(s, "[G]Amazing grace")
	h2 := Song(s, "[G]Amazing grace")
	require.Equal(t, h1, h2, "same content must hash identically")

	require.NotEqual(t, h1, Song(s, "[A]Amazing grace"), "body change must change the hash")

	s2 := *s
	s2.Key = "A"
	require.NotEqual(t, h1, Song(&s2, "[G]Amazing grace"), "metadata change must change the hash")
}

func TestSong_IgnoresSyncState(t *testing.T) {
	s := &models.SongEntity{Title: "Amazing Grace"}
	h1 := Song(s, "body")

	s.RemoteObjectID = "obj-1"
	s.LastSyncedAt = time.Now()
	s.UpdatedAt = time.Now()
	require.Equal(t, h1, Song(s, "body"))
}

func TestSetlist_OrderMatters(t *testing.T) {
	sl := &models.SetlistEntity{
		Name: "Sunday",
		Items: []models.SetlistItem{
			{SongEntityID: "a"},
			{SongEntityID: "b"},
		},
	}
	h1 := Setlist(sl)

	sl.Items[0], sl.Items[1] = sl.Items[1], sl.Items[0]
	require.NotEqual(t, h1, Setlist(sl), "reordering items is a content change")
}

func TestSetlist_OverridesAffectHash(t *testing.T) {
	sl := &models.SetlistEntity{Name: "Sunday", Items: []models.SetlistItem{{SongEntityID: "a"}}}
	h1 := Setlist(sl)

	sl.Items[0].OverrideKey = "D"
	require.NotEqual(t, h1, Setlist(sl))
}

func TestSumString(t *testing.T) {
	require.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		SumString("hello"))
}
