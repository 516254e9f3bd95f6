package cli

import (
	"context"
	"fmt"
)

// runList prints local songs and setlists with their sync state.
func (a *App) runList(ctx context.Context) error {
	songs, err := a.store.AllSongs(ctx)
	if err != nil {
		return err
	}
	setlists, err := a.store.AllSetlists(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("songs (%d):\n", len(songs))
	for _, s := range songs {
		label := ""
		if s.VariantLabel != "" {
			label = " [" + s.VariantLabel + "]"
		}
		fmt.Printf("  %-40s key=%-3s %s  %s\n", s.Title+label, s.Key, syncState(s.RemoteObjectID, s.ModifiedSince()), s.ID)
	}

	fmt.Printf("setlists (%d):\n", len(setlists))
	for _, s := range setlists {
		fmt.Printf("  %-40s %d items  %s  %s\n", s.Name, len(s.Items), syncState(s.RemoteObjectID, s.ModifiedSince()), s.ID)
	}
	return nil
}

func syncState(remoteObjectID string, modified bool) string {
	switch {
	case remoteObjectID == "":
		return "local-only"
	case modified:
		return "modified"
	default:
		return "synced"
	}
}
