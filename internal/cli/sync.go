package cli

import (
	"context"
	"fmt"

	syncpkg "github.com/dmitrijs2005/songsync/internal/sync"
)

// runSync performs one pull-then-push cycle, printing progress to stdout.
func (a *App) runSync(ctx context.Context) error {
	o, err := a.orchestrator(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.SyncTimeout)
	defer cancel()

	rep, err := o.Sync(ctx, printProgress)
	if err != nil {
		return err
	}

	printReport(rep)
	return nil
}

func printProgress(p syncpkg.Progress) {
	if p.Total > 0 {
		fmt.Printf("[%s] %s (%d/%d)\n", p.Stage, p.Message, p.Current, p.Total)
		return
	}
	fmt.Printf("[%s] %s\n", p.Stage, p.Message)
}

func printReport(rep *syncpkg.Report) {
	fmt.Printf("pulled: %d songs, %d setlists\n", rep.SongsPulled, rep.SetlistsPulled)
	fmt.Printf("pushed: %d songs, %d setlists\n", rep.SongsPushed, rep.SetlistsPushed)
	fmt.Printf("skipped: %d, failed: %d\n", rep.Skipped, rep.Failed)
	if rep.DuplicatesDemoted > 0 {
		fmt.Printf("duplicates demoted: %d\n", rep.DuplicatesDemoted)
	}
	if rep.StaleLinksCleared > 0 {
		fmt.Printf("stale links cleared: %d\n", rep.StaleLinksCleared)
	}
	if rep.RemoteDeleted > 0 {
		fmt.Printf("remote objects deleted: %d\n", rep.RemoteDeleted)
	}
}
