package cli

import (
	"context"
)

// runReset wipes every synced object from the remote store, clears local
// sync bookkeeping and re-uploads everything from scratch.
func (a *App) runReset(ctx context.Context) error {
	o, err := a.orchestrator(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.SyncTimeout)
	defer cancel()

	rep, err := o.ClearAndReupload(ctx, printProgress)
	if err != nil {
		return err
	}

	printReport(rep)
	return nil
}
