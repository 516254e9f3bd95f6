// Package sync reconciles the local database with the remote object store:
// pull-then-push cycles, content-addressed change detection, duplicate
// demotion and batched transfers with partial-failure isolation.
package sync

// Stage identifies where in a sync cycle a progress event was emitted.
type Stage string

const (
	StageStarting  Stage = "starting"
	StagePulling   Stage = "pulling"
	StagePushing   Stage = "pushing"
	StageClearing  Stage = "clearing"
	StageUploading Stage = "uploading"
	StageComplete  Stage = "complete"
	StageError     Stage = "error"
)

// Progress is one observability event. Current/Total are only meaningful
// for per-chunk events (Total > 0).
type Progress struct {
	Stage   Stage
	Message string
	Current int
	Total   int
}

// ProgressFunc receives progress events. It is purely observational: it
// cannot pause or cancel the cycle.
type ProgressFunc func(Progress)

// report emits p through fn when a callback was provided.
func report(fn ProgressFunc, p Progress) {
	if fn != nil {
		fn(p)
	}
}

// Report summarizes one sync cycle.
type Report struct {
	SongsPulled       int
	SongsPushed       int
	SetlistsPulled    int
	SetlistsPushed    int
	Skipped           int
	Failed            int
	DuplicatesDemoted int
	StaleLinksCleared int
	RemoteDeleted     int
}
