package sync

import (
	"context"
	stdsync "sync"

	"github.com/dmitrijs2005/songsync/internal/logging"
)

// defaultChunkSize bounds how many network calls are in flight at once.
// Concurrency within a chunk is implicitly capped by the chunk size;
// chunks themselves run strictly sequentially, so no extra semaphore is
// needed.
const defaultChunkSize = 10

// chunkHandler runs after each chunk settles, receiving the chunk's items
// and their order-correlated results (nil marks a failed item). It is the
// hook for "one batch write per chunk" persistence; a handler error is
// phase-fatal and aborts the remaining chunks.
type chunkHandler[T, R any] func(ctx context.Context, items []T, results []*R) error

// runBatched executes op over items in fixed-size chunks. Within a chunk
// every item runs concurrently and the chunk settles completely before the
// next one starts: one item's failure never cancels its neighbours. A
// failed item is retried once sequentially after the chunk settles; if the
// retry fails too, the item is logged, its slot stays nil, and the sync
// moves on.
func runBatched[T, R any](
	ctx context.Context,
	items []T,
	chunkSize int,
	op func(ctx context.Context, item T) (*R, error),
	handle chunkHandler[T, R],
	onChunk func(done, total int),
	log logging.Logger,
) ([]*R, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	results := make([]*R, len(items))
	done := 0

	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		chunk := items[start:end]
		chunkResults := results[start:end]
		chunkErrs := make([]error, len(chunk))
		log.Debug(ctx, "processing batch chunk", "offset", start, "size", len(chunk), "total", len(items))

		var wg stdsync.WaitGroup
		for i := range chunk {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r, err := op(ctx, chunk[i])
				if err != nil {
					chunkErrs[i] = err
					return
				}
				chunkResults[i] = r
			}(i)
		}
		wg.Wait()

		// Sequential second chance for items that failed inside the chunk.
		for i, itemErr := range chunkErrs {
			if itemErr == nil {
				continue
			}
			log.Warn(ctx, "item failed in batch, retrying sequentially", "error", itemErr)

			r, err := op(ctx, chunk[i])
			if err != nil {
				log.Error(ctx, "item failed after retry, skipping", "error", err)
				continue
			}
			chunkResults[i] = r
		}

		if handle != nil {
			if err := handle(ctx, chunk, chunkResults); err != nil {
				return results, err
			}
		}

		done += len(chunk)
		if onChunk != nil {
			onChunk(done, len(items))
		}
	}

	return results, nil
}

// runCombined executes chunks through a combined multi-item operation
// (one network call per chunk) whose response is order-correlated with the
// chunk. When the combined call itself fails, the chunk falls back to
// sequential per-item submission so a single bad call cannot lose the whole
// chunk's work. The two tiers are separate function values so each is
// testable on its own.
func runCombined[T, R any](
	ctx context.Context,
	items []T,
	chunkSize int,
	combined func(ctx context.Context, chunk []T) ([]*R, error),
	single func(ctx context.Context, item T) (*R, error),
	handle chunkHandler[T, R],
	onChunk func(done, total int),
	log logging.Logger,
) ([]*R, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	results := make([]*R, len(items))
	done := 0

	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		chunk := items[start:end]
		chunkResults := results[start:end]
		log.Debug(ctx, "submitting combined chunk", "offset", start, "size", len(chunk), "total", len(items))

		batch, err := combined(ctx, chunk)
		if err != nil || len(batch) != len(chunk) {
			if err != nil {
				log.Warn(ctx, "combined batch call failed, falling back to sequential items",
					"chunk_size", len(chunk), "error", err)
			} else {
				log.Warn(ctx, "combined batch call returned mismatched result count, falling back",
					"want", len(chunk), "got", len(batch))
			}

			for i := range chunk {
				r, itemErr := single(ctx, chunk[i])
				if itemErr != nil {
					log.Error(ctx, "item failed in sequential fallback, skipping", "error", itemErr)
					continue
				}
				chunkResults[i] = r
			}
		} else {
			copy(chunkResults, batch)
		}

		if handle != nil {
			if err := handle(ctx, chunk, chunkResults); err != nil {
				return results, err
			}
		}

		done += len(chunk)
		if onChunk != nil {
			onChunk(done, len(items))
		}
	}

	return results, nil
}
