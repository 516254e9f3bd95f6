package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"

	"github.com/dmitrijs2005/songsync/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestRunBatched_AllSucceed(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	results, err := runBatched(context.Background(), items, 2,
		func(ctx context.Context, n int) (*int, error) {
			r := n * 10
			return &r, nil
		},
		nil, nil, logging.NewNoopLogger())
	require.NoError(t, err)

	require.Len(t, results, 5)
	for i, r := range results {
		require.NotNil(t, r)
		require.Equal(t, items[i]*10, *r)
	}
}

func TestRunBatched_FailedItemDoesNotAffectNeighbours(t *testing.T) {
	items := []int{1, 2, 3}

	results, err := runBatched(context.Background(), items, 3,
		func(ctx context.Context, n int) (*int, error) {
			if n == 2 {
				return nil, errors.New("boom")
			}
			r := n
			return &r, nil
		},
		nil, nil, logging.NewNoopLogger())
	require.NoError(t, err)

	require.NotNil(t, results[0])
	require.Nil(t, results[1], "failed item keeps a nil slot")
	require.NotNil(t, results[2])
}

func TestRunBatched_RetriesFailedItemOnce(t *testing.T) {
	var mu stdsync.Mutex
	attempts := 0

	results, err := runBatched(context.Background(), []int{7}, 1,
		func(ctx context.Context, n int) (*int, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts == 1 {
				return nil, errors.New("transient")
			}
			return &n, nil
		},
		nil, nil, logging.NewNoopLogger())
	require.NoError(t, err)

	require.Equal(t, 2, attempts)
	require.NotNil(t, results[0])
}

func TestRunBatched_ChunksRunSequentially(t *testing.T) {
	var done []int

	_, err := runBatched(context.Background(), []int{1, 2, 3, 4, 5}, 2,
		func(ctx context.Context, n int) (*int, error) { return &n, nil },
		nil,
		func(d, total int) {
			done = append(done, d)
			require.Equal(t, 5, total)
		},
		logging.NewNoopLogger())
	require.NoError(t, err)

	require.Equal(t, []int{2, 4, 5}, done)
}

func TestRunBatched_HandlerErrorAbortsRemainingChunks(t *testing.T) {
	var mu stdsync.Mutex
	calls := 0

	_, err := runBatched(context.Background(), []int{1, 2, 3, 4}, 2,
		func(ctx context.Context, n int) (*int, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return &n, nil
		},
		func(ctx context.Context, chunk []int, results []*int) error {
			return errors.New("persist failed")
		},
		nil, logging.NewNoopLogger())

	require.Error(t, err)
	require.Equal(t, 2, calls, "second chunk must never start")
}

func TestRunCombined_UsesOneCallPerChunk(t *testing.T) {
	combinedCalls := 0
	singleCalls := 0

	results, err := runCombined(context.Background(), []int{1, 2, 3, 4, 5}, 2,
		func(ctx context.Context, chunk []int) ([]*int, error) {
			combinedCalls++
			out := make([]*int, len(chunk))
			for i := range chunk {
				v := chunk[i]
				out[i] = &v
			}
			return out, nil
		},
		func(ctx context.Context, n int) (*int, error) {
			singleCalls++
			return &n, nil
		},
		nil, nil, logging.NewNoopLogger())
	require.NoError(t, err)

	require.Equal(t, 3, combinedCalls)
	require.Zero(t, singleCalls)
	for _, r := range results {
		require.NotNil(t, r)
	}
}

func TestRunCombined_FallsBackToSequentialOnCombinedFailure(t *testing.T) {
	singleCalls := 0

	results, err := runCombined(context.Background(), []int{1, 2, 3}, 3,
		func(ctx context.Context, chunk []int) ([]*int, error) {
			return nil, errors.New("combined endpoint down")
		},
		func(ctx context.Context, n int) (*int, error) {
			singleCalls++
			if n == 2 {
				return nil, errors.New("still bad")
			}
			return &n, nil
		},
		nil, nil, logging.NewNoopLogger())
	require.NoError(t, err)

	require.Equal(t, 3, singleCalls)
	require.NotNil(t, results[0])
	require.Nil(t, results[1])
	require.NotNil(t, results[2])
}
