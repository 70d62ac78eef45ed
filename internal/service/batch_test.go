package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/domain"
)

func TestBatchShortestPaths_PreservesOrder(t *testing.T) {
	svc := loadedService(t, Options{BatchWorkers: 3})

	pairs := []domain.NodePair{
		{Start: 1, End: 3},
		{Start: 3, End: 1},
		{Start: 1, End: 9},
		{Start: 1, End: 42},
		{Start: 2, End: 2},
	}
	results, err := svc.BatchShortestPaths(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, results, len(pairs))

	assert.Equal(t, []int64{1, 2, 3}, results[0].Nodes)
	assert.Equal(t, []int64{3, 2, 1}, results[1].Nodes)
	assert.False(t, results[2].Distance.Reachable)
	assert.NoError(t, results[2].Err)
	assert.ErrorIs(t, results[3].Err, domain.ErrNodeNotFound)
	assert.Equal(t, domain.Reached(0), results[4].Distance)
}

func TestBatchShortestPaths_Empty(t *testing.T) {
	svc := loadedService(t, Options{})

	results, err := svc.BatchShortestPaths(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchShortestPaths_TooMany(t *testing.T) {
	svc := loadedService(t, Options{BatchMaxPairs: 2})

	_, err := svc.BatchShortestPaths(context.Background(), make([]domain.NodePair, 3))
	assert.ErrorIs(t, err, ErrTooManyPairs)
	assert.Equal(t, 2, svc.MaxBatchPairs())
}

func TestBatchShortestPaths_Canceled(t *testing.T) {
	svc := loadedService(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BatchShortestPaths(ctx, make([]domain.NodePair, 50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPool_CollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := runPool(context.Background(), 4, 10, func(idx int) error {
		calls.Add(1)
		if idx%3 == 0 {
			return boom
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 4)
	assert.Equal(t, int32(10), calls.Load())
	assert.Contains(t, err.Error(), "multiple errors")
}

func TestTaskError_Messages(t *testing.T) {
	assert.Equal(t, "no errors", (&TaskError{}).Error())
	assert.Equal(t, "one", (&TaskError{Errors: []error{errors.New("one")}}).Error())
}
