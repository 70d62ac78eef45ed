package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vanshika/netpath/internal/domain"
)

// ErrTooManyPairs is returned when a batch exceeds the configured limit.
var ErrTooManyPairs = errors.New("too many pairs in batch")

// TaskError accumulates the errors produced by a worker pool run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As see every collected error.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BatchShortestPaths answers every pair against one snapshot of the graph,
// so a reload during the batch cannot mix answers from two graphs. Results
// are returned in request order.
func (s *GraphService) BatchShortestPaths(ctx context.Context, pairs []domain.NodePair) ([]domain.PathResult, error) {
	if len(pairs) > s.opts.BatchMaxPairs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPairs, len(pairs), s.opts.BatchMaxPairs)
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	results := make([]domain.PathResult, len(pairs))
	err = runPool(ctx, s.opts.BatchWorkers, len(pairs), func(idx int) error {
		results[idx] = query(snap, pairs[idx].Start, pairs[idx].End)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// runPool calls workerFn for every index in [0, total) on at most workers
// goroutines. Dispatch stops when ctx is done.
func runPool(ctx context.Context, workers, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	if workers > total {
		workers = total
	}

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- fmt.Errorf("item %d: %w", idx, err)
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		taskErr.append(err)
	}
	return taskErr.asError()
}
