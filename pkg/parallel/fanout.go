// Package parallel provides the fan-out/fan-in helper used to spread
// independent simulation units across worker goroutines.
package parallel

import (
	"context"
	"fmt"
	"sync"
)

// Map runs fn over every item using up to workers goroutines and returns the
// results in input order, so callers merge deterministically regardless of
// completion order. The first error observed cancels remaining work; workers
// check cancellation only between items, never mid-item, so no partial result
// is ever produced. A panic inside fn is recovered and surfaced as an error
// instead of crashing the worker.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	if len(items) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]R, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	run := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				fail(fmt.Errorf("worker panic: %v", r))
			}
		}()
		result, err := fn(items[i])
		if err != nil {
			fail(err)
			return
		}
		results[i] = result
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				run(i)
			}
		}()
	}

feed:
	for i := range items {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
