package asyncx

import (
	"context"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// Pool runs fn on every item with at most concurrency goroutines and keeps
// result order. It returns on the first error and cancels the remaining work.
func Pool[T any, R any](ctx context.Context, items []T, concurrency int,
	fn func(ctx context.Context, item T) (R, error)) ([]R, error) {

	if concurrency <= 0 {
		return nil, ErrorRegistry.New(ErrPoolSize).WithDetail("provided", concurrency)
	}

	var wg sync.WaitGroup
	results := make([]R, len(items))

	// Create a cancellable context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	semaphore := make(chan struct{}, concurrency)

	for i, item := range items {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, firstError(ctx, errCh)
		}

		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			result, err := fn(ctx, it)
			if err != nil {
				select {
				case errCh <- err:
					cancel()
				default:
				}
				return
			}

			results[idx] = result
		}(i, item)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, firstError(ctx, errCh)
	}
	return results, nil
}

func firstError(ctx context.Context, errCh chan error) error {
	select {
	case err := <-errCh:
		return errx.Wrap(err, "pool operation failed", errx.TypeSystem)
	default:
		return contextError(ctx)
	}
}

// PoolCollect runs fn on every item with at most concurrency goroutines and
// collects every failure into an *ErrorCollection keyed by item index.
// Results of failed items are left as zero values.
func PoolCollect[T any, R any](ctx context.Context, items []T, concurrency int,
	fn func(ctx context.Context, item T) (R, error)) ([]R, error) {

	if concurrency <= 0 {
		return nil, ErrorRegistry.New(ErrPoolSize).WithDetail("provided", concurrency)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]R, len(items))
	errorMap := make(map[int]error)

	semaphore := make(chan struct{}, concurrency)

	for i, item := range items {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			// Items never started are reported as canceled
			mu.Lock()
			for j := i; j < len(items); j++ {
				errorMap[j] = contextError(ctx)
			}
			mu.Unlock()
			wg.Wait()
			return results, &ErrorCollection{Errors: errorMap, Operation: "PoolCollect"}
		}

		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				mu.Lock()
				errorMap[idx] = contextError(ctx)
				mu.Unlock()
				return
			}

			result, err := fn(ctx, it)
			if err != nil {
				mu.Lock()
				errorMap[idx] = err
				mu.Unlock()
				return
			}

			results[idx] = result
		}(i, item)
	}

	wg.Wait()

	if len(errorMap) > 0 {
		return results, &ErrorCollection{
			Errors:    errorMap,
			Operation: "PoolCollect",
		}
	}

	return results, nil
}

// Map applies a function to each item concurrently and returns all results
func Map[T any, R any](ctx context.Context, items []T, concurrency int,
	mapFn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	return Pool(ctx, items, concurrency, mapFn)
}

// MapCollect applies a function to all items and collects all errors
func MapCollect[T any, R any](ctx context.Context, items []T, concurrency int,
	mapFn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	return PoolCollect(ctx, items, concurrency, mapFn)
}
