package dynamo

import (
	"context"
	"sync"
)

// RunAll evaluates fn for every index in [0, n) concurrently and returns the
// first error in index order. fn must not share mutable state across indices.
func RunAll(ctx context.Context, n int, fn func(ctx context.Context, idx int) error) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = fn(ctx, idx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
