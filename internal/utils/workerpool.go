package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelForEach calls fn for every item using at most workers goroutines.
// The returned slice holds fn's error at the index of its item. Items not
// started before ctx is done keep a nil error.
func ParallelForEach[T any](ctx context.Context, items []T, workers int, fn func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		// Go blocks while workers are busy
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			errs[i] = fn(ctx, items[i])
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// FirstError returns the first non-nil error from a slice of errors
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
