package slice

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidLimit is returned by MapConcurrent when limit is less than 1.
var ErrInvalidLimit = errors.New("slice: concurrency limit must be at least 1")

// MapConcurrent calls op for every input with at most limit calls running at
// once and returns the results in input order. As soon as a call returns,
// the next input that has not started yet is dispatched.
//
// The first error stops dispatching, cancels the context passed to calls
// still running and is returned once they have finished; results already
// computed are discarded. A limit of 1 runs the inputs one after another.
func MapConcurrent[T, R any](ctx context.Context, inputs []T, limit int, op func(ctx context.Context, in T) (R, error)) ([]R, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, len(inputs)))
	var stopped bool
	for i, in := range inputs {
		// Go blocks while limit calls are running
		if gctx.Err() != nil {
			stopped = true
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := op(gctx, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stopped {
		return nil, ctx.Err()
	}
	return results, nil
}
