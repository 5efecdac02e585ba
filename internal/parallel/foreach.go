// Package parallel holds a bounded fan-out helper for independent work
// items.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach calls fn for every index in [0, n) with at most limit calls in
// flight (limit <= 0 means n). Once a call fails, the context handed to the
// remaining calls is cancelled and indices not yet started are skipped.
// It returns the first error.
func ForEach(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	skipped := false
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			skipped = true
			break
		}
		g.Go(func() error { return fn(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if skipped {
		return ctx.Err()
	}
	return nil
}
