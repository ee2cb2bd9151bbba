package workers

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Each runs fn for every item using at most limit goroutines and blocks
// until all started units have returned. Errors from individual units are
// collected and returned joined; they never cancel other units. Items not
// yet started when ctx is cancelled are skipped and ctx.Err() is included
// in the result.
func Each[T any](ctx context.Context, limit int, items []T, fn func(context.Context, T) error) error {
	if limit < 1 {
		limit = 1
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := fn(ctx, item); err != nil {
				record(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		record(err)
	}
	return errors.Join(errs...)
}
