package docmodel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/apidocgen/apidocgen/internal/annotation"
)

// AssembleParallel projects classes on up to workers goroutines and joins
// the results in class order. The output is identical to Assemble.
func AssembleParallel(ctx context.Context, store *annotation.Store, workers int) (*Document, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([][]methodResult, len(store.Classes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, class := range store.Classes {
		i, class := i, class
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = projectClass(class)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	j := newJoiner(store)
	for _, r := range results {
		j.addClass(r)
	}
	return j.finish()
}
