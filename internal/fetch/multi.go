package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel catalogue fetches.
const DefaultConcurrency = 4

// All fetches every URL concurrently, bounded by limit (0 means
// DefaultConcurrency). Results keep the order of the input URLs. The first
// error cancels the remaining fetches.
func All(ctx context.Context, urls []string, opts *Options, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]*Result, len(urls))
	var mu sync.Mutex

	for i, urlStr := range urls {
		i, urlStr := i, urlStr
		g.Go(func() error {
			result, err := URL(gCtx, urlStr, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
