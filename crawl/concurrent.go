package crawl

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// dfsConcurrent expands the children of each page on their own goroutines
// and returns only when every child subtree has finished. A weighted
// semaphore caps the number of fetches in flight; it is held only around
// the fetch so parents waiting on children never starve the pool.
func (r *run) dfsConcurrent(ctx context.Context) {
	sem := semaphore.NewWeighted(int64(r.c.cfg.Concurrency))
	r.expandConcurrent(ctx, sem, r.c.baseURL, 0)
}

func (r *run) expandConcurrent(ctx context.Context, sem *semaphore.Weighted, url string, depth int) {
	if !r.claim(url, depth) {
		return
	}
	html, ok := r.fetchLimited(ctx, sem, url, depth)
	if !ok {
		return
	}
	children := r.process(url, depth, html)
	if depth >= r.c.cfg.MaxDepth {
		return
	}

	var g errgroup.Group
	for _, child := range children {
		g.Go(func() error {
			r.expandConcurrent(ctx, sem, child, depth+1)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *run) fetchLimited(ctx context.Context, sem *semaphore.Weighted, url string, depth int) (string, bool) {
	if err := sem.Acquire(ctx, 1); err != nil {
		r.begin(url, depth)
		r.fail(url, depth, err)
		return "", false
	}
	defer sem.Release(1)
	return r.fetch(ctx, url, depth)
}

// bfsConcurrent expands one depth level at a time. URLs within a level are
// fetched concurrently, at most Concurrency at once, and the level is
// joined before the next one starts.
func (r *run) bfsConcurrent(ctx context.Context) {
	level := []string{r.c.baseURL}
	for depth := 0; len(level) > 0 && depth <= r.c.cfg.MaxDepth; depth++ {
		var (
			mu   sync.Mutex
			next []string
		)

		var g errgroup.Group
		g.SetLimit(r.c.cfg.Concurrency)
		for _, url := range level {
			if !r.claim(url, depth) {
				continue
			}
			g.Go(func() error {
				html, ok := r.fetch(ctx, url, depth)
				if !ok {
					return nil
				}
				children := r.process(url, depth, html)
				mu.Lock()
				next = append(next, children...)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		level = next
	}
}
