package crawl

import (
	"context"

	"github.com/fwojciec/linkminer"
)

// asyncTask is one expansion scheduled on the cooperative loop.
type asyncTask struct {
	url    string
	depth  int
	parent *asyncTask

	// pending counts children launched from this page that have not joined.
	pending int
	// fetched is set once the page's own fetch has been handled.
	fetched bool
}

type asyncCompletion struct {
	task   *asyncTask
	result linkminer.FetchResult
}

// asyncLoop runs crawl bookkeeping on a single goroutine. The only
// suspension point is await, which blocks until some fetch completes;
// extract, normalize, filter and visited updates run between awaits
// without interleaving, so the loop's own state needs no locking.
type asyncLoop struct {
	r     *run
	ctx   context.Context
	limit int

	queued   []*asyncTask
	inflight int
	done     chan asyncCompletion
}

func newAsyncLoop(ctx context.Context, r *run) *asyncLoop {
	return &asyncLoop{
		r:     r,
		ctx:   ctx,
		limit: r.c.cfg.Concurrency,
		done:  make(chan asyncCompletion),
	}
}

// spawn claims t and queues it for fetching.
// Returns false if t was pruned by depth or because it was already visited.
func (l *asyncLoop) spawn(t *asyncTask) bool {
	if !l.r.claim(t.url, t.depth) {
		return false
	}
	l.queued = append(l.queued, t)
	return true
}

// dispatch starts queued fetches up to the in-flight limit.
func (l *asyncLoop) dispatch() {
	for l.inflight < l.limit && len(l.queued) > 0 {
		t := l.queued[0]
		l.queued = l.queued[1:]

		l.r.begin(t.url, t.depth)
		l.inflight++
		future := FetchAsync(l.ctx, l.r.c.fetcher, t.url, l.r.c.cfg.Timeout)
		go func() {
			l.done <- asyncCompletion{task: t, result: <-future}
		}()
	}
}

// await suspends the loop until one in-flight fetch completes.
func (l *asyncLoop) await() asyncCompletion {
	c := <-l.done
	l.inflight--
	return c
}

func (l *asyncLoop) idle() bool {
	return l.inflight == 0 && len(l.queued) == 0
}

// handle processes a completed fetch and returns the page's kept links,
// or nil if the fetch failed.
func (l *asyncLoop) handle(c asyncCompletion) []string {
	t := c.task
	t.fetched = true
	if c.result.Err != nil {
		l.r.fail(t.url, t.depth, c.result.Err)
		return nil
	}
	return l.r.process(t.url, t.depth, c.result.HTML)
}

// join propagates completion from t to its ancestors. A task completes once
// its own fetch was handled and all children it launched have completed.
func (l *asyncLoop) join(t *asyncTask) {
	for t != nil && t.fetched && t.pending == 0 {
		l.r.logger.Debug("expansion complete", "url", t.url, "depth", t.depth)
		if t.parent == nil {
			return
		}
		t.parent.pending--
		t = t.parent
	}
}

// dfsAsync launches the children of each page as tasks on the loop and
// joins them into their parent before the parent is complete. Siblings
// may finish in any order.
func (r *run) dfsAsync(ctx context.Context) {
	l := newAsyncLoop(ctx, r)
	if !l.spawn(&asyncTask{url: r.c.baseURL}) {
		return
	}

	for !l.idle() {
		l.dispatch()
		c := l.await()
		t := c.task
		for _, link := range l.handle(c) {
			if t.depth >= r.c.cfg.MaxDepth {
				break
			}
			if l.spawn(&asyncTask{url: link, depth: t.depth + 1, parent: t}) {
				t.pending++
			}
		}
		l.join(t)
	}
}

// bfsAsync runs one depth level at a time on the loop: every URL of the
// level is fetched, the level is joined, then the next level starts.
func (r *run) bfsAsync(ctx context.Context) {
	l := newAsyncLoop(ctx, r)
	level := []string{r.c.baseURL}
	for depth := 0; len(level) > 0 && depth <= r.c.cfg.MaxDepth; depth++ {
		for _, url := range level {
			l.spawn(&asyncTask{url: url, depth: depth})
		}

		var next []string
		for !l.idle() {
			l.dispatch()
			next = append(next, l.handle(l.await())...)
		}
		level = next
	}
}
