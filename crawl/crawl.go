// Package crawl provides the link discovery engine.
// It drives repeated fetch, extract, normalize, filter and enqueue cycles
// from a base URL in depth-first or breadth-first order, sequentially,
// concurrently or on a single cooperative event loop.
package crawl

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linkminer"
	"github.com/google/uuid"
)

// Crawler discovers same-domain links reachable from a base URL.
// A Crawler runs a single crawl; create a new one for each crawl.
type Crawler struct {
	cfg       linkminer.CrawlConfig
	fetcher   linkminer.Fetcher
	extractor linkminer.LinkExtractor
	visited   linkminer.VisitedSet
	logger    *slog.Logger
	progress  linkminer.ProgressFunc

	baseURL string
	domain  string
	started atomic.Bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger for crawl events.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithProgress sets a callback that receives progress events.
func WithProgress(fn linkminer.ProgressFunc) Option {
	return func(c *Crawler) {
		c.progress = fn
	}
}

// WithVisitedSet replaces the default exact VisitedSet.
func WithVisitedSet(v linkminer.VisitedSet) Option {
	return func(c *Crawler) {
		c.visited = v
	}
}

// New creates a Crawler for cfg. The domain is taken from the base URL and
// stays fixed for the lifetime of the Crawler.
func New(cfg linkminer.CrawlConfig, fetcher linkminer.Fetcher, extractor linkminer.LinkExtractor, opts ...Option) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = linkminer.DefaultConcurrency
	}
	cfg.Order, _ = linkminer.ParseTraversalOrder(string(cfg.Order))
	cfg.Mode, _ = linkminer.ParseExecutionMode(string(cfg.Mode))

	baseURL, err := linkminer.Normalize(cfg.BaseURL, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	domain, err := linkminer.Host(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Crawler{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		baseURL:   baseURL,
		domain:    domain,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.visited == nil {
		c.visited = NewVisitedSet()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// Domain returns the host links must match to be discovered.
func (c *Crawler) Domain() string {
	return c.domain
}

// GetLinks runs the crawl to completion and returns the discovered links.
// Fetch failures never fail the crawl; they are listed in Result.Failures.
// An error is returned only if the Crawler has already been used.
func (c *Crawler) GetLinks(ctx context.Context) (*linkminer.Result, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, linkminer.Errorf(linkminer.EINVALID, "crawler already used")
	}
	return c.run(ctx), nil
}

// GetLinksAsync starts the crawl and returns a channel that receives the
// result once the crawl completes. The channel is closed after the result
// is delivered. As with GetLinks, the error is non-nil only if the Crawler
// has already been used.
func (c *Crawler) GetLinksAsync(ctx context.Context) (<-chan *linkminer.Result, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, linkminer.Errorf(linkminer.EINVALID, "crawler already used")
	}
	ch := make(chan *linkminer.Result, 1)
	go func() {
		defer close(ch)
		ch <- c.run(ctx)
	}()
	return ch, nil
}

func (c *Crawler) run(ctx context.Context) *linkminer.Result {
	id := uuid.NewString()
	r := &run{
		c:      c,
		id:     id,
		links:  newLinkSet(),
		logger: c.logger.With("crawl", id),
	}

	begin := time.Now()
	r.logger.Info("crawl started",
		"url", c.baseURL,
		"order", c.cfg.Order,
		"mode", c.cfg.Mode,
		"maxDepth", c.cfg.MaxDepth,
	)
	r.notify(linkminer.ProgressEvent{Type: linkminer.ProgressStarted, URL: c.baseURL})

	switch c.cfg.Mode {
	case linkminer.Concurrent:
		if c.cfg.Order == linkminer.BFS {
			r.bfsConcurrent(ctx)
		} else {
			r.dfsConcurrent(ctx)
		}
	case linkminer.Async:
		if c.cfg.Order == linkminer.BFS {
			r.bfsAsync(ctx)
		} else {
			r.dfsAsync(ctx)
		}
	default:
		if c.cfg.Order == linkminer.BFS {
			r.bfsSequential(ctx)
		} else {
			r.dfsSequential(ctx)
		}
	}

	result := r.result(time.Since(begin))
	r.logger.Info("crawl finished",
		"links", len(result.Links),
		"fetched", result.Fetched,
		"failed", len(result.Failures),
		"duration", result.Duration,
	)
	r.notify(linkminer.ProgressEvent{
		Type:    linkminer.ProgressFinished,
		URL:     c.baseURL,
		Links:   len(result.Links),
		Fetched: result.Fetched,
	})
	return result
}

// run holds the state owned by one crawl.
type run struct {
	c      *Crawler
	id     string
	links  *linkSet
	logger *slog.Logger

	mu       sync.Mutex
	fetched  int
	maxDepth int
	failures []*linkminer.FetchFailure
}

// claim reports whether url should be expanded at depth. It prunes excess
// depth and marks url visited in one step, so a URL discovered twice while
// its first fetch is in flight is only fetched once.
func (r *run) claim(url string, depth int) bool {
	if depth > r.c.cfg.MaxDepth {
		return false
	}
	return r.c.visited.Visit(url)
}

// begin records that a fetch of url at depth is about to be attempted.
func (r *run) begin(url string, depth int) {
	r.mu.Lock()
	r.fetched++
	if depth > r.maxDepth {
		r.maxDepth = depth
	}
	r.mu.Unlock()
	r.logger.Debug("fetching links", "url", url, "depth", depth)
}

// fail records a fetch failure. The branch rooted at url is abandoned.
func (r *run) fail(url string, depth int, err error) {
	ff := linkminer.NewFetchFailure(url, err)

	r.mu.Lock()
	r.failures = append(r.failures, ff)
	fetched := r.fetched
	r.mu.Unlock()

	r.logger.Debug("abandoning branch", "url", url, "depth", depth, "code", linkminer.ErrorCode(ff))
	r.notify(linkminer.ProgressEvent{
		Type:    linkminer.ProgressFailed,
		URL:     url,
		Depth:   depth,
		Fetched: fetched,
		Error:   ff,
	})
}

// fetch performs a blocking fetch of url, recording the attempt and any failure.
func (r *run) fetch(ctx context.Context, url string, depth int) (string, bool) {
	r.begin(url, depth)
	html, err := fetchPage(ctx, r.c.fetcher, url, r.c.cfg.Timeout)
	if err != nil {
		r.fail(url, depth, err)
		return "", false
	}
	return html, true
}

// process extracts links from the page at url, keeps the canonical
// same-domain ones, records them as discovered and returns them in
// document order without duplicates.
func (r *run) process(url string, depth int, html string) []string {
	hrefs := r.c.extractor.ExtractHrefs(html)

	seen := make(map[string]struct{}, len(hrefs))
	kept := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		link, err := linkminer.Normalize(url, href)
		if err != nil {
			r.logger.Debug("dropping malformed link", "page", url, "href", href, "err", err)
			continue
		}
		host, err := linkminer.Host(link)
		if err != nil || host != r.c.domain {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		r.links.add(link)
		kept = append(kept, link)
	}

	r.mu.Lock()
	fetched := r.fetched
	r.mu.Unlock()
	r.notify(linkminer.ProgressEvent{
		Type:    linkminer.ProgressFetched,
		URL:     url,
		Depth:   depth,
		Links:   len(kept),
		Fetched: fetched,
	})
	return kept
}

func (r *run) notify(event linkminer.ProgressEvent) {
	if r.c.progress != nil {
		r.c.progress(event)
	}
}

func (r *run) result(elapsed time.Duration) *linkminer.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	failures := slices.Clone(r.failures)
	slices.SortFunc(failures, func(a, b *linkminer.FetchFailure) int {
		return cmp.Compare(a.URL, b.URL)
	})
	return &linkminer.Result{
		ID:              r.id,
		BaseURL:         r.c.baseURL,
		Links:           r.links.sorted(),
		Fetched:         r.fetched,
		Failures:        failures,
		MaxDepthReached: r.maxDepth,
		Duration:        elapsed,
	}
}
