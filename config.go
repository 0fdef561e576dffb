package linkminer

import (
	"net/url"
	"strings"
	"time"
)

// Crawl defaults.
const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxDepth is the deepest level expanded from the base URL.
	DefaultMaxDepth = 3
	// DefaultConcurrency caps in-flight fetches in concurrent and async modes.
	DefaultConcurrency = 10
)

// TraversalOrder selects how the frontier is expanded.
type TraversalOrder string

// Supported traversal orders.
const (
	DFS TraversalOrder = "dfs"
	BFS TraversalOrder = "bfs"
)

// ParseTraversalOrder converts s (case-insensitive) to a TraversalOrder.
func ParseTraversalOrder(s string) (TraversalOrder, error) {
	switch o := TraversalOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case DFS, BFS:
		return o, nil
	}
	return "", Errorf(EINVALID, "unknown traversal order %q", s)
}

// ExecutionMode selects how expansions are scheduled.
type ExecutionMode string

// Supported execution modes.
const (
	// Sequential runs one expansion at a time.
	Sequential ExecutionMode = "sequential"
	// Concurrent runs sibling expansions on separate goroutines.
	Concurrent ExecutionMode = "concurrent"
	// Async runs all crawl bookkeeping on one goroutine that suspends only
	// while waiting for fetch results.
	Async ExecutionMode = "async"
)

// ParseExecutionMode converts s (case-insensitive) to an ExecutionMode.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch m := ExecutionMode(strings.ToLower(strings.TrimSpace(s))); m {
	case Sequential, Concurrent, Async:
		return m, nil
	}
	return "", Errorf(EINVALID, "unknown execution mode %q", s)
}

// CrawlConfig describes a single crawl. It is not modified once a crawl starts.
type CrawlConfig struct {
	BaseURL     string         `json:"baseUrl"`
	Timeout     time.Duration  `json:"timeout"`
	MaxDepth    int            `json:"maxDepth"`
	Order       TraversalOrder `json:"order"`
	Mode        ExecutionMode  `json:"mode"`
	Concurrency int            `json:"concurrency"`
}

// DefaultCrawlConfig returns a CrawlConfig for baseURL with default settings.
func DefaultCrawlConfig(baseURL string) CrawlConfig {
	return CrawlConfig{
		BaseURL:     baseURL,
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		Order:       DFS,
		Mode:        Sequential,
		Concurrency: DefaultConcurrency,
	}
}

// Validate returns an error if the config contains invalid fields.
// A zero Concurrency is allowed and means DefaultConcurrency.
func (c *CrawlConfig) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "base URL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Errorf(EINVALID, "invalid base URL %q: %v", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "base URL must be an absolute http(s) URL: %q", c.BaseURL)
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive, got %s", c.Timeout)
	}
	if _, err := ParseTraversalOrder(string(c.Order)); err != nil {
		return err
	}
	if _, err := ParseExecutionMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must be non-negative, got %d", c.Concurrency)
	}
	return nil
}
