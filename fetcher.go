package linkminer

import "context"

// Fetcher retrieves page content from URLs.
type Fetcher interface {
	// Fetch issues a single request for url and returns the page body.
	// Transport errors, non-success responses and timeouts are returned
	// as errors; the crawl engine reports them as FetchFailure.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// FetchResult is the outcome of an asynchronous fetch.
type FetchResult struct {
	URL  string
	HTML string
	Err  error
}
