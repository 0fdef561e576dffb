package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/linkminer"
)

// fetchPage performs one fetch bounded by timeout. Any error is reported as
// a *linkminer.FetchFailure.
func fetchPage(ctx context.Context, f linkminer.Fetcher, url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := f.Fetch(ctx, url)
	if err != nil {
		return "", linkminer.NewFetchFailure(url, err)
	}
	return html, nil
}

// FetchAsync starts fetching url on its own goroutine and returns a channel
// that receives exactly one result. Errors have the same form as a blocking
// fetch: a *linkminer.FetchFailure, with timeouts reported as such.
func FetchAsync(ctx context.Context, f linkminer.Fetcher, url string, timeout time.Duration) <-chan linkminer.FetchResult {
	ch := make(chan linkminer.FetchResult, 1)
	go func() {
		html, err := fetchPage(ctx, f, url, timeout)
		ch <- linkminer.FetchResult{URL: url, HTML: html, Err: err}
	}()
	return ch
}
