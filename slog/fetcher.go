// Package slog provides logging decorators for linkminer services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkminer"
)

// Ensure LoggingFetcher implements linkminer.Fetcher.
var _ linkminer.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of each request.
// Failures carry the fetch failure code so timeouts stand apart from
// transport and HTTP status errors. Reporting failures to the user is
// left to the crawl's progress callback.
type LoggingFetcher struct {
	next   linkminer.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next linkminer.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	elapsed := time.Since(begin)

	if err != nil {
		f.logger.Debug("fetch failed",
			"url", url,
			"code", linkminer.ErrorCode(linkminer.NewFetchFailure(url, err)),
			"duration", elapsed,
			"err", err,
		)
		return "", err
	}
	f.logger.Debug("page fetched",
		"url", url,
		"bytes", len(html),
		"duration", elapsed,
	)
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
