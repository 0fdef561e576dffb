package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/linkminer"
	"github.com/fwojciec/linkminer/bloom"
	"github.com/fwojciec/linkminer/crawl"
	lmetree "github.com/fwojciec/linkminer/etree"
	"github.com/fwojciec/linkminer/fs"
	"github.com/fwojciec/linkminer/goquery"
	lmhttp "github.com/fwojciec/linkminer/http"
	lmprom "github.com/fwojciec/linkminer/prometheus"
	"github.com/fwojciec/linkminer/rod"
	lmslog "github.com/fwojciec/linkminer/slog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CrawlCmd runs one crawl and writes its result.
type CrawlCmd struct {
	Settings *Settings
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run wires the fetcher stack, crawls and writes the formatted result.
func (c *CrawlCmd) Run(ctx context.Context) error {
	s := c.Settings
	c.Stderr = &lockedWriter{w: c.Stderr}

	level := slog.LevelInfo
	if s.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.Stderr, &slog.HandlerOptions{Level: level}))

	fetcher, err := c.newFetcher(logger)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	if s.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := lmprom.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		shutdown, err := serveMetrics(s.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		fetcher = lmprom.NewInstrumentedFetcher(fetcher, metrics)
	}

	extractor := lmslog.NewLoggingExtractor(goquery.NewExtractor(), logger)

	opts := []crawl.Option{
		crawl.WithLogger(logger),
		crawl.WithProgress(c.progress(s.Progress)),
	}
	if s.Bloom {
		opts = append(opts, crawl.WithVisitedSet(bloom.NewVisitedSet(bloom.DefaultCapacity, bloom.DefaultFPRate)))
	}

	crawler, err := crawl.New(s.Crawl, fetcher, extractor, opts...)
	if err != nil {
		return err
	}
	result, err := crawler.GetLinks(ctx)
	if err != nil {
		return err
	}

	out, err := format(result, s.Format)
	if err != nil {
		return err
	}
	if s.Output != "" {
		if err := fs.WriteFile(s.Output, []byte(out)); err != nil {
			return fmt.Errorf("writing %s: %w", s.Output, err)
		}
		return nil
	}
	_, err = io.WriteString(c.Stdout, out)
	return err
}

// newFetcher builds the HTTP or browser fetcher wrapped with logging.
func (c *CrawlCmd) newFetcher(logger *slog.Logger) (linkminer.Fetcher, error) {
	s := c.Settings
	if !s.Browser {
		f := lmhttp.NewFetcher(
			lmhttp.WithTimeout(s.Crawl.Timeout),
			lmhttp.WithUserAgent(s.UserAgent),
			lmhttp.WithLogger(logger),
		)
		return lmslog.NewLoggingFetcher(f, logger), nil
	}

	f, err := rod.NewFetcher(
		rod.WithFetchTimeout(s.Crawl.Timeout),
		rod.WithUserAgent(s.UserAgent),
		rod.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(c.Stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return lmslog.NewLoggingFetcher(f, logger), nil
}

// lockedWriter serializes writes from the logger and progress reporting,
// which run on crawl goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// progress reports failed fetches on stderr and, when enabled, drives a
// spinner. The returned func is safe for concurrent use.
func (c *CrawlCmd) progress(spin bool) linkminer.ProgressFunc {
	var mu sync.Mutex
	var sp *spinner
	if spin {
		sp = newSpinner(c.Stderr)
	}
	return func(e linkminer.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		if e.Type == linkminer.ProgressFailed {
			fmt.Fprintf(c.Stderr, "skip %s: %v\n", e.URL, e.Error)
		}
		if sp != nil {
			sp.update(e)
		}
	}
}

func format(r *linkminer.Result, name string) (string, error) {
	switch name {
	case FormatJSON:
		return linkminer.FormatJSON(r)
	case FormatSitemap:
		return lmetree.FormatSitemap(r)
	default:
		return linkminer.FormatText(r), nil
	}
}

// serveMetrics exposes reg on addr at /metrics until the returned func is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
