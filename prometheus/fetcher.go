// Package prometheus instruments linkminer services with Prometheus metrics.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/linkminer"
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes used as the "result" label.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultTimeout = "timeout"
)

// Metrics holds the crawl collectors.
type Metrics struct {
	Fetches  *prometheus.CounterVec
	Duration prometheus.Histogram
	Bytes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkminer_fetches_total",
			Help: "Total number of page fetches by result.",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkminer_fetch_duration_seconds",
			Help:    "Duration of page fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		Bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkminer_fetched_bytes_total",
			Help: "Total number of page bytes fetched.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Fetches, m.Duration, m.Bytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Ensure InstrumentedFetcher implements linkminer.Fetcher.
var _ linkminer.Fetcher = (*InstrumentedFetcher)(nil)

// InstrumentedFetcher wraps a Fetcher and records metrics for every fetch.
type InstrumentedFetcher struct {
	next    linkminer.Fetcher
	metrics *Metrics
}

// NewInstrumentedFetcher creates a new InstrumentedFetcher.
func NewInstrumentedFetcher(next linkminer.Fetcher, metrics *Metrics) *InstrumentedFetcher {
	return &InstrumentedFetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.metrics.Duration.Observe(time.Since(begin).Seconds())
		f.metrics.Fetches.WithLabelValues(result(err)).Inc()
		f.metrics.Bytes.Add(float64(len(html)))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *InstrumentedFetcher) Close() error {
	return f.next.Close()
}

func result(err error) string {
	if err == nil {
		return ResultOK
	}
	if linkminer.IsTimeout(err) {
		return ResultTimeout
	}
	return ResultError
}
