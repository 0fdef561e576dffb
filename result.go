package linkminer

import "time"

// Result is the outcome of a completed crawl.
type Result struct {
	ID      string `json:"id"`
	BaseURL string `json:"baseUrl"`

	// Links holds every same-domain canonical URL discovered, sorted.
	Links []string `json:"links"`

	// Fetched is the number of fetches attempted.
	Fetched int `json:"fetched"`

	// Failures lists fetches that failed. A non-empty list means some
	// branches could not be explored.
	Failures []*FetchFailure `json:"-"`

	// MaxDepthReached is the deepest depth at which a page was processed.
	MaxDepthReached int `json:"maxDepthReached"`

	Duration time.Duration `json:"duration"`
}

// Complete reports whether every attempted fetch succeeded.
func (r *Result) Complete() bool {
	return len(r.Failures) == 0
}

// FailedURLs returns the URLs of failed fetches.
func (r *Result) FailedURLs() []string {
	urls := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		urls = append(urls, f.URL)
	}
	return urls
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressFetched
	ProgressFailed
	ProgressFinished
)

// String returns a lower-case name for the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressFetched:
		return "fetched"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	}
	return "unknown"
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Depth int

	// Links is the number of links discovered on the page (ProgressFetched)
	// or in total (ProgressFinished).
	Links int

	// Fetched is the number of fetches attempted so far.
	Fetched int

	Error error
}

// ProgressFunc is a callback for reporting crawl progress.
// Calls may come from multiple goroutines in concurrent mode.
type ProgressFunc func(event ProgressEvent)
