package main

import (
	"io"
	"time"

	"github.com/fwojciec/linkminer"
	"github.com/schollz/progressbar/v3"
)

// spinner shows crawl activity on a terminal. The total is unknown up
// front, so it counts completed fetches instead of filling a bar.
type spinner struct {
	bar *progressbar.ProgressBar
}

func newSpinner(w io.Writer) *spinner {
	return &spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("crawling"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (s *spinner) update(e linkminer.ProgressEvent) {
	switch e.Type {
	case linkminer.ProgressFetched, linkminer.ProgressFailed:
		s.bar.Describe(truncateURL(e.URL, 40))
		_ = s.bar.Add(1)
	case linkminer.ProgressFinished:
		_ = s.bar.Finish()
	}
}

// truncateURL shortens a URL for display, keeping the end.
func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
