package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/linkminer"
)

// Ensure LoggingExtractor implements linkminer.LinkExtractor.
var _ linkminer.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging.
type LoggingExtractor struct {
	next   linkminer.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next linkminer.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractHrefs delegates to the wrapped extractor and logs how many hrefs it found.
func (e *LoggingExtractor) ExtractHrefs(html string) (hrefs []string) {
	defer func(begin time.Time) {
		e.logger.Debug("extract hrefs",
			"bytes", len(html),
			"hrefs", len(hrefs),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.ExtractHrefs(html)
}
