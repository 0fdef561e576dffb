// Package goquery implements linkminer.LinkExtractor using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linkminer"
)

// Ensure Extractor implements linkminer.LinkExtractor at compile time.
var _ linkminer.LinkExtractor = (*Extractor)(nil)

// DefaultSelector matches every anchor that carries an href attribute.
const DefaultSelector = "a[href]"

// Extractor collects href values from anchors matching a selector.
type Extractor struct {
	selector string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelector restricts extraction to elements matching selector.
// The selected elements should carry an href attribute.
func WithSelector(selector string) Option {
	return func(e *Extractor) {
		e.selector = selector
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{selector: DefaultSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractHrefs returns the raw href of every matching element in document
// order. Hrefs that are empty after trimming are skipped. The HTML parser
// recovers from malformed markup, so garbage input yields whatever anchors
// survive parsing, possibly none.
func (e *Extractor) ExtractHrefs(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var hrefs []string
	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		hrefs = append(hrefs, href)
	})
	return hrefs
}
