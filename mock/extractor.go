package mock

import "github.com/fwojciec/linkminer"

var _ linkminer.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of linkminer.LinkExtractor.
type LinkExtractor struct {
	ExtractHrefsFn func(html string) []string
}

func (e *LinkExtractor) ExtractHrefs(html string) []string {
	return e.ExtractHrefsFn(html)
}
