package linkminer

// LinkExtractor finds hyperlinks in page content.
type LinkExtractor interface {
	// ExtractHrefs returns the raw href value of every anchor with a
	// non-empty href, in document order. Unparsable content yields an
	// empty result rather than an error.
	ExtractHrefs(html string) []string
}
