package linkminer

// VisitedSet records canonical URLs already claimed for processing in one crawl.
// Implementations must be safe for concurrent use.
type VisitedSet interface {
	// Visit atomically checks and inserts url.
	// Returns true only for the first caller to visit url.
	Visit(url string) bool

	// Has reports whether url has been visited.
	Has(url string) bool

	// Len returns the number of visited URLs.
	Len() int
}
