// Package bloom provides a memory-bounded linkminer.VisitedSet backed by a
// Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/linkminer"
)

// Defaults size the filter for a large documentation site.
const (
	DefaultCapacity = 100_000
	DefaultFPRate   = 0.001
)

// Ensure VisitedSet implements linkminer.VisitedSet at compile time.
var _ linkminer.VisitedSet = (*VisitedSet)(nil)

// VisitedSet records visited URLs in a Bloom filter. Memory stays fixed no
// matter how many URLs are seen, at the cost of false positives: an unseen
// URL is occasionally reported as visited and is then never fetched. There
// are no false negatives, so no URL is ever fetched twice.
type VisitedSet struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
	n  int
}

// NewVisitedSet creates a VisitedSet sized for n expected URLs with the
// given false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit adds url and reports whether it was absent before.
func (s *VisitedSet) Visit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f.TestAndAddString(url) {
		return false
	}
	s.n++
	return true
}

// Has reports whether url might have been visited.
func (s *VisitedSet) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestString(url)
}

// Len returns the number of successful visits.
func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// EstimatedCount returns the filter's own estimate of how many distinct
// URLs it holds.
func (s *VisitedSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}
