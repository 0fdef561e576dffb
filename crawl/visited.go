package crawl

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linkminer"
)

// Compile-time interface verification.
var _ linkminer.VisitedSet = (*VisitedSet)(nil)

// visitedShards is the number of independently locked partitions.
const visitedShards = 32

// VisitedSet is an exact set of canonical URLs, partitioned into shards
// selected by an xxhash of the URL so concurrent workers rarely contend
// on the same lock. It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	shards [visitedShards]visitedShard
}

type visitedShard struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	v := &VisitedSet{}
	for i := range v.shards {
		v.shards[i].urls = make(map[string]struct{})
	}
	return v
}

func (v *VisitedSet) shard(url string) *visitedShard {
	return &v.shards[xxhash.Sum64String(url)%visitedShards]
}

// Visit inserts url and returns true if it was not already present.
// The check and the insert happen under one lock.
func (v *VisitedSet) Visit(url string) bool {
	s := v.shard(url)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Has reports whether url has been visited.
func (v *VisitedSet) Has(url string) bool {
	s := v.shard(url)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.urls[url]
	return ok
}

// Len returns the number of visited URLs.
func (v *VisitedSet) Len() int {
	n := 0
	for i := range v.shards {
		s := &v.shards[i]
		s.mu.Lock()
		n += len(s.urls)
		s.mu.Unlock()
	}
	return n
}
