package crawl

import (
	"slices"
	"sync"
)

// linkSet accumulates discovered links. Inserts are idempotent and the set
// never shrinks.
type linkSet struct {
	mu    sync.Mutex
	links map[string]struct{}
}

func newLinkSet() *linkSet {
	return &linkSet{links: make(map[string]struct{})}
}

func (s *linkSet) add(url string) {
	s.mu.Lock()
	s.links[url] = struct{}{}
	s.mu.Unlock()
}

// sorted returns the links in lexical order.
func (s *linkSet) sorted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.links))
	for u := range s.links {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}
