package mock

import "github.com/fwojciec/linkminer"

var _ linkminer.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of linkminer.VisitedSet.
type VisitedSet struct {
	VisitFn func(url string) bool
	HasFn   func(url string) bool
	LenFn   func() int
}

func (v *VisitedSet) Visit(url string) bool {
	return v.VisitFn(url)
}

func (v *VisitedSet) Has(url string) bool {
	return v.HasFn(url)
}

func (v *VisitedSet) Len() int {
	return v.LenFn()
}
