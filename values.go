package maelstrom

import (
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"
)

// Values is a set of broadcast message values. It only grows.
// A nil *Values is an empty set for read operations.
type Values struct {
	set mapset.Set[int]
}

// NewValues returns a set holding vs. Duplicates collapse.
func NewValues(vs ...int) *Values {
	return &Values{set: mapset.NewThreadUnsafeSet(vs...)}
}

// Add inserts v and reports whether it was not already present.
func (s *Values) Add(v int) bool {
	return s.set.Add(v)
}

// Contains reports whether v has been added to the set.
func (s *Values) Contains(v int) bool {
	if s == nil {
		return false
	}
	return s.set.Contains(v)
}

// Len returns the number of distinct values.
func (s *Values) Len() int {
	if s == nil {
		return 0
	}
	return s.set.Cardinality()
}

// Clone returns a snapshot that is unaffected by later calls to Add.
func (s *Values) Clone() *Values {
	if s == nil {
		return NewValues()
	}
	return &Values{set: s.set.Clone()}
}

// Sorted returns the values in ascending order. Never nil.
func (s *Values) Sorted() []int {
	if s == nil {
		return []int{}
	}
	a := s.set.ToSlice()
	slices.Sort(a)
	return a
}
