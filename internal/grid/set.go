package grid

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// CellCoordSet is an unordered set of cells with O(1) add, contains, delete
// and uniform random pick. Items live in a dense slice; index maps each item
// to its slot so deletes can swap the last item into the hole.
//
// A CellCoordSet is not safe for concurrent mutation. It is meant as a
// single-owner worklist; callers sharing one must serialize access.
type CellCoordSet struct {
	index map[CellCoord]int
	items []CellCoord
	rng   *rand.Rand
}

// SetOption configures a CellCoordSet.
type SetOption func(*CellCoordSet)

// WithRand makes Random and PopRandom draw from r instead of the global
// source, for reproducible runs.
func WithRand(r *rand.Rand) SetOption {
	return func(s *CellCoordSet) { s.rng = r }
}

// NewCellCoordSet returns an empty set.
func NewCellCoordSet(opts ...SetOption) *CellCoordSet {
	s := &CellCoordSet{index: make(map[CellCoord]int)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of members.
func (s *CellCoordSet) Len() int { return len(s.index) }

// Clear removes every member.
func (s *CellCoordSet) Clear() {
	clear(s.index)
	s.items = s.items[:0]
}

// Add inserts each cell not already present.
func (s *CellCoordSet) Add(ccs ...CellCoord) {
	for _, c := range ccs {
		if _, ok := s.index[c]; ok {
			continue
		}
		s.items = append(s.items, c)
		s.index[c] = len(s.items) - 1
		s.check()
	}
}

// Contains reports membership.
func (s *CellCoordSet) Contains(c CellCoord) bool {
	_, ok := s.index[c]
	return ok
}

// Delete removes c if present by moving the last item into its slot.
func (s *CellCoordSet) Delete(c CellCoord) {
	i, ok := s.index[c]
	if !ok {
		return
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, c)
	s.check()
}

// Get returns the item in slot i. Slot order changes on Delete.
func (s *CellCoordSet) Get(i int) CellCoord { return s.items[i] }

// Items returns a copy of the members in slot order.
func (s *CellCoordSet) Items() []CellCoord {
	out := make([]CellCoord, len(s.items))
	copy(out, s.items)
	return out
}

// Random returns a uniformly chosen member. It panics with ErrEmptySet when
// the set is empty.
func (s *CellCoordSet) Random() CellCoord {
	if len(s.items) == 0 {
		panic(ErrEmptySet)
	}
	var i int
	if s.rng != nil {
		i = s.rng.IntN(len(s.items))
	} else {
		i = rand.IntN(len(s.items))
	}
	return s.items[i]
}

// PopRandom removes and returns a uniformly chosen member. It panics with
// ErrEmptySet when the set is empty.
func (s *CellCoordSet) PopRandom() CellCoord {
	c := s.Random()
	s.Delete(c)
	return c
}

func (s *CellCoordSet) check() {
	if len(s.items) != len(s.index) {
		panic(fmt.Errorf("%w: index has %d, items has %d", ErrSetCorrupt, len(s.index), len(s.items)))
	}
}

// String lists the index map and the backing slice, for debugging.
func (s *CellCoordSet) String() string {
	var b strings.Builder
	b.WriteString("Map\n------------------\n")
	for c, i := range s.index {
		fmt.Fprintf(&b, "%v = %d\n", c, i)
	}
	b.WriteString("\nSlice\n----------------\n")
	for i, c := range s.items {
		fmt.Fprintf(&b, "[%d] : %v\n", i, c)
	}
	return b.String()
}
