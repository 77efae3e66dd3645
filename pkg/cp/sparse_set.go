package cp

import (
	"fmt"
	"strings"
)

// SparseSet is a reversible set of integers in [offset, offset+n).
//
// Members occupy positions [0, size) of values; removing a member swaps it to
// the tail and shrinks size, so removal and membership are O(1) and a restore
// only has to reset size, min and max. Positions at or beyond size are never
// touched by removals, which lets deltas enumerate removed values by position.
type SparseSet struct {
	values  []int
	indexes []int
	size    *ReversibleInt
	min     *ReversibleInt
	max     *ReversibleInt
	offset  int
	n       int
}

// NewSparseSet creates the full set {offset, ..., offset+n-1}.
func NewSparseSet(t *Trail, n, offset int) *SparseSet {
	if n < 0 {
		n = 0
	}
	s := &SparseSet{
		values:  make([]int, n),
		indexes: make([]int, n),
		size:    t.NewReversibleInt(n),
		min:     t.NewReversibleInt(0),
		max:     t.NewReversibleInt(n - 1),
		offset:  offset,
		n:       n,
	}
	for i := 0; i < n; i++ {
		s.values[i] = i
		s.indexes[i] = i
	}
	return s
}

func (s *SparseSet) swap(i, j int) {
	vi, vj := s.values[i], s.values[j]
	s.values[i], s.values[j] = vj, vi
	s.indexes[vi], s.indexes[vj] = j, i
}

func (s *SparseSet) checkVal(v int) bool { return v >= 0 && v < s.n }

// Size returns the number of members.
func (s *SparseSet) Size() int { return s.size.Value() }

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool { return s.size.Value() == 0 }

// Min returns the smallest member. Undefined on an empty set.
func (s *SparseSet) Min() int { return s.min.Value() + s.offset }

// Max returns the largest member. Undefined on an empty set.
func (s *SparseSet) Max() int { return s.max.Value() + s.offset }

// Contains reports membership of v.
func (s *SparseSet) Contains(v int) bool {
	v -= s.offset
	if !s.checkVal(v) {
		return false
	}
	return s.indexes[v] < s.size.Value()
}

// Remove deletes v and reports whether it was a member.
func (s *SparseSet) Remove(v int) bool {
	if !s.Contains(v) {
		return false
	}
	v -= s.offset
	size := s.size.Value()
	s.swap(s.indexes[v], size-1)
	size = s.size.SetValue(size - 1)
	if size == 0 {
		return true
	}
	if v == s.min.Value() {
		s.scanMinUp(v)
	}
	if v == s.max.Value() {
		s.scanMaxDown(v)
	}
	return true
}

func (s *SparseSet) scanMinUp(removed int) {
	size := s.size.Value()
	for w := removed + 1; w < s.n; w++ {
		if s.indexes[w] < size {
			s.min.SetValue(w)
			return
		}
	}
}

func (s *SparseSet) scanMaxDown(removed int) {
	size := s.size.Value()
	for w := removed - 1; w >= 0; w-- {
		if s.indexes[w] < size {
			s.max.SetValue(w)
			return
		}
	}
}

// RemoveAll empties the set.
func (s *SparseSet) RemoveAll() { s.size.SetValue(0) }

// RemoveAllBut keeps only v, which must be a member.
func (s *SparseSet) RemoveAllBut(v int) {
	if !s.Contains(v) {
		panic(fmt.Sprintf("cp: SparseSet.RemoveAllBut(%d) on a non-member", v))
	}
	v -= s.offset
	s.swap(s.indexes[v], 0)
	s.min.SetValue(v)
	s.max.SetValue(v)
	s.size.SetValue(1)
}

// RemoveBelow deletes every member < v.
func (s *SparseSet) RemoveBelow(v int) {
	if s.IsEmpty() {
		return
	}
	if v > s.Max() {
		s.RemoveAll()
		return
	}
	for w := s.Min(); w < v; w++ {
		s.Remove(w)
	}
}

// RemoveAbove deletes every member > v.
func (s *SparseSet) RemoveAbove(v int) {
	if s.IsEmpty() {
		return
	}
	if v < s.Min() {
		s.RemoveAll()
		return
	}
	for w := s.Max(); w > v; w-- {
		s.Remove(w)
	}
}

// FillArray copies the members into dst, which must hold at least Size()
// entries, and returns the number written. Order is unspecified.
func (s *SparseSet) FillArray(dst []int) int {
	size := s.size.Value()
	for i := 0; i < size; i++ {
		dst[i] = s.values[i] + s.offset
	}
	return size
}

// valueAt returns the value stored at position pos.
func (s *SparseSet) valueAt(pos int) int { return s.values[pos] + s.offset }

// String renders the members in ascending order.
func (s *SparseSet) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{")
	first := true
	for w := s.Min(); w <= s.Max(); w++ {
		if !s.Contains(w) {
			continue
		}
		if !first {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", w)
		first = false
	}
	b.WriteString("}")
	return b.String()
}
