package cp

// ReversibleInt is an integer cell whose writes are undone by Trail.Restore.
// Cells are only mutated through SetValue so every change goes through the
// trail.
type ReversibleInt struct {
	trail *Trail
	value int
	stamp uint64
}

// Value returns the current value.
func (r *ReversibleInt) Value() int { return r.value }

// SetValue stores v and returns it.
func (r *ReversibleInt) SetValue(v int) int {
	if v != r.value {
		r.trail.record(r)
		r.value = v
	}
	return v
}

// Increment adds one and returns the new value.
func (r *ReversibleInt) Increment() int { return r.SetValue(r.value + 1) }

// Decrement subtracts one and returns the new value.
func (r *ReversibleInt) Decrement() int { return r.SetValue(r.value - 1) }

// ReversibleBool is a boolean cell backed by a ReversibleInt.
type ReversibleBool struct {
	cell *ReversibleInt
}

// Value returns the current value.
func (b *ReversibleBool) Value() bool { return b.cell.value != 0 }

// SetValue stores v.
func (b *ReversibleBool) SetValue(v bool) { b.cell.SetValue(boolToInt(v)) }

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// ReversibleStack is an insertion-ordered stack whose length is reversible:
// items pushed after a Save disappear on the matching Restore.
type ReversibleStack[T any] struct {
	items []T
	size  *ReversibleInt
}

// NewReversibleStack creates an empty stack on trail t.
func NewReversibleStack[T any](t *Trail) *ReversibleStack[T] {
	return &ReversibleStack[T]{size: t.NewReversibleInt(0)}
}

// Push appends item, overwriting any slot left over from a restored level.
func (s *ReversibleStack[T]) Push(item T) {
	n := s.size.Value()
	if n < len(s.items) {
		s.items[n] = item
	} else {
		s.items = append(s.items, item)
	}
	s.size.SetValue(n + 1)
}

// Len returns the number of live items.
func (s *ReversibleStack[T]) Len() int { return s.size.Value() }

// Get returns the i-th live item.
func (s *ReversibleStack[T]) Get(i int) T { return s.items[i] }
