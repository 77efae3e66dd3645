package cp

import (
	"fmt"
	"strings"
)

// Event is a bit mask describing what a single domain operation changed.
// Every notifying operation sets EventChange; EventMin, EventMax and EventFix
// are added when the lower bound, the upper bound or the fixed status changed.
type Event uint8

const (
	EventChange Event = 1 << iota
	EventMin
	EventMax
	EventFix
)

// Has reports whether all bits of o are set in e.
func (e Event) Has(o Event) bool { return e&o == o }

// BoundChanged reports whether the lower or upper bound moved.
func (e Event) BoundChanged() bool { return e&(EventMin|EventMax) != 0 }

func (e Event) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		ev   Event
		name string
	}{{EventChange, "change"}, {EventMin, "min"}, {EventMax, "max"}, {EventFix, "fix"}} {
		if e.Has(p.ev) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// DomainListener receives one notification per domain operation that
// removed at least one value.
type DomainListener interface {
	DomainChanged(ev Event)
}

// IntDomain is the reversible finite integer set owned by one variable.
//
// No operation ever leaves the domain empty: an operation that would remove
// the last value returns ErrInconsistent and leaves the domain untouched.
type IntDomain struct {
	set      *SparseSet
	listener DomainListener
}

// NewIntDomain creates the domain [min, max] on trail t.
func NewIntDomain(t *Trail, min, max int, l DomainListener) (*IntDomain, error) {
	if min > max {
		return nil, fmt.Errorf("domain [%d, %d]: %w", min, max, ErrEmptyDomain)
	}
	n := max - min + 1
	if n <= 0 {
		return nil, fmt.Errorf("domain [%d, %d]: %w", min, max, ErrOverflow)
	}
	return &IntDomain{set: NewSparseSet(t, n, min), listener: l}, nil
}

// NewIntDomainFromValues creates the domain holding exactly values.
// Duplicates are ignored.
func NewIntDomainFromValues(t *Trail, values []int, l DomainListener) (*IntDomain, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("domain from values: %w", ErrEmptyDomain)
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	d, err := NewIntDomain(t, lo, hi, l)
	if err != nil {
		return nil, err
	}
	keep := make(map[int]struct{}, len(values))
	for _, v := range values {
		keep[v] = struct{}{}
	}
	for v := lo; v <= hi; v++ {
		if _, ok := keep[v]; !ok {
			d.set.Remove(v)
		}
	}
	return d, nil
}

func (d *IntDomain) Min() int { return d.set.Min() }

func (d *IntDomain) Max() int { return d.set.Max() }

func (d *IntDomain) Size() int { return d.set.Size() }

func (d *IntDomain) IsFixed() bool { return d.set.Size() == 1 }

func (d *IntDomain) Contains(v int) bool { return d.set.Contains(v) }

// FillArray writes the members into dst and returns how many were written.
func (d *IntDomain) FillArray(dst []int) int { return d.set.FillArray(dst) }

func (d *IntDomain) notify(ev Event) {
	if d.listener != nil {
		d.listener.DomainChanged(ev)
	}
}

// Remove deletes v.
func (d *IntDomain) Remove(v int) error {
	if !d.set.Contains(v) {
		return nil
	}
	if d.set.Size() == 1 {
		return ErrInconsistent
	}
	ev := EventChange
	if v == d.set.Min() {
		ev |= EventMin
	}
	if v == d.set.Max() {
		ev |= EventMax
	}
	d.set.Remove(v)
	if d.set.Size() == 1 {
		ev |= EventFix
	}
	d.notify(ev)
	return nil
}

// RemoveAllBut keeps only v.
func (d *IntDomain) RemoveAllBut(v int) error {
	if !d.set.Contains(v) {
		return ErrInconsistent
	}
	if d.set.Size() == 1 {
		return nil
	}
	ev := EventChange | EventFix
	if v != d.set.Min() {
		ev |= EventMin
	}
	if v != d.set.Max() {
		ev |= EventMax
	}
	d.set.RemoveAllBut(v)
	d.notify(ev)
	return nil
}

// Fix is RemoveAllBut.
func (d *IntDomain) Fix(v int) error { return d.RemoveAllBut(v) }

// RemoveBelow deletes every value < v.
func (d *IntDomain) RemoveBelow(v int) error {
	if v <= d.set.Min() {
		return nil
	}
	if v > d.set.Max() {
		return ErrInconsistent
	}
	d.set.RemoveBelow(v)
	ev := EventChange | EventMin
	if d.set.Size() == 1 {
		ev |= EventFix
	}
	d.notify(ev)
	return nil
}

// RemoveAbove deletes every value > v.
func (d *IntDomain) RemoveAbove(v int) error {
	if v >= d.set.Max() {
		return nil
	}
	if v < d.set.Min() {
		return ErrInconsistent
	}
	d.set.RemoveAbove(v)
	ev := EventChange | EventMax
	if d.set.Size() == 1 {
		ev |= EventFix
	}
	d.notify(ev)
	return nil
}

// String renders the domain, using range notation when it is an interval.
func (d *IntDomain) String() string {
	if d.set.Size() == d.set.Max()-d.set.Min()+1 && d.set.Size() > 1 {
		return fmt.Sprintf("{%d..%d}", d.set.Min(), d.set.Max())
	}
	return d.set.String()
}
