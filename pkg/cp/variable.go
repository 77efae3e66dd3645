package cp

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// IntVar is a finite-domain integer decision variable.
//
// Read operations never fail. Write operations return ErrInconsistent when
// they would empty the domain; the domain is left unchanged in that case.
//
// Subscriptions are reversible: a subscription made after a Save disappears
// on the matching Restore, together with the constraint that made it.
type IntVar interface {
	// Solver returns the solver owning the variable.
	Solver() *Solver
	// Name returns the name used in String and log output.
	Name() string

	Min() int
	Max() int
	Size() int
	IsFixed() bool
	Contains(v int) bool
	// FillArray writes the current values into dst, which must hold at least
	// Size() entries, and returns the number written. Order is unspecified.
	FillArray(dst []int) int

	Remove(v int) error
	RemoveBelow(v int) error
	RemoveAbove(v int) error
	RemoveAllBut(v int) error
	Fix(v int) error

	// PropagateOnDomainChange schedules c whenever any value is removed.
	PropagateOnDomainChange(c Constraint)
	// PropagateOnBoundChange schedules c whenever the min or max changes.
	PropagateOnBoundChange(c Constraint)
	// PropagateOnFix schedules c when the variable becomes fixed.
	PropagateOnFix(c Constraint)

	WhenFixed(fn func() error)
	WhenBoundChange(fn func() error)
	WhenDomainChange(fn func() error)

	// Delta returns the removal tracker of this variable for consumer c. Its
	// baseline is reset each time the solver invokes c.
	Delta(c Constraint) Delta

	String() string
}

// intVar owns a domain and the three subscriber tables of constraint ids.
type intVar struct {
	cp     *Solver
	id     int
	name   string
	domain *IntDomain

	onDomain *ReversibleStack[int]
	onBound  *ReversibleStack[int]
	onFix    *ReversibleStack[int]
}

func newIntVar(s *Solver, name string) *intVar {
	x := &intVar{
		cp:       s,
		id:       len(s.vars),
		onDomain: NewReversibleStack[int](s.trail),
		onBound:  NewReversibleStack[int](s.trail),
		onFix:    NewReversibleStack[int](s.trail),
	}
	if name == "" {
		name = fmt.Sprintf("x%d", x.id)
	}
	x.name = name
	return x
}

func (x *intVar) Solver() *Solver { return x.cp }

func (x *intVar) Name() string { return x.name }

func (x *intVar) Min() int { return x.domain.Min() }

func (x *intVar) Max() int { return x.domain.Max() }

func (x *intVar) Size() int { return x.domain.Size() }

func (x *intVar) IsFixed() bool { return x.domain.IsFixed() }

func (x *intVar) Contains(v int) bool { return x.domain.Contains(v) }

func (x *intVar) FillArray(dst []int) int { return x.domain.FillArray(dst) }

func (x *intVar) Remove(v int) error { return x.domain.Remove(v) }

func (x *intVar) RemoveBelow(v int) error { return x.domain.RemoveBelow(v) }

func (x *intVar) RemoveAbove(v int) error { return x.domain.RemoveAbove(v) }

func (x *intVar) RemoveAllBut(v int) error { return x.domain.RemoveAllBut(v) }

func (x *intVar) Fix(v int) error { return x.domain.Fix(v) }

// DomainChanged dispatches one domain event to the subscribed constraints.
// A fix also wakes bound and domain subscribers; a bound change also wakes
// domain subscribers.
func (x *intVar) DomainChanged(ev Event) {
	x.cp.scheduleAll(x.onDomain)
	if ev.BoundChanged() {
		x.cp.scheduleAll(x.onBound)
	}
	if ev.Has(EventFix) {
		x.cp.scheduleAll(x.onFix)
	}
}

func (x *intVar) PropagateOnDomainChange(c Constraint) { x.onDomain.Push(c.base().id) }

func (x *intVar) PropagateOnBoundChange(c Constraint) { x.onBound.Push(c.base().id) }

func (x *intVar) PropagateOnFix(c Constraint) { x.onFix.Push(c.base().id) }

func (x *intVar) WhenFixed(fn func() error) {
	x.onFix.Push(x.cp.registerClosure(fn))
}

func (x *intVar) WhenBoundChange(fn func() error) {
	x.onBound.Push(x.cp.registerClosure(fn))
}

func (x *intVar) WhenDomainChange(fn func() error) {
	x.onDomain.Push(x.cp.registerClosure(fn))
}

func (x *intVar) Delta(c Constraint) Delta {
	d := newDelta(x)
	c.base().deltas = append(c.base().deltas, d)
	return d
}

func (x *intVar) String() string { return x.name + x.domain.String() }

// MakeIntVar creates a variable with domain [min, max].
func (s *Solver) MakeIntVar(min, max int) (IntVar, error) {
	return s.MakeIntVarWithName("", min, max)
}

// MakeIntVarWithName creates a named variable with domain [min, max].
func (s *Solver) MakeIntVarWithName(name string, min, max int) (IntVar, error) {
	x := newIntVar(s, name)
	d, err := NewIntDomain(s.trail, min, max, x)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", x.name, err)
	}
	x.domain = d
	s.vars = append(s.vars, x)
	return x, nil
}

// MakeIntVarFromValues creates a variable whose domain is exactly values.
//
// Example:
//
//	x, _ := s.MakeIntVarFromValues(1, 3, 5, 7)
//	x.Size() // 4
func (s *Solver) MakeIntVarFromValues(values ...int) (IntVar, error) {
	x := newIntVar(s, "")
	d, err := NewIntDomainFromValues(s.trail, values, x)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", x.name, err)
	}
	x.domain = d
	s.vars = append(s.vars, x)
	return x, nil
}

// MakeBoolVar creates a 0/1 variable.
func (s *Solver) MakeBoolVar() IntVar {
	x, err := s.MakeIntVar(0, 1)
	if err != nil {
		panic(err)
	}
	return x
}

// MakeIntVarArray creates n variables with domain [min, max].
func (s *Solver) MakeIntVarArray(n, min, max int) ([]IntVar, error) {
	if n < 0 {
		return nil, fmt.Errorf("array of %d variables: %w", n, ErrInvalidArgument)
	}
	xs := make([]IntVar, n)
	for i := range xs {
		x, err := s.MakeIntVar(min, max)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

// Values returns the current values of x in ascending order.
func Values(x IntVar) []int {
	buf := make([]int, x.Size())
	n := x.FillArray(buf)
	buf = buf[:n]
	sort.Ints(buf)
	return buf
}

// formatDomain renders sorted values, using range notation for intervals.
func formatDomain(values []int) string {
	switch {
	case len(values) == 0:
		return "{}"
	case len(values) > 1 && values[len(values)-1]-values[0] == len(values)-1:
		return fmt.Sprintf("{%d..%d}", values[0], values[len(values)-1])
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func checkedAdd(a, b int) (int, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedMul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

func floorDiv(p, q int) int {
	d := p / q
	if p%q != 0 && (p < 0) != (q < 0) {
		d--
	}
	return d
}

func ceilDiv(p, q int) int {
	d := p / q
	if p%q != 0 && (p < 0) == (q < 0) {
		d++
	}
	return d
}
