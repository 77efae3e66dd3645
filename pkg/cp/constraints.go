package cp

import "fmt"

// notEqual enforces x != y + c. It waits until one side is fixed, removes
// the matching value from the other side and deactivates itself.
type notEqual struct {
	ConstraintBase
	x, y IntVar
	c    int
}

// NewNotEqual returns the constraint x != y + c.
func NewNotEqual(x, y IntVar, c int) Constraint {
	return &notEqual{ConstraintBase: NewConstraintBase(x.Solver()), x: x, y: y, c: c}
}

func (n *notEqual) Post() error {
	if n.x.IsFixed() || n.y.IsFixed() {
		return n.Propagate()
	}
	n.x.PropagateOnFix(n)
	n.y.PropagateOnFix(n)
	return nil
}

func (n *notEqual) Propagate() error {
	var err error
	if n.y.IsFixed() {
		err = n.x.Remove(n.y.Min() + n.c)
	} else {
		err = n.y.Remove(n.x.Min() - n.c)
	}
	if err != nil {
		return err
	}
	n.SetActive(false)
	return nil
}

// lessOrEqual enforces x <= y on bounds.
type lessOrEqual struct {
	ConstraintBase
	x, y IntVar
}

// NewLessOrEqual returns the constraint x <= y.
func NewLessOrEqual(x, y IntVar) Constraint {
	return &lessOrEqual{ConstraintBase: NewConstraintBase(x.Solver()), x: x, y: y}
}

func (l *lessOrEqual) Post() error {
	l.x.PropagateOnBoundChange(l)
	l.y.PropagateOnBoundChange(l)
	return l.Propagate()
}

func (l *lessOrEqual) Propagate() error {
	if err := l.x.RemoveAbove(l.y.Max()); err != nil {
		return err
	}
	if err := l.y.RemoveBelow(l.x.Min()); err != nil {
		return err
	}
	if l.x.Max() <= l.y.Min() {
		l.SetActive(false)
	}
	return nil
}

// equal enforces x == y with full domain consistency. After the initial
// intersection only the values each side lost since the last call are
// mirrored onto the other side.
type equal struct {
	ConstraintBase
	x, y   IntVar
	dx, dy Delta
	buf    []int
}

// NewEqual returns the constraint x == y.
func NewEqual(x, y IntVar) Constraint {
	return &equal{ConstraintBase: NewConstraintBase(x.Solver()), x: x, y: y}
}

func (e *equal) Post() error {
	if err := intersect(e.x, e.y); err != nil {
		return err
	}
	if err := intersect(e.y, e.x); err != nil {
		return err
	}
	e.dx = e.x.Delta(e)
	e.dy = e.y.Delta(e)
	e.x.PropagateOnDomainChange(e)
	e.y.PropagateOnDomainChange(e)
	return nil
}

// intersect removes from x every value y does not contain.
func intersect(x, y IntVar) error {
	if err := x.RemoveBelow(y.Min()); err != nil {
		return err
	}
	if err := x.RemoveAbove(y.Max()); err != nil {
		return err
	}
	for _, v := range Values(x) {
		if !y.Contains(v) {
			if err := x.Remove(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *equal) Propagate() error {
	if err := e.mirror(e.dx, e.y); err != nil {
		return err
	}
	return e.mirror(e.dy, e.x)
}

func (e *equal) mirror(d Delta, to IntVar) error {
	if !d.Changed() {
		return nil
	}
	if cap(e.buf) < d.Size() {
		e.buf = make([]int, d.Size())
	}
	n := d.FillArray(e.buf[:d.Size()])
	for _, v := range e.buf[:n] {
		if err := to.Remove(v); err != nil {
			return err
		}
	}
	return nil
}

// sum enforces sum(xs) + offset == 0 on bounds.
//
// Fixed terms are folded into a reversible partial sum and moved behind a
// reversible count of unfixed terms, so each call only walks terms that are
// still open. The index permutation itself is not trailed: restoring the
// count restores the set of indexes in front of it.
type sum struct {
	ConstraintBase
	xs       []IntVar
	idx      []int
	nUnfixed *ReversibleInt
	sumFixed *ReversibleInt
	mins     []int
	maxs     []int
}

// NewSum returns the constraint sum(xs) == 0.
func NewSum(xs ...IntVar) (Constraint, error) {
	return newSum(xs, 0)
}

// NewSumEqual returns the constraint sum(xs) == y.
func NewSumEqual(xs []IntVar, y IntVar) (Constraint, error) {
	negY, err := Minus(y)
	if err != nil {
		return nil, err
	}
	terms := make([]IntVar, 0, len(xs)+1)
	terms = append(terms, xs...)
	return newSum(append(terms, negY), 0)
}

// NewSumConstant returns the constraint sum(xs) == c.
func NewSumConstant(xs []IntVar, c int) (Constraint, error) {
	return newSum(xs, -c)
}

func newSum(xs []IntVar, offset int) (*sum, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("sum of no terms: %w", ErrInvalidArgument)
	}
	s := xs[0].Solver()
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	return &sum{
		ConstraintBase: NewConstraintBase(s),
		xs:             xs,
		idx:            idx,
		nUnfixed:       s.trail.NewReversibleInt(len(xs)),
		sumFixed:       s.trail.NewReversibleInt(offset),
		mins:           make([]int, len(xs)),
		maxs:           make([]int, len(xs)),
	}, nil
}

func (s *sum) Post() error {
	for _, x := range s.xs {
		x.PropagateOnBoundChange(s)
	}
	return s.Propagate()
}

func (s *sum) Propagate() error {
	n := s.nUnfixed.Value()
	fixed := s.sumFixed.Value()
	lo, hi := 0, 0
	for i := n - 1; i >= 0; i-- {
		k := s.idx[i]
		x := s.xs[k]
		s.mins[k], s.maxs[k] = x.Min(), x.Max()
		if x.IsFixed() {
			fixed += s.mins[k]
			n--
			s.idx[i], s.idx[n] = s.idx[n], s.idx[i]
			continue
		}
		lo += s.mins[k]
		hi += s.maxs[k]
	}
	s.nUnfixed.SetValue(n)
	s.sumFixed.SetValue(fixed)
	lo += fixed
	hi += fixed
	if lo > 0 || hi < 0 {
		return ErrInconsistent
	}
	if n == 0 {
		s.SetActive(false)
		return nil
	}
	for i := n - 1; i >= 0; i-- {
		k := s.idx[i]
		x := s.xs[k]
		if err := x.RemoveAbove(s.mins[k] - lo); err != nil {
			return err
		}
		if err := x.RemoveBelow(s.maxs[k] - hi); err != nil {
			return err
		}
	}
	return nil
}

// allDifferentFC enforces pairwise difference by forward checking: when a
// term becomes fixed its value is removed from every other term.
type allDifferentFC struct {
	ConstraintBase
	xs []IntVar
}

// NewAllDifferentFC returns a forward-checking all-different over xs, which
// must not be empty.
func NewAllDifferentFC(xs ...IntVar) Constraint {
	if len(xs) == 0 {
		panic("cp: NewAllDifferentFC with no variables")
	}
	return &allDifferentFC{ConstraintBase: NewConstraintBase(xs[0].Solver()), xs: xs}
}

func (a *allDifferentFC) Post() error {
	for i, x := range a.xs {
		if x.IsFixed() {
			if err := a.removeFromOthers(i); err != nil {
				return err
			}
			continue
		}
		x.WhenFixed(func() error { return a.removeFromOthers(i) })
	}
	return nil
}

func (a *allDifferentFC) removeFromOthers(i int) error {
	v := a.xs[i].Min()
	for j, y := range a.xs {
		if j == i {
			continue
		}
		if err := y.Remove(v); err != nil {
			return err
		}
	}
	return nil
}

// Propagate has nothing to do: the work is done by the per-term callbacks.
func (a *allDifferentFC) Propagate() error { return nil }
