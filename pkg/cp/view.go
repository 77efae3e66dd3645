package cp

import "fmt"

// view is the affine image a*x + b of another variable. It owns no state:
// reads translate the base domain forward, writes translate the argument
// through the inverse transform, and subscriptions land on the base variable
// so every view over the same base sees every event.
type view struct {
	x    IntVar
	a, b int
}

// Plus returns the view x + offset.
func Plus(x IntVar, offset int) (IntVar, error) {
	return newView(x, 1, offset)
}

// Mul returns the view a*x. a must be non-zero. Construction fails with
// ErrOverflow when a bound of a*x is not representable.
func Mul(x IntVar, a int) (IntVar, error) {
	if a == 0 {
		return nil, fmt.Errorf("Mul(%s, 0): %w", x.Name(), ErrInvalidArgument)
	}
	return newView(x, a, 0)
}

// Minus returns the view -x.
func Minus(x IntVar) (IntVar, error) { return newView(x, -1, 0) }

func newView(x IntVar, a, b int) (IntVar, error) {
	if a == 1 && b == 0 {
		return x, nil
	}
	// Fold nested views so each view is one hop from its base.
	if inner, ok := x.(*view); ok {
		na, ok1 := checkedMul(a, inner.a)
		ab, ok2 := checkedMul(a, inner.b)
		nb, ok3 := checkedAdd(ab, b)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("view %d*%s+%d: %w", a, x.Name(), b, ErrOverflow)
		}
		x, a, b = inner.x, na, nb
		if a == 1 && b == 0 {
			return x, nil
		}
	}
	for _, v := range []int{x.Min(), x.Max()} {
		av, ok := checkedMul(a, v)
		if !ok {
			return nil, fmt.Errorf("view %d*%s+%d: %w", a, x.Name(), b, ErrOverflow)
		}
		if _, ok := checkedAdd(av, b); !ok {
			return nil, fmt.Errorf("view %d*%s+%d: %w", a, x.Name(), b, ErrOverflow)
		}
	}
	return &view{x: x, a: a, b: b}, nil
}

func (v *view) forward(w int) int { return v.a*w + v.b }

func (v *view) Solver() *Solver { return v.x.Solver() }

func (v *view) Name() string {
	switch {
	case v.a == 1:
		return fmt.Sprintf("(%s%+d)", v.x.Name(), v.b)
	case v.b == 0:
		return fmt.Sprintf("(%d*%s)", v.a, v.x.Name())
	}
	return fmt.Sprintf("(%d*%s%+d)", v.a, v.x.Name(), v.b)
}

func (v *view) Min() int {
	if v.a > 0 {
		return v.forward(v.x.Min())
	}
	return v.forward(v.x.Max())
}

func (v *view) Max() int {
	if v.a > 0 {
		return v.forward(v.x.Max())
	}
	return v.forward(v.x.Min())
}

func (v *view) Size() int { return v.x.Size() }

func (v *view) IsFixed() bool { return v.x.IsFixed() }

// preimage returns the base value mapped to w, if any. Values outside the
// current bounds are rejected first so w-b cannot overflow.
func (v *view) preimage(w int) (int, bool) {
	if w < v.Min() || w > v.Max() {
		return 0, false
	}
	d := w - v.b
	if d%v.a != 0 {
		return 0, false
	}
	return d / v.a, true
}

func (v *view) Contains(w int) bool {
	p, ok := v.preimage(w)
	return ok && v.x.Contains(p)
}

func (v *view) FillArray(dst []int) int {
	n := v.x.FillArray(dst)
	for i := 0; i < n; i++ {
		dst[i] = v.forward(dst[i])
	}
	return n
}

func (v *view) Remove(w int) error {
	p, ok := v.preimage(w)
	if !ok {
		return nil
	}
	return v.x.Remove(p)
}

func (v *view) RemoveAllBut(w int) error {
	p, ok := v.preimage(w)
	if !ok {
		return ErrInconsistent
	}
	return v.x.RemoveAllBut(p)
}

func (v *view) Fix(w int) error { return v.RemoveAllBut(w) }

// RemoveBelow keeps a*x+b >= w.
func (v *view) RemoveBelow(w int) error {
	if w <= v.Min() {
		return nil
	}
	if w > v.Max() {
		return ErrInconsistent
	}
	d := w - v.b
	if v.a > 0 {
		return v.x.RemoveBelow(ceilDiv(d, v.a))
	}
	return v.x.RemoveAbove(floorDiv(d, v.a))
}

// RemoveAbove keeps a*x+b <= w.
func (v *view) RemoveAbove(w int) error {
	if w >= v.Max() {
		return nil
	}
	if w < v.Min() {
		return ErrInconsistent
	}
	d := w - v.b
	if v.a > 0 {
		return v.x.RemoveAbove(floorDiv(d, v.a))
	}
	return v.x.RemoveBelow(ceilDiv(d, v.a))
}

func (v *view) PropagateOnDomainChange(c Constraint) { v.x.PropagateOnDomainChange(c) }

func (v *view) PropagateOnBoundChange(c Constraint) { v.x.PropagateOnBoundChange(c) }

func (v *view) PropagateOnFix(c Constraint) { v.x.PropagateOnFix(c) }

func (v *view) WhenFixed(fn func() error) { v.x.WhenFixed(fn) }

func (v *view) WhenBoundChange(fn func() error) { v.x.WhenBoundChange(fn) }

func (v *view) WhenDomainChange(fn func() error) { v.x.WhenDomainChange(fn) }

func (v *view) Delta(c Constraint) Delta {
	return &viewDelta{base: v.x.Delta(c), a: v.a, b: v.b}
}

func (v *view) String() string { return v.Name() + formatDomain(Values(v)) }
