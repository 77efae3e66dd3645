package cp

// Delta reports what a consumer's variable lost since the solver last
// invoked that consumer.
//
// The baseline is kept in reversible cells, so after a Restore the delta
// describes removals relative to the baseline that was current at that level.
// Removed values are read from the sparse-set positions between the current
// size and the baseline size; those positions are never reordered by later
// removals.
type Delta interface {
	// Changed reports whether any value was removed.
	Changed() bool
	MinChanged() bool
	MaxChanged() bool
	OldMin() int
	OldMax() int
	// Size returns the number of values removed.
	Size() int
	// FillArray writes the removed values into dst, which must hold at least
	// Size() entries, and returns the number written.
	FillArray(dst []int) int
}

type delta struct {
	x       *intVar
	oldMin  *ReversibleInt
	oldMax  *ReversibleInt
	oldSize *ReversibleInt
}

func newDelta(x *intVar) *delta {
	t := x.cp.trail
	return &delta{
		x:       x,
		oldMin:  t.NewReversibleInt(x.Min()),
		oldMax:  t.NewReversibleInt(x.Max()),
		oldSize: t.NewReversibleInt(x.Size()),
	}
}

// update moves the baseline to the current domain.
func (d *delta) update() {
	d.oldMin.SetValue(d.x.Min())
	d.oldMax.SetValue(d.x.Max())
	d.oldSize.SetValue(d.x.Size())
}

func (d *delta) Changed() bool { return d.oldSize.Value() != d.x.Size() }

func (d *delta) MinChanged() bool { return d.oldMin.Value() != d.x.Min() }

func (d *delta) MaxChanged() bool { return d.oldMax.Value() != d.x.Max() }

func (d *delta) OldMin() int { return d.oldMin.Value() }

func (d *delta) OldMax() int { return d.oldMax.Value() }

func (d *delta) Size() int { return d.oldSize.Value() - d.x.Size() }

func (d *delta) FillArray(dst []int) int {
	set := d.x.domain.set
	from := set.Size()
	n := d.oldSize.Value() - from
	for i := 0; i < n; i++ {
		dst[i] = set.valueAt(from + i)
	}
	return n
}

// viewDelta translates a base delta through the view transform a*x + b.
type viewDelta struct {
	base Delta
	a, b int
}

func (d *viewDelta) Changed() bool { return d.base.Changed() }

func (d *viewDelta) MinChanged() bool {
	if d.a > 0 {
		return d.base.MinChanged()
	}
	return d.base.MaxChanged()
}

func (d *viewDelta) MaxChanged() bool {
	if d.a > 0 {
		return d.base.MaxChanged()
	}
	return d.base.MinChanged()
}

func (d *viewDelta) OldMin() int {
	if d.a > 0 {
		return d.a*d.base.OldMin() + d.b
	}
	return d.a*d.base.OldMax() + d.b
}

func (d *viewDelta) OldMax() int {
	if d.a > 0 {
		return d.a*d.base.OldMax() + d.b
	}
	return d.a*d.base.OldMin() + d.b
}

func (d *viewDelta) Size() int { return d.base.Size() }

func (d *viewDelta) FillArray(dst []int) int {
	n := d.base.FillArray(dst)
	for i := 0; i < n; i++ {
		dst[i] = d.a*dst[i] + d.b
	}
	return n
}
