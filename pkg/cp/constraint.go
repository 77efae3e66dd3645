package cp

// Constraint is an inference routine scheduled by the solver.
//
// Post is called exactly once by Solver.Post: it performs the initial
// filtering and subscribes to the events that should wake the constraint. It
// may call Propagate itself. Propagate is called by the fixpoint loop each
// time a subscribed event fired since the last call; it must be a no-op when
// nothing changed, otherwise the fixpoint loop would not terminate.
//
// Both return ErrInconsistent when the current node is infeasible.
//
// Implementations embed ConstraintBase, which carries the engine-owned
// identity, activity flag and deltas:
//
//	type lessThan struct {
//	    cp.ConstraintBase
//	    x, y cp.IntVar
//	}
//
//	func newLessThan(x, y cp.IntVar) *lessThan {
//	    return &lessThan{ConstraintBase: cp.NewConstraintBase(x.Solver()), x: x, y: y}
//	}
type Constraint interface {
	Post() error
	Propagate() error
	base() *ConstraintBase
}

// ConstraintBase holds the engine state of a constraint.
type ConstraintBase struct {
	cp     *Solver
	id     int
	active *ReversibleBool
	deltas []*delta
}

// NewConstraintBase returns the base state for a constraint of solver s.
func NewConstraintBase(s *Solver) ConstraintBase {
	return ConstraintBase{cp: s, id: -1, active: s.trail.NewReversibleBool(true)}
}

func (b *ConstraintBase) base() *ConstraintBase { return b }

// Solver returns the owning solver.
func (b *ConstraintBase) Solver() *Solver { return b.cp }

// SetActive enables or disables scheduling of the constraint. Deactivation
// is reversible: it is undone when search backtracks above the level it
// happened at. Entailed constraints deactivate themselves.
func (b *ConstraintBase) SetActive(active bool) { b.active.SetValue(active) }

// IsActive reports whether the constraint can still be scheduled.
func (b *ConstraintBase) IsActive() bool { return b.active.Value() }

func (b *ConstraintBase) updateDeltas() {
	for _, d := range b.deltas {
		d.update()
	}
}

// closureConstraint adapts a callback registered with WhenFixed,
// WhenBoundChange or WhenDomainChange.
type closureConstraint struct {
	ConstraintBase
	fn func() error
}

func (c *closureConstraint) Post() error { return nil }

func (c *closureConstraint) Propagate() error { return c.fn() }
