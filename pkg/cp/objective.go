package cp

import (
	"fmt"
	"math"
)

// Objective is tightened by the search after every solution.
type Objective interface {
	Tighten() error
}

// IntObjective minimizes or maximizes a variable.
//
// After each solution the bound moves past the solution value by delta, and
// a fixpoint hook removes every value on the wrong side of the bound at every
// subsequent node. The bound is not reversible: it survives backtracking,
// which is what prunes the rest of the tree.
type IntObjective struct {
	x        IntVar
	minimize bool
	delta    int
	bound    int
	best     int
	found    bool
}

// Minimize creates an objective minimizing x with delta 1.
func (s *Solver) Minimize(x IntVar) *IntObjective {
	o, _ := s.MinimizeWithDelta(x, 1)
	return o
}

// Maximize creates an objective maximizing x with delta 1.
func (s *Solver) Maximize(x IntVar) *IntObjective {
	o, _ := s.MaximizeWithDelta(x, 1)
	return o
}

// MinimizeWithDelta creates an objective requiring each new solution to be
// at least delta below the previous one.
func (s *Solver) MinimizeWithDelta(x IntVar, delta int) (*IntObjective, error) {
	return s.newObjective(x, true, delta)
}

// MaximizeWithDelta creates an objective requiring each new solution to be
// at least delta above the previous one.
func (s *Solver) MaximizeWithDelta(x IntVar, delta int) (*IntObjective, error) {
	return s.newObjective(x, false, delta)
}

func (s *Solver) newObjective(x IntVar, minimize bool, delta int) (*IntObjective, error) {
	if delta < 1 {
		return nil, fmt.Errorf("objective on %s: delta %d < 1: %w", x.Name(), delta, ErrInvalidArgument)
	}
	if x.Solver() != s {
		return nil, fmt.Errorf("objective on %s: variable belongs to another solver: %w", x.Name(), ErrInvalidArgument)
	}
	o := &IntObjective{x: x, minimize: minimize, delta: delta, bound: math.MaxInt}
	if !minimize {
		o.bound = math.MinInt
	}
	s.OnFixpoint(o.filter)
	return o, nil
}

func (o *IntObjective) filter() error {
	if o.minimize {
		return o.x.RemoveAbove(o.bound)
	}
	return o.x.RemoveBelow(o.bound)
}

// Tighten records the current value of the objective variable, which must be
// fixed, and moves the bound.
func (o *IntObjective) Tighten() error {
	if !o.x.IsFixed() {
		return fmt.Errorf("tighten %s: %w", o.x, ErrObjectiveNotFixed)
	}
	v := o.x.Min()
	o.best, o.found = v, true
	if o.minimize {
		if v < math.MinInt+o.delta {
			o.bound = math.MinInt
		} else {
			o.bound = v - o.delta
		}
	} else {
		if v > math.MaxInt-o.delta {
			o.bound = math.MaxInt
		} else {
			o.bound = v + o.delta
		}
	}
	return nil
}

// Best returns the last recorded objective value and whether one exists.
func (o *IntObjective) Best() (int, bool) { return o.best, o.found }

// Bound returns the current bound enforced on the variable.
func (o *IntObjective) Bound() int { return o.bound }

// Var returns the objective variable.
func (o *IntObjective) Var() IntVar { return o.x }
