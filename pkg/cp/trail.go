// Package cp provides an incremental constraint propagation engine over
// finite integer domains.
//
// The engine is organised leaf first:
//
//	Trail          undo log of reversible integer cells, checkpoint/restore
//	SparseSet      reversible set of integers (swap-to-tail removal)
//	IntVar         a variable owning a sparse-set domain, or a view over one
//	Solver         constraint registry and the FIFO fixpoint loop
//	DFSearch       depth-first search with branch-and-bound support
//
// Every mutation of a variable returns an error. ErrInconsistent signals that
// the current search node is infeasible; search absorbs it at the nearest
// choice point and restores the trail. Any other error is fatal.
//
// Typical usage:
//
//	s := cp.NewSolver()
//	x, _ := s.MakeIntVar(0, 9)
//	y, _ := s.MakeIntVar(0, 9)
//	_ = s.Post(cp.NewNotEqual(x, y, 0))
//	search := cp.NewDFSearch(s, cp.FirstFail(x, y))
//	stats, err := search.Solve(ctx, cp.StopAfterSolutions(1))
//
// Thread safety: a Solver and everything created from it is confined to one
// goroutine. Independent solvers share nothing and may run concurrently.
package cp

import "fmt"

// trailEntry records the value a cell held before its first write at the
// current checkpoint level.
type trailEntry struct {
	cell *ReversibleInt
	prev int
}

// Trail is the reversible state manager of a solver. It keeps a single
// append-only undo log; checkpoints are log-length markers.
//
// Writes through ReversibleInt.SetValue are recorded at most once per cell
// per checkpoint level. A level is identified by a magic stamp that changes on
// every Save and every Restore, so a cell written before a Restore is trailed
// again when written afterwards.
type Trail struct {
	entries []trailEntry
	marks   []int
	magic   uint64

	peak int
}

// NewTrail creates an empty trail at depth 0.
func NewTrail() *Trail {
	return &Trail{
		entries: make([]trailEntry, 0, 1024),
		marks:   make([]int, 0, 64),
		magic:   1,
	}
}

// Save pushes a checkpoint and returns the new depth.
func (t *Trail) Save() int {
	t.marks = append(t.marks, len(t.entries))
	t.magic++
	return len(t.marks)
}

// Restore undoes every write recorded since the last Save, in reverse order,
// and pops that checkpoint. Restore without a matching Save panics: it means
// save/restore calls are unbalanced and every reversible cell is suspect.
func (t *Trail) Restore() {
	n := len(t.marks)
	if n == 0 {
		panic("cp: Trail.Restore called without a matching Save")
	}
	mark := t.marks[n-1]
	t.marks = t.marks[:n-1]
	for i := len(t.entries) - 1; i >= mark; i-- {
		e := t.entries[i]
		e.cell.value = e.prev
		t.entries[i].cell = nil
	}
	t.entries = t.entries[:mark]
	t.magic++
}

// RestoreTo restores checkpoints until Depth() == depth.
func (t *Trail) RestoreTo(depth int) {
	if depth < 0 || depth > len(t.marks) {
		panic(fmt.Sprintf("cp: Trail.RestoreTo(%d) outside [0, %d]", depth, len(t.marks)))
	}
	for len(t.marks) > depth {
		t.Restore()
	}
}

// Depth returns the number of open checkpoints.
func (t *Trail) Depth() int { return len(t.marks) }

// Size returns the number of undo entries currently on the log.
func (t *Trail) Size() int { return len(t.entries) }

// PeakSize returns the largest log size observed.
func (t *Trail) PeakSize() int { return t.peak }

// WithNewState runs fn between a Save and its matching Restore. The restore
// happens whatever fn returns, including on panic.
func (t *Trail) WithNewState(fn func() error) error {
	depth := t.Save()
	defer t.RestoreTo(depth - 1)
	return fn()
}

func (t *Trail) record(c *ReversibleInt) {
	if c.stamp == t.magic || len(t.marks) == 0 {
		return
	}
	c.stamp = t.magic
	t.entries = append(t.entries, trailEntry{cell: c, prev: c.value})
	if len(t.entries) > t.peak {
		t.peak = len(t.entries)
	}
}

// NewReversibleInt returns a reversible integer cell holding v.
func (t *Trail) NewReversibleInt(v int) *ReversibleInt {
	return &ReversibleInt{trail: t, value: v, stamp: t.magic - 1}
}

// NewReversibleBool returns a reversible boolean cell holding v.
func (t *Trail) NewReversibleBool(v bool) *ReversibleBool {
	return &ReversibleBool{cell: t.NewReversibleInt(boolToInt(v))}
}
