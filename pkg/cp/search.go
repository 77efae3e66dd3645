package cp

import (
	"context"
	"errors"
	"time"
)

// Continuation is one alternative of a choice point. It typically mutates a
// variable or posts a constraint, and returns ErrInconsistent when that fails.
type Continuation func() error

// Branching inspects the current node and returns its alternatives. An empty
// result means every decision was taken: the node is a solution.
type Branching func() []Continuation

// SearchObserver receives search events. Implementations must be cheap; they
// run on the search goroutine.
type SearchObserver interface {
	NodeExplored(depth int)
	FailureFound(depth int)
	SolutionFound(st SearchStatistics)
	SearchFinished(st SearchStatistics)
}

var errStopSearch = errors.New("search stopped")

// DFSearch explores the tree produced by a branching depth first, left to
// right. Each alternative runs between a Save and a Restore, so the solver
// state after a run is the state before it.
type DFSearch struct {
	cp         *Solver
	branching  Branching
	onSolution []func()
	onFailure  []func()
	observers  []SearchObserver
}

// NewDFSearch creates a search over s driven by branching.
func NewDFSearch(s *Solver, branching Branching) *DFSearch {
	return &DFSearch{cp: s, branching: branching}
}

// OnSolution registers fn to run at every solution, while the solution is
// still the current state of the variables.
func (d *DFSearch) OnSolution(fn func()) { d.onSolution = append(d.onSolution, fn) }

// OnFailure registers fn to run at every failed alternative, after the
// failing state was undone.
func (d *DFSearch) OnFailure(fn func()) { d.onFailure = append(d.onFailure, fn) }

// AddObserver registers a search observer.
func (d *DFSearch) AddObserver(o SearchObserver) { d.observers = append(d.observers, o) }

// Solve enumerates solutions until the tree is exhausted or stop fires.
//
// A model found infeasible at post time completes at once with zero
// solutions and a nil error. Cancellation of ctx returns ctx.Err() with
// the statistics gathered so far.
func (d *DFSearch) Solve(ctx context.Context, stop StopCondition) (SearchStatistics, error) {
	return d.run(ctx, nil, stop, nil)
}

// SolveSubjectTo is Solve with setup run first inside the search state:
// whatever it posts is removed when the search returns.
func (d *DFSearch) SolveSubjectTo(ctx context.Context, stop StopCondition, setup func() error) (SearchStatistics, error) {
	return d.run(ctx, nil, stop, setup)
}

// Optimize is Solve with obj tightened at every solution. Each solution found
// is strictly better than the previous one; the last one is optimal when the
// returned statistics are Completed.
func (d *DFSearch) Optimize(ctx context.Context, obj Objective, stop StopCondition) (SearchStatistics, error) {
	return d.run(ctx, obj, stop, nil)
}

// OptimizeSubjectTo is Optimize with a setup step, as in SolveSubjectTo.
func (d *DFSearch) OptimizeSubjectTo(ctx context.Context, obj Objective, stop StopCondition, setup func() error) (SearchStatistics, error) {
	return d.run(ctx, obj, stop, setup)
}

// searchRun is the state of one Solve or Optimize call.
type searchRun struct {
	ctx   context.Context
	obj   Objective
	stop  StopCondition
	start time.Time
	root  int
	st    SearchStatistics
}

func (r *searchRun) stats() SearchStatistics {
	st := r.st
	st.Elapsed = time.Since(r.start)
	return st
}

func (r *searchRun) shouldStop() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if r.stop != nil && r.stop(r.stats()) {
		return errStopSearch
	}
	return nil
}

func (d *DFSearch) run(ctx context.Context, obj Objective, stop StopCondition, setup func() error) (SearchStatistics, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := d.cp.logger
	r := &searchRun{ctx: ctx, obj: obj, stop: stop, start: time.Now()}
	log.Debug().Bool("optimize", obj != nil).Msg("search started")

	err := d.cp.trail.WithNewState(func() error {
		r.root = d.cp.trail.Depth()
		if d.cp.infeasible {
			return nil
		}
		if setup != nil {
			if err := setup(); err != nil {
				d.cp.clearQueue()
				return absorb(err)
			}
		}
		if err := d.cp.Fixpoint(); err != nil {
			return absorb(err)
		}
		return d.dfs(r)
	})

	st := r.stats()
	switch {
	case err == nil:
		st.Completed = true
	case errors.Is(err, errStopSearch):
		err = nil
	}
	for _, o := range d.observers {
		o.SearchFinished(st)
	}
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Int("solutions", st.Solutions).
		Int("nodes", st.Nodes).
		Int("failures", st.Failures).
		Bool("completed", st.Completed).
		Dur("elapsed", st.Elapsed).
		Msg("search finished")
	return st, err
}

// absorb turns an inconsistency found before the first choice point into an
// exhausted search.
func absorb(err error) error {
	if IsInconsistent(err) {
		return nil
	}
	return err
}

func (d *DFSearch) dfs(r *searchRun) error {
	branches := d.branching()
	if len(branches) == 0 {
		return d.solution(r)
	}
	t := d.cp.trail
	for _, branch := range branches {
		if err := r.shouldStop(); err != nil {
			return err
		}
		level := t.Save()
		depth := level - r.root
		r.st.Nodes++
		if depth > r.st.MaxDepth {
			r.st.MaxDepth = depth
		}
		for _, o := range d.observers {
			o.NodeExplored(depth)
		}
		err := branch()
		if err == nil {
			err = d.cp.Fixpoint()
		} else {
			d.cp.clearQueue()
		}
		if err == nil {
			err = d.dfs(r)
		}
		t.RestoreTo(level - 1)
		if err == nil {
			continue
		}
		if !IsInconsistent(err) {
			return err
		}
		r.st.Failures++
		for _, o := range d.observers {
			o.FailureFound(depth)
		}
		for _, fn := range d.onFailure {
			fn()
		}
	}
	return nil
}

func (d *DFSearch) solution(r *searchRun) error {
	r.st.Solutions++
	if r.obj != nil {
		if err := r.obj.Tighten(); err != nil {
			return err
		}
	}
	for _, fn := range d.onSolution {
		fn()
	}
	st := r.stats()
	for _, o := range d.observers {
		o.SolutionFound(st)
	}
	d.cp.logger.Trace().Int("solution", st.Solutions).Int("nodes", st.Nodes).Msg("solution found")
	return nil
}
