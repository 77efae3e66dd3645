package cp

import (
	"fmt"
	"time"
)

// SearchStatistics is accumulated by DFSearch over one Solve or Optimize run.
type SearchStatistics struct {
	Solutions int           // leaves where the branching returned no choice
	Nodes     int           // continuations executed
	Failures  int           // continuations that ended in ErrInconsistent
	MaxDepth  int           // deepest choice point reached
	Completed bool          // the whole tree was explored without an early stop
	Elapsed   time.Duration // wall time since the run started
}

func (st SearchStatistics) String() string {
	return fmt.Sprintf("#solutions: %d\n#nodes: %d\n#failures: %d\nmax depth: %d\ncompleted: %t\nelapsed: %s\n",
		st.Solutions, st.Nodes, st.Failures, st.MaxDepth, st.Completed, st.Elapsed)
}

// EngineStats holds counters maintained by the solver across all runs.
type EngineStats struct {
	Propagations      int64 // Propagate invocations by the fixpoint loop
	ConstraintsPosted int   // successful and failed calls to Post
	PeakQueueSize     int   // largest number of queued constraints
	PeakTrailSize     int   // largest undo log size
}
