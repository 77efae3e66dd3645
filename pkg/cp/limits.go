package cp

import "time"

// StopCondition is consulted between search nodes. Returning true stops the
// search; the trail is still unwound normally. A nil StopCondition never
// stops.
type StopCondition func(st SearchStatistics) bool

// StopAfterSolutions stops once n solutions were found.
func StopAfterSolutions(n int) StopCondition {
	return func(st SearchStatistics) bool { return st.Solutions >= n }
}

// StopAfterNodes stops once n nodes were explored.
func StopAfterNodes(n int) StopCondition {
	return func(st SearchStatistics) bool { return st.Nodes >= n }
}

// StopAfterFailures stops once n failures were met.
func StopAfterFailures(n int) StopCondition {
	return func(st SearchStatistics) bool { return st.Failures >= n }
}

// StopAfterDuration stops once the run has lasted d.
func StopAfterDuration(d time.Duration) StopCondition {
	return func(st SearchStatistics) bool { return st.Elapsed >= d }
}

// AnyStop stops as soon as one of conds does. Nil entries are ignored.
func AnyStop(conds ...StopCondition) StopCondition {
	return func(st SearchStatistics) bool {
		for _, c := range conds {
			if c != nil && c(st) {
				return true
			}
		}
		return false
	}
}
