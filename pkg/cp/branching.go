package cp

// Branch bundles continuations into a choice point.
func Branch(alternatives ...Continuation) []Continuation { return alternatives }

// FirstFail selects the unfixed variable with the smallest domain, the
// first one on ties, and branches on x = min | x != min.
func FirstFail(xs ...IntVar) Branching {
	return func() []Continuation {
		x := selectMin(xs)
		if x == nil {
			return nil
		}
		v := x.Min()
		return Branch(
			func() error { return x.Fix(v) },
			func() error { return x.Remove(v) },
		)
	}
}

// FirstFailMax is FirstFail branching on the largest value first:
// x = max | x != max.
func FirstFailMax(xs ...IntVar) Branching {
	return func() []Continuation {
		x := selectMin(xs)
		if x == nil {
			return nil
		}
		v := x.Max()
		return Branch(
			func() error { return x.Fix(v) },
			func() error { return x.Remove(v) },
		)
	}
}

// Lexico selects the first unfixed variable in order and opens one branch per
// value, in ascending order.
func Lexico(xs ...IntVar) Branching {
	return func() []Continuation {
		for _, x := range xs {
			if x.IsFixed() {
				continue
			}
			values := Values(x)
			alts := make([]Continuation, len(values))
			for i, v := range values {
				alts[i] = func() error { return x.Fix(v) }
			}
			return alts
		}
		return nil
	}
}

// And runs the branchings in sequence: the second one takes over once the
// first has no decision left.
func And(branchings ...Branching) Branching {
	return func() []Continuation {
		for _, b := range branchings {
			if alts := b(); len(alts) > 0 {
				return alts
			}
		}
		return nil
	}
}

func selectMin(xs []IntVar) IntVar {
	var best IntVar
	for _, x := range xs {
		if x.IsFixed() {
			continue
		}
		if best == nil || x.Size() < best.Size() {
			best = x
		}
	}
	return best
}
