package cp

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deltaProbe records what its delta reports at each propagation.
type deltaProbe struct {
	ConstraintBase
	x        IntVar
	d        Delta
	removed  [][]int
	oldMaxes []int
	calls    int
}

func newDeltaProbe(x IntVar) *deltaProbe {
	return &deltaProbe{ConstraintBase: NewConstraintBase(x.Solver()), x: x}
}

func (p *deltaProbe) Post() error {
	p.d = p.x.Delta(p)
	p.x.PropagateOnDomainChange(p)
	return nil
}

func (p *deltaProbe) Propagate() error {
	p.calls++
	buf := make([]int, p.d.Size())
	n := p.d.FillArray(buf)
	buf = buf[:n]
	sort.Ints(buf)
	p.removed = append(p.removed, buf)
	p.oldMaxes = append(p.oldMaxes, p.d.OldMax())
	return nil
}

// boundTightener posts x <= limit once.
type boundTightener struct {
	ConstraintBase
	x     IntVar
	limit int
}

func (b *boundTightener) Post() error { return b.x.RemoveAbove(b.limit) }

func (b *boundTightener) Propagate() error { return nil }

// TestBoundChangeNotifiesOnce tightens {1,3,5,7} to <= 4 through a posted
// constraint and checks the single bound notification and its delta.
func TestBoundChangeNotifiesOnce(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVarFromValues(1, 3, 5, 7)
	require.NoError(t, err)

	probe := newDeltaProbe(x)
	require.NoError(t, s.Post(probe))
	boundEvents := 0
	x.WhenBoundChange(func() error { boundEvents++; return nil })

	require.NoError(t, s.Post(&boundTightener{ConstraintBase: NewConstraintBase(s), x: x, limit: 4}))

	assert.Equal(t, 1, boundEvents)
	require.Equal(t, 1, probe.calls)
	assert.Equal(t, 7, probe.oldMaxes[0])
	assert.Equal(t, []int{5, 7}, probe.removed[0])
	assert.Equal(t, []int{1, 3}, Values(x))
}

func TestDeltaResetsAfterEachPropagation(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	probe := newDeltaProbe(x)
	require.NoError(t, s.Post(probe))

	require.NoError(t, x.Remove(4))
	require.NoError(t, x.Remove(6))
	require.NoError(t, s.Fixpoint())
	require.NoError(t, x.RemoveBelow(2))
	require.NoError(t, s.Fixpoint())

	require.Equal(t, 2, probe.calls, "two removals before one fixpoint wake the consumer once")
	assert.Equal(t, []int{4, 6}, probe.removed[0])
	assert.Equal(t, []int{0, 1}, probe.removed[1])
}

func TestDeltaAcrossRestore(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 5)
	require.NoError(t, err)
	probe := newDeltaProbe(x)
	require.NoError(t, s.Post(probe))

	s.Trail().Save()
	require.NoError(t, x.Remove(0))
	require.NoError(t, s.Fixpoint())
	s.Trail().Restore()

	s.Trail().Save()
	require.NoError(t, x.Remove(5))
	require.NoError(t, s.Fixpoint())
	s.Trail().Restore()

	require.Equal(t, 2, probe.calls)
	assert.Equal(t, []int{0}, probe.removed[0])
	assert.Equal(t, []int{5}, probe.removed[1], "the baseline is restored with the domain")
}

func TestViewDelta(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 5)
	require.NoError(t, err)
	neg, err := Minus(x)
	require.NoError(t, err)
	probe := newDeltaProbe(neg)
	require.NoError(t, s.Post(probe))

	require.NoError(t, x.RemoveBelow(4))
	require.NoError(t, s.Fixpoint())

	require.Equal(t, 1, probe.calls)
	assert.Equal(t, []int{-3, -2, -1, 0}, probe.removed[0])
	assert.Equal(t, 0, probe.oldMaxes[0])
	assert.False(t, probe.d.Changed(), "baseline moves after the propagation")
}
