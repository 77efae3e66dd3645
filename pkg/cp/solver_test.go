package cp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderProbe records its name in a shared log when propagated.
type orderProbe struct {
	ConstraintBase
	x    IntVar
	name string
	log  *[]string
}

func (p *orderProbe) Post() error {
	p.x.PropagateOnDomainChange(p)
	return nil
}

func (p *orderProbe) Propagate() error {
	*p.log = append(*p.log, p.name)
	return nil
}

func TestFixpointIsFIFO(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	y, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)

	var log []string
	for _, p := range []*orderProbe{
		{ConstraintBase: NewConstraintBase(s), x: y, name: "b", log: &log},
		{ConstraintBase: NewConstraintBase(s), x: x, name: "a", log: &log},
		{ConstraintBase: NewConstraintBase(s), x: x, name: "c", log: &log},
	} {
		require.NoError(t, s.Post(p))
	}
	require.NoError(t, x.Remove(1))
	require.NoError(t, y.Remove(1))
	require.NoError(t, x.Remove(2)) // a and c are already queued
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, []string{"a", "c", "b"}, log)
}

func TestFixpointIsIdempotent(t *testing.T) {
	s := NewSolver()
	xs, err := s.MakeIntVarArray(4, 0, 6)
	require.NoError(t, err)
	for i := 0; i+1 < len(xs); i++ {
		require.NoError(t, s.Post(NewLessOrEqual(xs[i], xs[i+1])))
	}
	require.NoError(t, xs[3].RemoveAbove(4))
	require.NoError(t, xs[0].RemoveBelow(2))
	require.NoError(t, s.Fixpoint())

	before := s.EngineStats().Propagations
	snapshot := make([][]int, len(xs))
	for i, x := range xs {
		snapshot[i] = Values(x)
	}
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, before, s.EngineStats().Propagations, "nothing queued, nothing propagated")
	for i, x := range xs {
		assert.Equal(t, snapshot[i], Values(x))
		assert.Equal(t, 2, x.Min())
		assert.Equal(t, 4, x.Max())
	}
}

// spawner posts a new constraint from inside its own propagation.
type spawner struct {
	ConstraintBase
	x, y  IntVar
	fired bool
}

func (c *spawner) Post() error {
	c.x.PropagateOnFix(c)
	return nil
}

func (c *spawner) Propagate() error {
	if c.fired {
		return nil
	}
	c.fired = true
	return c.Solver().Post(NewNotEqual(c.y, c.x, 0))
}

func TestPostDuringFixpoint(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 3)
	require.NoError(t, err)
	y, err := s.MakeIntVar(2, 3)
	require.NoError(t, err)
	require.NoError(t, s.Post(&spawner{ConstraintBase: NewConstraintBase(s), x: x, y: y}))

	require.NoError(t, x.Fix(2))
	require.NoError(t, s.Fixpoint())
	assert.True(t, y.IsFixed())
	assert.Equal(t, 3, y.Min())
}

func TestClosureConstraints(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	y, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)

	// y mirrors the lower bound of x.
	x.WhenBoundChange(func() error { return y.RemoveBelow(x.Min()) })
	fixed := 0
	x.WhenFixed(func() error { fixed++; return nil })

	require.NoError(t, x.RemoveBelow(4))
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, 4, y.Min())
	assert.Equal(t, 0, fixed)

	require.NoError(t, x.Fix(9))
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, 9, y.Min())
	assert.Equal(t, 1, fixed)
}

func TestFailureClearsQueue(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 3)
	require.NoError(t, err)
	y, err := s.MakeIntVar(0, 3)
	require.NoError(t, err)
	boom := errors.New("boom")
	x.WhenDomainChange(func() error { return boom })
	calls := 0
	y.WhenDomainChange(func() error { calls++; return nil })

	s.Trail().Save()
	require.NoError(t, x.Remove(0))
	require.NoError(t, y.Remove(0))
	assert.ErrorIs(t, s.Fixpoint(), boom)
	assert.Equal(t, 0, calls, "queued work is dropped after a failure")
	s.Trail().Restore()
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, 0, calls)
}

func TestInactiveConstraintIsSkipped(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	var log []string
	p := &orderProbe{ConstraintBase: NewConstraintBase(s), x: x, name: "p", log: &log}
	require.NoError(t, s.Post(p))

	s.Trail().Save()
	p.SetActive(false)
	require.NoError(t, x.Remove(1))
	require.NoError(t, s.Fixpoint())
	assert.Empty(t, log)
	s.Trail().Restore()

	assert.True(t, p.IsActive())
	require.NoError(t, x.Remove(2))
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, []string{"p"}, log)
}

func TestPostErrors(t *testing.T) {
	s := NewSolver()
	other := NewSolver()
	x, err := s.MakeIntVar(0, 1)
	require.NoError(t, err)
	y, err := other.MakeIntVar(0, 1)
	require.NoError(t, err)

	c := NewLessOrEqual(x, x)
	require.NoError(t, s.Post(c))
	assert.ErrorIs(t, s.Post(c), ErrInvalidArgument, "posting twice")
	assert.ErrorIs(t, s.Post(NewLessOrEqual(y, y)), ErrInvalidArgument, "foreign constraint")
}

func TestRootInfeasibility(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 3)
	require.NoError(t, err)
	y, err := s.MakeIntVar(5, 9)
	require.NoError(t, err)

	assert.False(t, s.Infeasible())
	err = s.Post(NewLessOrEqual(y, x))
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.True(t, s.Infeasible())
}

func TestPostWithoutFixpoint(t *testing.T) {
	s := NewSolver()
	x, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	y, err := s.MakeIntVar(0, 9)
	require.NoError(t, err)
	require.NoError(t, s.Post(NewLessOrEqual(x, y)))

	require.NoError(t, s.PostWith(&boundTightener{ConstraintBase: NewConstraintBase(s), x: y, limit: 5}, false))
	assert.Equal(t, 9, x.Max(), "x <= y not yet propagated")
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, 5, x.Max())
}

func TestEngineStatsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	s := NewSolver(WithLogger(logger), WithConfig(cfg))

	x, err := s.MakeIntVar(0, 3)
	require.NoError(t, err)
	y, err := s.MakeIntVar(4, 6)
	require.NoError(t, err)
	s.Trail().Save()
	require.NoError(t, s.Post(NewLessOrEqual(x, y)))
	s.Trail().Restore()
	require.ErrorIs(t, s.Post(NewLessOrEqual(y, x)), ErrInconsistent)

	st := s.EngineStats()
	assert.Equal(t, 2, st.ConstraintsPosted)
	assert.Contains(t, buf.String(), "model infeasible at root")
	assert.Contains(t, buf.String(), s.ID().String())
	assert.Contains(t, s.String(), "vars: 2")
}
