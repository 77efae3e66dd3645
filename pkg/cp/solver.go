package cp

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Solver owns the trail, the variables, the constraint registry and the
// propagation queue.
//
// Every posted constraint gets an id equal to its index in a reversible
// registry. Variables store subscriber ids, not constraint references; a
// domain event is dispatched by looking the ids up in the registry. Both the
// registry and the subscriber tables shrink back on Restore, so constraints
// posted inside a search branch vanish with it.
//
// The queue is FIFO. A constraint is queued at most once at a time; the
// scheduled flags live in a bitset indexed by constraint id.
//
// Thread safety: not safe for concurrent use. Run independent solvers on
// separate goroutines instead.
type Solver struct {
	id     uuid.UUID
	trail  *Trail
	config *Config
	logger zerolog.Logger

	vars     []IntVar
	registry *ReversibleStack[Constraint]

	queue       []Constraint
	head        int
	scheduled   *bitset.BitSet
	propagating bool
	hooks       []func() error

	infeasible bool
	stats      EngineStats
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// WithConfig sets the configuration. The log level of the solver logger is
// taken from cfg.LogLevel when set.
func WithConfig(cfg *Config) Option {
	return func(s *Solver) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// NewSolver creates an empty solver.
func NewSolver(opts ...Option) *Solver {
	t := NewTrail()
	s := &Solver{
		id:        uuid.New(),
		trail:     t,
		config:    DefaultConfig(),
		logger:    zerolog.Nop(),
		registry:  NewReversibleStack[Constraint](t),
		queue:     make([]Constraint, 0, 64),
		scheduled: bitset.New(64),
	}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	if s.config.LogLevel != "" {
		s.logger = s.logger.Level(s.config.Level())
	}
	s.logger = s.logger.With().Str("solver", s.id.String()).Logger()
	return s
}

// ID returns the instance id used in log output.
func (s *Solver) ID() uuid.UUID { return s.id }

// Trail returns the state manager.
func (s *Solver) Trail() *Trail { return s.trail }

// Config returns the configuration.
func (s *Solver) Config() *Config { return s.config }

// Logger returns the solver logger.
func (s *Solver) Logger() zerolog.Logger { return s.logger }

// Vars returns the variables created by the Make* factories, in creation
// order. Views are not included.
func (s *Solver) Vars() []IntVar { return s.vars }

// Infeasible reports whether a post at depth 0 failed. Such a model has no
// solution and search over it completes immediately.
func (s *Solver) Infeasible() bool { return s.infeasible }

// EngineStats returns propagation counters.
func (s *Solver) EngineStats() EngineStats {
	st := s.stats
	st.PeakTrailSize = s.trail.PeakSize()
	return st
}

// OnFixpoint registers a hook run at the start of every Fixpoint call. Hooks
// may mutate variables; the resulting events are propagated by that same
// fixpoint. Objectives use this to re-apply their bound at every node.
func (s *Solver) OnFixpoint(hook func() error) {
	s.hooks = append(s.hooks, hook)
}

// Post registers c, calls c.Post and runs the fixpoint.
//
// Posting at depth 0 is model construction: a failure there marks the solver
// infeasible. Posting from inside a running fixpoint (from a Propagate call)
// is allowed; the new constraint's work is drained by the running loop.
func (s *Solver) Post(c Constraint) error {
	return s.PostWith(c, true)
}

// PostWith is Post with control over the trailing fixpoint.
func (s *Solver) PostWith(c Constraint, enforceFixpoint bool) error {
	if err := s.register(c); err != nil {
		return err
	}
	s.stats.ConstraintsPosted++
	if err := c.Post(); err != nil {
		return s.fail(err)
	}
	c.base().updateDeltas()
	if !enforceFixpoint {
		return nil
	}
	if err := s.Fixpoint(); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Solver) fail(err error) error {
	s.clearQueue()
	if IsInconsistent(err) && s.trail.Depth() == 0 {
		s.infeasible = true
		s.logger.Debug().Msg("model infeasible at root")
	}
	return err
}

func (s *Solver) register(c Constraint) error {
	b := c.base()
	if b.cp != s {
		return fmt.Errorf("post %T: constraint belongs to another solver: %w", c, ErrInvalidArgument)
	}
	if b.id >= 0 && b.id < s.registry.Len() && s.registry.Get(b.id) == c {
		return fmt.Errorf("post %T: already posted: %w", c, ErrInvalidArgument)
	}
	b.id = s.registry.Len()
	s.registry.Push(c)
	return nil
}

func (s *Solver) registerClosure(fn func() error) int {
	c := &closureConstraint{ConstraintBase: NewConstraintBase(s), fn: fn}
	c.id = s.registry.Len()
	s.registry.Push(c)
	return c.id
}

// Schedule queues c unless it is inactive or already queued.
func (s *Solver) Schedule(c Constraint) {
	b := c.base()
	if b.id < 0 || !b.active.Value() || s.scheduled.Test(uint(b.id)) {
		return
	}
	s.scheduled.Set(uint(b.id))
	s.queue = append(s.queue, c)
	if n := len(s.queue) - s.head; n > s.stats.PeakQueueSize {
		s.stats.PeakQueueSize = n
	}
}

func (s *Solver) scheduleAll(ids *ReversibleStack[int]) {
	for i, n := 0, ids.Len(); i < n; i++ {
		s.Schedule(s.registry.Get(ids.Get(i)))
	}
}

func (s *Solver) clearQueue() {
	for i := s.head; i < len(s.queue); i++ {
		s.queue[i] = nil
	}
	s.queue = s.queue[:0]
	s.head = 0
	s.scheduled.ClearAll()
}

// Fixpoint runs the fixpoint hooks, then pops and propagates queued
// constraints until the queue is empty. On ErrInconsistent, or any other
// error, the queue is cleared and the error returned.
//
// When called while a fixpoint is already running it returns nil at once;
// the outer loop drains whatever was queued.
func (s *Solver) Fixpoint() error {
	if s.propagating {
		return nil
	}
	s.propagating = true
	defer func() { s.propagating = false }()

	for _, hook := range s.hooks {
		if err := hook(); err != nil {
			s.clearQueue()
			return err
		}
	}
	for s.head < len(s.queue) {
		c := s.queue[s.head]
		s.queue[s.head] = nil
		s.head++
		b := c.base()
		s.scheduled.Clear(uint(b.id))
		if !b.active.Value() {
			continue
		}
		s.stats.Propagations++
		if err := c.Propagate(); err != nil {
			s.clearQueue()
			return err
		}
		b.updateDeltas()
	}
	s.queue = s.queue[:0]
	s.head = 0
	return nil
}

// String summarises the solver.
func (s *Solver) String() string {
	return fmt.Sprintf("Solver{vars: %d, constraints: %d, depth: %d}",
		len(s.vars), s.registry.Len(), s.trail.Depth())
}
