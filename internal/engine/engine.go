package engine

import (
	"context"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugstore"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/regions"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Driver is the engine-facing half of the Oracle contract (spec.md §4.4):
// every concrete oracle (CompositeOracle, iterative.Oracle, unrelax.Oracle)
// exposes this method, built on top of oracle.Base.TestDriver against its
// own Test primitive.
type Driver interface {
	TestDriver(ctx context.Context, eng oracle.Engine, pc *policy.Cache, entry pool.Entry) (oracle.TestResult, error)
}

// Engine is the TestEngine (spec.md §4.7): it owns the pool, drives the
// fuzzing generator and the oracle, and persists results to the bug store
// (and, optionally, to pool/bug files on disk).
//
// Engine carries no synchronisation and must never be shared across
// goroutines (SPEC_FULL.md §5's Go realisation note); the ambient
// remote-policy watchdog in cmd/policytest only ever reads through
// StateRegistry's own mutex, never through Engine.
type Engine struct {
	registry *task.StateRegistry
	pc       *policy.Cache
	p        *pool.Pool
	gen      *fuzz.Generator
	driver   Driver
	bugs     *bugstore.Store
	rng      *rand.Rand

	poolFile *pool.File
	bugFile  *bugstore.File

	maxSteps    int
	maxPoolSize int
	padSize     int
	padding     []byte

	seen  map[task.StateID]struct{}
	stats Statistics
	start time.Time
	ioErr error
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPoolFile enables append-only pool-file persistence.
func WithPoolFile(f *pool.File) Option { return func(e *Engine) { e.poolFile = f } }

// WithBugFile enables append-only bug-file persistence.
func WithBugFile(f *bugstore.File) Option { return func(e *Engine) { e.bugFile = f } }

// WithMaxSteps bounds the number of steps Run will execute (0 = unbounded,
// governed only by WithMaxPoolSize or external cancellation).
func WithMaxSteps(n int) Option { return func(e *Engine) { e.maxSteps = n } }

// WithMaxPoolSize bounds the pool size Run will grow to (0 = unbounded).
func WithMaxPoolSize(n int) Option { return func(e *Engine) { e.maxPoolSize = n } }

// WithMemoryPadding sets the size, in bytes, of the pre-reserved padding
// buffer allocated at the start of every Step and released on both the
// success and OutOfResource paths (SPEC_FULL.md §4.7's Go realisation of
// the original's memory-reservation trick). 0 disables padding.
func WithMemoryPadding(n int) Option { return func(e *Engine) { e.padSize = n } }

// New constructs an Engine. rng must be an explicitly-seeded source, used
// to pick the random pool entry each random-walk step starts from
// (spec.md §4.2); gen performs the walk itself.
func New(registry *task.StateRegistry, pc *policy.Cache, p *pool.Pool, gen *fuzz.Generator, driver Driver, bugs *bugstore.Store, rng *rand.Rand, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		pc:       pc,
		p:        p,
		gen:      gen,
		driver:   driver,
		bugs:     bugs,
		rng:      rng,
		seen:     make(map[task.StateID]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsKnownBug implements oracle.Engine by delegating to the bug store.
func (e *Engine) IsKnownBug(s task.StateID) (oracle.TestResult, bool) {
	return e.bugs.IsKnownBug(s)
}

// AddAdditionalBug implements oracle.Engine: it delegates the monotone
// upgrade to the bug store and, if a bug file is configured, persists the
// state's values (on first sight) and the updated result. A write failure
// is recorded (not returned, since oracle.Engine's signature carries no
// error) and surfaces as an error from the next Step/Run call, per
// spec.md §7's "bug-storage I/O errors terminate the run".
func (e *Engine) AddAdditionalBug(s task.StateID, r oracle.TestResult) oracle.TestResult {
	_, had := e.bugs.IsKnownBug(s)
	stored := e.bugs.AddAdditionalBug(s, r)
	if e.bugFile != nil && e.ioErr == nil {
		if !had {
			if err := e.bugFile.WriteState(s, e.registry.Lookup(s)); err != nil {
				e.ioErr = perr.Wrap(perr.InputFormat, "writing bug file state record", err)
				return stored
			}
		}
		if err := e.bugFile.WriteResult(s, stored); err != nil {
			e.ioErr = perr.Wrap(perr.InputFormat, "writing bug file result record", err)
			return stored
		}
		if e.bugs.IsPoolState(s) {
			if err := e.bugFile.WritePool(s); err != nil {
				e.ioErr = perr.Wrap(perr.InputFormat, "writing bug file pool record", err)
			}
		}
	}
	return stored
}

// Statistics returns a snapshot of the engine's current counters.
func (e *Engine) Statistics() Statistics { return e.stats }

func (e *Engine) reservePadding() {
	if e.padSize > 0 {
		e.padding = make([]byte, e.padSize)
	}
}

func (e *Engine) releasePadding() {
	e.padding = nil
}

// Step executes one iteration of the step loop (spec.md §4.7): step 0
// inserts the initial state; every subsequent step performs one biased
// random walk starting from a randomly-chosen existing pool entry. A
// resource-exhausted error is returned (wrapped via perr) but is not a
// run failure; Run treats it as "stop gracefully".
func (e *Engine) Step(ctx context.Context) error {
	if e.ioErr != nil {
		return e.ioErr
	}
	e.reservePadding()

	var err error
	if e.stats.Steps == 0 {
		err = e.insertInitial(ctx)
	} else {
		err = e.walkStep(ctx)
	}

	e.releasePadding()
	if err != nil {
		return err
	}
	if e.ioErr != nil {
		return e.ioErr
	}

	e.stats.Steps++
	e.stats.PoolSize = e.p.Len()
	e.stats.BugCount = len(e.bugs.BugStates())
	e.logStepStatus()
	return nil
}

func (e *Engine) insertInitial(ctx context.Context) error {
	initial := e.registry.InitialState()
	e.p.Add(-1, 0, initial)
	e.seen[initial] = struct{}{}
	e.bugs.MarkPool(initial)
	if e.poolFile != nil {
		if err := e.poolFile.Write(-1, 0, initial, e.registry.Lookup(initial)); err != nil {
			return perr.Wrap(perr.InputFormat, "writing pool file", err)
		}
	}
	return e.testEntry(ctx, pool.Entry{RefIndex: -1, Steps: 0, State: initial})
}

func (e *Engine) walkStep(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(perr.ResourceExhausted, "engine step deadline", err)
	}

	startIdx := e.rng.Intn(e.p.Len())
	start := e.p.Entry(startIdx).State

	before := e.p.Len()
	e.gen.Walk(e.p, start)

	last := e.p.Entry(e.p.Len() - 1).State
	if len(e.registry.ApplicableOperators(last)) == 0 {
		e.stats.DeadEnds++
	}

	for i := before; i < e.p.Len(); i++ {
		entry := e.p.Entry(i)
		if _, dup := e.seen[entry.State]; dup {
			e.stats.Duplicates++
		} else {
			e.seen[entry.State] = struct{}{}
		}
		e.bugs.MarkPool(entry.State)
		if e.poolFile != nil {
			if err := e.poolFile.WriteEntry(entry, e.registry.Lookup(entry.State)); err != nil {
				return perr.Wrap(perr.InputFormat, "writing pool file", err)
			}
		}
		if err := e.testEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) testEntry(ctx context.Context, entry pool.Entry) error {
	result, err := e.driver.TestDriver(ctx, e, e.pc, entry)
	if err != nil {
		return err
	}
	e.logTestResult(entry.State, result)
	return nil
}

// limitsReached reports whether Run should stop growing the pool.
func (e *Engine) limitsReached() bool {
	if e.maxSteps > 0 && e.stats.Steps >= e.maxSteps {
		return true
	}
	if e.maxPoolSize > 0 && e.p.Len() >= e.maxPoolSize {
		return true
	}
	return false
}

// Run drives the step loop to completion: it steps until a configured
// limit is reached, the context is cancelled, or a resource-exhausted
// condition is reported by a Step, then computes pool and bug regions
// (spec.md §4.10) and returns the final Statistics.
func (e *Engine) Run(ctx context.Context) (*Statistics, error) {
	e.start = time.Now()
	for !e.limitsReached() {
		err := e.Step(ctx)
		if err == nil {
			continue
		}
		if kind, ok := perr.KindOf(err); ok && kind == perr.ResourceExhausted {
			klog.V(1).InfoS("step loop stopped: resource exhausted", "steps", e.stats.Steps)
			break
		}
		return nil, err
	}

	e.stats.Elapsed = time.Since(e.start)
	e.stats.PoolRegions = regions.Compute(e.registry, e.p.States())
	e.stats.BugRegions = regions.Compute(e.registry, e.bugs.BugStates())
	e.logFinalStatistics()
	return &e.stats, nil
}

func (e *Engine) logStepStatus() {
	klog.V(1).InfoS("step",
		"step", e.stats.Steps,
		"poolSize", e.stats.PoolSize,
		"duplicates", e.stats.Duplicates,
		"deadEnds", e.stats.DeadEnds,
		"bugs", e.stats.BugCount,
	)
}

func (e *Engine) logTestResult(s task.StateID, r oracle.TestResult) {
	classification := "not a bug"
	switch {
	case r.BugValue == bugvalue.Unsolved:
		classification = "qualitative (unsolved)"
	case r.BugValue > 0:
		classification = "quantitative"
	}
	klog.V(2).InfoS("test result",
		"stateID", int64(s),
		"classification", classification,
		"bugValue", int64(r.BugValue),
		"upperCostBound", int64(r.UpperCostBound),
	)
}

func (e *Engine) logFinalStatistics() {
	klog.InfoS("final statistics",
		"steps", e.stats.Steps,
		"poolSize", e.stats.PoolSize,
		"duplicates", e.stats.Duplicates,
		"deadEnds", e.stats.DeadEnds,
		"bugs", e.stats.BugCount,
		"poolRegions", len(e.stats.PoolRegions),
		"bugRegions", len(e.stats.BugRegions),
		"elapsed", e.stats.Elapsed,
	)
}
