package policy

import (
	"context"
	"fmt"
	"io"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// ActionKind classifies a cached policy action.
type ActionKind int

const (
	// ActionNone means the policy has not yet been evaluated on this state.
	ActionNone ActionKind = iota
	// ActionNoOp means the policy surrendered (it has no action to offer).
	ActionNoOp
	// ActionOp means the policy chose a concrete operator.
	ActionOp
)

// CachedAction is the memoised decision for a state.
type CachedAction struct {
	Kind ActionKind
	Op   int
}

// Implementation is what a concrete policy (hand-written, learned, or
// remote) must supply. Apply is called at most once per state by Cache;
// its result is memoised forever after.
type Implementation interface {
	Apply(ctx context.Context, state task.StateID) (CachedAction, error)
}

// RunResult is the outcome of executing a policy from a state to
// completion or to a step-limit cutoff.
//
// Grounded in original_source/src/search/policy_testing/policy.h's
// RunResult{complete, solves_state}.
type RunResult struct {
	Complete    bool // false iff the step limit was hit before termination
	SolvesState bool // true iff the executed path reaches a goal
	Plan        []int
	Path        []task.StateID
}

// RunningCacheWriter appends "<op> <state-values...>" lines to a file as
// the policy is executed, so a long fuzzing session can resume policy
// memoisation across restarts.
//
// Grounded in original_source/.../policy.h's RunningPolicyCacheWriter.
type RunningCacheWriter struct {
	w io.Writer
}

// NewRunningCacheWriter wraps w.
func NewRunningCacheWriter(w io.Writer) *RunningCacheWriter {
	return &RunningCacheWriter{w: w}
}

func (c *RunningCacheWriter) write(op int, values []int) {
	if c == nil || c.w == nil {
		return
	}
	fmt.Fprintf(c.w, "%d", op)
	for _, v := range values {
		fmt.Fprintf(c.w, " %d", v)
	}
	fmt.Fprintln(c.w)
}

// Cache memoises a Policy's action per state, its policy cost bounds, and
// the reverse policy-parent edges ("which states lead here under the
// policy").
type Cache struct {
	registry *task.StateRegistry
	impl     Implementation

	action  map[task.StateID]CachedAction
	cost    map[task.StateID]Cost
	parents map[task.StateID][]task.StateID

	stepsLimit int // 0 = no limit
	writer     *RunningCacheWriter
}

// NewCache constructs a Cache over registry, delegating uncached decisions
// to impl.
func NewCache(registry *task.StateRegistry, impl Implementation) *Cache {
	return &Cache{
		registry: registry,
		impl:     impl,
		action:   make(map[task.StateID]CachedAction),
		cost:     make(map[task.StateID]Cost),
		parents:  make(map[task.StateID][]task.StateID),
	}
}

// SetStepsLimit bounds how many steps ExecuteGetPlan/ComputePolicyCost will
// traverse before giving up with Unknown/incomplete. 0 means unlimited.
func (c *Cache) SetStepsLimit(n int) { c.stepsLimit = n }

// SetRunningCacheWriter enables append-only persistence of newly-computed
// actions.
func (c *Cache) SetRunningCacheWriter(w *RunningCacheWriter) { c.writer = w }

// IsGoal reports whether s is a goal state.
func (c *Cache) IsGoal(s task.StateID) bool { return c.registry.IsGoal(s) }

// LookupAction returns the cached action for s, if any.
func (c *Cache) LookupAction(s task.StateID) (CachedAction, bool) {
	a, ok := c.action[s]
	return a, ok
}

// GetPolicyParentStates returns the sorted list of states p such that
// action[p] is the operator leading from p to s.
func (c *Cache) GetPolicyParentStates(s task.StateID) []task.StateID {
	return c.parents[s]
}

// lookupApply returns the cached action for s, computing and caching it
// (at most once) via the wrapped Implementation otherwise, and registering
// s as a policy-parent of its successor.
func (c *Cache) lookupApply(ctx context.Context, s task.StateID) (CachedAction, error) {
	if a, ok := c.action[s]; ok {
		return a, nil
	}
	a, err := c.impl.Apply(ctx, s)
	if err != nil {
		return CachedAction{}, err
	}
	c.action[s] = a

	values := c.registry.Lookup(s)
	c.writer.write(func() int {
		if a.Kind == ActionOp {
			return a.Op
		}
		return -1
	}(), values)

	if a.Kind == ActionOp {
		op := &c.registry.Task().Operators[a.Op]
		succ := c.registry.Successor(s, op)
		c.parents[succ] = InsertSorted(c.parents[succ], s)
	}
	return a, nil
}

// ExecuteGetPlan walks the policy from s until a goal, a NoOp surrender, a
// detected cycle, or stepLimit steps (0 = unlimited), whichever comes
// first.
func (c *Cache) ExecuteGetPlan(ctx context.Context, s task.StateID, stepLimit int) (RunResult, error) {
	return c.executeGetPlan(ctx, s, stepLimit, true)
}

// ExecuteGetPlanAndPath is an alias kept for symmetry with the original's
// two accessor names; the Go Cache always tracks the path.
func (c *Cache) ExecuteGetPlanAndPath(ctx context.Context, s task.StateID, stepLimit int) (RunResult, error) {
	return c.executeGetPlan(ctx, s, stepLimit, true)
}

func (c *Cache) executeGetPlan(ctx context.Context, s task.StateID, stepLimit int, trackPath bool) (RunResult, error) {
	if stepLimit == 0 {
		stepLimit = c.stepsLimit
	}
	var result RunResult
	seen := map[task.StateID]struct{}{}
	cur := s
	for step := 0; stepLimit == 0 || step < stepLimit; step++ {
		if trackPath {
			result.Path = append(result.Path, cur)
		}
		if c.registry.IsGoal(cur) {
			result.Complete = true
			result.SolvesState = true
			return result, nil
		}
		if _, dup := seen[cur]; dup {
			result.Complete = true
			result.SolvesState = false
			return result, nil
		}
		seen[cur] = struct{}{}

		a, err := c.lookupApply(ctx, cur)
		if err != nil {
			return RunResult{}, err
		}
		if a.Kind != ActionOp {
			result.Complete = true
			result.SolvesState = false
			return result, nil
		}
		result.Plan = append(result.Plan, a.Op)
		op := &c.registry.Task().Operators[a.Op]
		cur = c.registry.Successor(cur, op)
	}
	return result, nil // Complete stays false: step limit exhausted
}

// ComputePolicyCost fills cost[s] (and every state along the traversed
// path with consistent remainder costs) and returns it. Returns Unknown
// iff the step limit was hit before a terminating condition.
func (c *Cache) ComputePolicyCost(ctx context.Context, s task.StateID, stepLimit int) (Cost, error) {
	if existing, ok := c.cost[s]; ok && existing != Unknown {
		return existing, nil
	}

	run, err := c.executeGetPlan(ctx, s, stepLimit, true)
	if err != nil {
		return Unknown, err
	}

	var terminal Cost
	switch {
	case !run.Complete:
		terminal = Unknown
	case run.SolvesState:
		terminal = 0
	default:
		terminal = Unsolved
	}

	// Walk the path backward accumulating remainder costs.
	remainder := terminal
	for i := len(run.Path) - 1; i >= 0; i-- {
		st := run.Path[i]
		if i < len(run.Plan) {
			op := &c.registry.Task().Operators[run.Plan[i]]
			remainder = AddCost(remainder, Cost(op.Cost))
		}
		if existing, ok := c.cost[st]; !ok || IsLess(remainder, existing) || existing == Unknown {
			c.cost[st] = remainder
		}
	}
	if len(run.Path) == 0 {
		c.cost[s] = terminal
		return terminal, nil
	}
	return c.cost[s], nil
}

// ComputeLowerPolicyCostBound returns (bound, exact). If policy cost is
// Unknown, it walks only the already-cached suffix and returns the
// accumulated g as (bound, false); returns (Unsolved, true) on NoOp/cycle.
func (c *Cache) ComputeLowerPolicyCostBound(ctx context.Context, s task.StateID) (Cost, bool) {
	if known, ok := c.cost[s]; ok && known != Unknown {
		return known, true
	}

	var bound Cost
	cur := s
	seen := map[task.StateID]struct{}{}
	for {
		if c.registry.IsGoal(cur) {
			return bound, true
		}
		if _, dup := seen[cur]; dup {
			return Unsolved, true
		}
		seen[cur] = struct{}{}
		a, ok := c.action[cur]
		if !ok {
			return bound, false
		}
		if a.Kind != ActionOp {
			return Unsolved, true
		}
		op := &c.registry.Task().Operators[a.Op]
		bound = AddCost(bound, Cost(op.Cost))
		cur = c.registry.Successor(cur, op)
	}
}

// ComputeUpperPolicyCostBound derives the upper bound trivially from the
// lower-bound pair when it is exact, else Unknown.
func (c *Cache) ComputeUpperPolicyCostBound(ctx context.Context, s task.StateID) Cost {
	bound, exact := c.ComputeLowerPolicyCostBound(ctx, s)
	if exact {
		return bound
	}
	return Unknown
}

// LazyComputePolicyCost computes a cost bound for s the same way
// ComputePolicyCost does, but bounded by maxCost/maxSteps and *without*
// storing any policy cost — used by probes (e.g. UnrelaxationOracle) that
// must not pollute the authoritative cost memoisation. Actions it needs are
// looked up and memoised through lookupApply like every other Cache path.
//
// Grounded in original_source/.../policy.h's lazy_compute_policy_cost.
func (c *Cache) LazyComputePolicyCost(ctx context.Context, s task.StateID, maxCost Cost, maxSteps int) (Cost, error) {
	cur := s
	seen := map[task.StateID]struct{}{}
	var g Cost
	for step := 0; maxSteps == 0 || step < maxSteps; step++ {
		if c.registry.IsGoal(cur) {
			return g, nil
		}
		if _, dup := seen[cur]; dup {
			return Unsolved, nil
		}
		seen[cur] = struct{}{}

		a, err := c.lookupApply(ctx, cur)
		if err != nil {
			return Unknown, err
		}
		if a.Kind != ActionOp {
			return Unsolved, nil
		}
		op := &c.registry.Task().Operators[a.Op]
		g = AddCost(g, Cost(op.Cost))
		if maxCost.IsFinite() && g.IsFinite() && g > maxCost {
			return Unknown, nil
		}
		cur = c.registry.Successor(cur, op)
	}
	return Unknown, nil
}

// ReadActionCost returns the cost of the cached action at s, or -1 if
// uncached or the action is not an operator.
func (c *Cache) ReadActionCost(s task.StateID) int {
	a, ok := c.action[s]
	if !ok || a.Kind != ActionOp {
		return -1
	}
	return c.registry.Task().Operators[a.Op].Cost
}
