package iterative

import (
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Oracle is the IterativeImprovementOracle: it maintains upperCostBounds
// and a costSetIndex over every tested state, tightens a candidate's bound
// against the numeric dominance relation (Phase B), propagates tightened
// bounds to policy-parents (Phase D, unified with Phase B's own bound
// update through applyUpdate), and optionally runs a best-first lookahead
// search (Phase E).
type Oracle struct {
	oracle.Base

	registry  *task.StateRegistry
	dominance dominance.Relation
	eng       oracle.Engine

	idx        *costSetIndex
	upperBound map[task.StateID]policy.Cost

	maxStateComparisons int
	updateParents       bool

	conductLookahead        bool
	heuristic               Evaluator
	lookaheadComp           LookaheadComp
	maxLookaheadVisits      int
	maxLookaheadComparisons int
}

// Option configures an Oracle at construction time, following the
// teacher's functional-options pattern (core/types.go's GraphOption).
type Option func(*Oracle)

// WithEngine installs the bug store the oracle reports discovered bugs
// to. Required.
func WithEngine(eng oracle.Engine) Option { return func(o *Oracle) { o.eng = eng } }

// WithMaxStateComparisons bounds Phase B's pairwise-tightening work per
// Test call. 0 disables pairwise tightening entirely (spec.md §8).
func WithMaxStateComparisons(n int) Option {
	return func(o *Oracle) { o.maxStateComparisons = n }
}

// WithUpdateParents enables Phase D parent-bound propagation.
func WithUpdateParents(b bool) Option { return func(o *Oracle) { o.updateParents = b } }

// WithReportParents configures the embedded oracle.Base's bug-propagation
// flag (used by the default TestDriver, distinct from WithUpdateParents
// which governs this oracle's own cost-bound propagation).
func WithReportParents(b bool) Option { return func(o *Oracle) { o.ReportParents = b } }

// WithConsiderIntermediateStates configures the embedded oracle.Base flag.
func WithConsiderIntermediateStates(b bool) Option {
	return func(o *Oracle) { o.ConsiderIntermediate = b }
}

// WithLookahead enables Phase E: a best-first search from the candidate
// state, ordered by comp, expanding up to maxVisits states and performing
// up to maxComparisons cost-set comparisons per visited state.
func WithLookahead(ev Evaluator, comp LookaheadComp, maxVisits, maxComparisons int) Option {
	return func(o *Oracle) {
		o.conductLookahead = true
		o.heuristic = ev
		o.lookaheadComp = comp
		o.maxLookaheadVisits = maxVisits
		o.maxLookaheadComparisons = maxComparisons
	}
}

// New constructs an Oracle. dom must already cover every StateID this
// oracle will ever be asked to test (construction is out of scope per
// spec.md §4.3).
func New(registry *task.StateRegistry, dom dominance.Relation, opts ...Option) *Oracle {
	o := &Oracle{
		registry:            registry,
		dominance:           dom,
		idx:                 newCostSetIndex(),
		upperBound:          make(map[task.StateID]policy.Cost),
		maxStateComparisons: 32,
	}
	o.Base = oracle.Base{ReportParents: true, ConsiderIntermediate: false}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TestDriver adapts Oracle to the engine-facing oracle.Driver contract by
// running the shared default algorithm (oracle.Base.TestDriver) against
// this oracle's own Test primitive, exactly as CompositeOracle does.
func (o *Oracle) TestDriver(ctx context.Context, eng oracle.Engine, pc *policy.Cache, entry pool.Entry) (oracle.TestResult, error) {
	return o.Base.TestDriver(ctx, eng, pc, o, entry)
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(perr.ResourceExhausted, "iterative oracle suspension point", err)
	}
	return nil
}

// bugMagnitude computes (lower - upper) as a BugValue, or
// bugvalue.Unsolved if lower is Unsolved, or bugvalue.NotApplicable if
// upper does not actually undercut lower.
func bugMagnitude(lower, upper policy.Cost) bugvalue.Value {
	if lower == policy.Unsolved {
		return bugvalue.Unsolved
	}
	if !lower.IsFinite() || !upper.IsFinite() {
		return bugvalue.NotApplicable
	}
	diff := int64(lower) - int64(upper)
	if diff <= 0 {
		return bugvalue.NotApplicable
	}
	return bugvalue.Value(diff)
}

// Test implements the full algorithm of §4.5 for a single candidate state
// t: goal short-circuit, Phase A local bug test along t's own executed
// path, Phase B pairwise tightening against existing cost sets, Phase C
// insertion (folded into applyUpdate's atomic cost-set transition), Phase
// D parent propagation (folded into applyUpdate's recursion), and the
// optional Phase E lookahead search.
func (o *Oracle) Test(ctx context.Context, pc *policy.Cache, t task.StateID) (oracle.TestResult, error) {
	if o.registry.IsGoal(t) {
		return oracle.TestResult{BugValue: 0, UpperCostBound: 0}, nil
	}
	if err := checkCtx(ctx); err != nil {
		return oracle.TestResult{}, err
	}

	cost, err := pc.ComputePolicyCost(ctx, t, 0)
	if err != nil {
		return oracle.TestResult{}, err
	}
	run, err := pc.ExecuteGetPlanAndPath(ctx, t, 0)
	if err != nil {
		return oracle.TestResult{}, err
	}

	if err := o.reportLocalBugs(ctx, pc, run); err != nil {
		return oracle.TestResult{}, err
	}

	upper := policy.Unsolved
	if cost.IsFinite() {
		upper = cost
	}

	if err := o.tightenAgainstCostSets(ctx, pc, t, &upper); err != nil {
		return oracle.TestResult{}, err
	}

	if o.conductLookahead {
		if err := o.lookaheadSearch(ctx, pc, t, &upper); err != nil {
			return oracle.TestResult{}, err
		}
	}

	if err := o.applyUpdate(ctx, pc, t, upper, map[task.StateID]struct{}{}); err != nil {
		return oracle.TestResult{}, err
	}
	finalUpper, tested := o.upperBound[t]
	if !tested {
		finalUpper = upper
	}

	result := oracle.TestResult{UpperCostBound: finalUpper}
	if policy.IsLess(finalUpper, cost) {
		result.BugValue = bugMagnitude(cost, finalUpper)
	}
	return result, nil
}

// reportLocalBugs implements Phase A: for every policy-chosen edge
// (s -> succ via op) on t's own executed path, if c(op) + D(succ, s) > 0,
// s is a local bug of that magnitude. Aggregated in reverse path order.
func (o *Oracle) reportLocalBugs(ctx context.Context, pc *policy.Cache, run policy.RunResult) error {
	for i := len(run.Plan) - 1; i >= 0; i-- {
		s := run.Path[i]
		succ := run.Path[i+1]
		op := &o.registry.Task().Operators[run.Plan[i]]

		stateCost, err := pc.ComputePolicyCost(ctx, s, 0)
		if err != nil {
			return err
		}
		if stateCost == policy.Unknown {
			continue
		}
		d := o.dominance.D(succ, s)
		if d == dominance.NegativeInfinity {
			continue
		}
		value := int64(op.Cost) + d
		if value <= 0 {
			continue
		}
		if _, known := o.eng.IsKnownBug(s); known {
			continue
		}
		o.eng.AddAdditionalBug(s, oracle.TestResult{
			BugValue:       bugvalue.Value(value),
			UpperCostBound: policy.Unsolved,
		})
	}
	return nil
}

// tightenAgainstCostSets implements Phase B: walk existing cost sets via a
// CostSetIterator seeded at lower_bound(upper), alternating outward, for
// up to maxStateComparisons individual state comparisons. Each visited
// state's own bound tightening (and its Phase D parent propagation) is a
// distinct top-level update, so each gets a fresh processed set rather
// than sharing one BFS-visited set across the whole Test call — a state
// reached and tightened twice via different parent chains must be able to
// propagate both tightenings to its parents (spec.md §4.5 Phase C/D).
func (o *Oracle) tightenAgainstCostSets(ctx context.Context, pc *policy.Cache, t task.StateID, upper *policy.Cost) error {
	if o.maxStateComparisons <= 0 || o.idx.Len() == 0 {
		return nil
	}

	seed := o.idx.lowerBoundIndex(*upper)
	it := newCostSetIterator(o.idx.SortedCosts(), seed)
	comparisons := 0

	for comparisons < o.maxStateComparisons {
		cost, ok := it.Next()
		if !ok {
			break
		}
		bucket := append([]task.StateID(nil), o.idx.States(cost)...)
		for _, s := range bucket {
			if comparisons >= o.maxStateComparisons {
				break
			}
			comparisons++
			if err := checkCtx(ctx); err != nil {
				return err
			}

			if d := o.dominance.D(s, t); d != dominance.NegativeInfinity {
				sCost, _ := o.idx.CostOf(s)
				candidate := policy.Cost(int64(sCost) - d)
				if policy.IsLess(candidate, *upper) {
					*upper = candidate
				}
			}
			if d := o.dominance.D(t, s); d != dominance.NegativeInfinity {
				candidate := policy.Cost(int64(*upper) - d)
				if err := o.applyUpdate(ctx, pc, s, candidate, map[task.StateID]struct{}{}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// applyUpdate tightens state's stored upper cost bound to candidate if it
// is strictly better than what is currently known (policy.IsLess),
// performs the atomic cost-set remove-then-add transition, reports a bug
// if the new bound now undercuts the state's own policy lower bound, and
// — if updateParents is set — recurses to the state's policy-parents
// (Phase D), using processed to guarantee BFS termination over cyclic
// policy-parent graphs.
func (o *Oracle) applyUpdate(ctx context.Context, pc *policy.Cache, state task.StateID, candidate policy.Cost, processed map[task.StateID]struct{}) error {
	current, known := o.upperBound[state]
	if !known {
		current = policy.Unsolved
	}
	if !policy.IsLess(candidate, current) {
		return nil
	}

	o.upperBound[state] = candidate
	o.idx.AddState(state, candidate)

	lower, _ := pc.ComputeLowerPolicyCostBound(ctx, state)
	if policy.IsLess(candidate, lower) {
		if bv := bugMagnitude(lower, candidate); bugvalue.IsBug(bv) {
			o.eng.AddAdditionalBug(state, oracle.TestResult{BugValue: bv, UpperCostBound: candidate})
		}
	}

	if !o.updateParents {
		return nil
	}
	if _, seen := processed[state]; seen {
		return nil
	}
	processed[state] = struct{}{}

	for _, p := range pc.GetPolicyParentStates(state) {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		edgeCost := policy.Cost(pc.ReadActionCost(p))
		parentCandidate := policy.AddCost(candidate, edgeCost)
		if parentLower, exact := pc.ComputeLowerPolicyCostBound(ctx, p); exact {
			parentCandidate = policy.MinCost(parentCandidate, parentLower)
		}
		if err := o.applyUpdate(ctx, pc, p, parentCandidate, processed); err != nil {
			return err
		}
	}
	return nil
}
