package unrelax

import (
	"context"
	"math/rand"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// allVariables is the sentinel meaning "enumerate unrelaxations over every
// variable", as opposed to a single nominated variable (the atomic
// variant).
const allVariables = -1

// Oracle is UnrelaxationOracle. A variable of allVariables makes it behave
// as the full-enumeration oracle; any other value restricts enumeration to
// that single variable, realising AtomicUnrelaxationOracle as a
// configuration of the same algorithm rather than a separate type.
type Oracle struct {
	oracle.Base

	registry  *task.StateRegistry
	dominance dominance.Relation
	rng       *rand.Rand

	operationsPerState int
	variable           int
}

// Option configures an Oracle at construction time.
type Option func(*Oracle)

// WithVariable restricts enumeration to a single variable index, realising
// AtomicUnrelaxationOracle.
func WithVariable(v int) Option { return func(o *Oracle) { o.variable = v } }

// WithReportParents configures the embedded oracle.Base flag.
func WithReportParents(b bool) Option { return func(o *Oracle) { o.ReportParents = b } }

// WithConsiderIntermediateStates configures the embedded oracle.Base flag.
func WithConsiderIntermediateStates(b bool) Option {
	return func(o *Oracle) { o.ConsiderIntermediate = b }
}

// New constructs an Oracle enumerating over every variable by default.
// rng must be non-nil and is used exactly as-is (callers own its seeding),
// following the teacher's preference for explicit, caller-controlled
// randomness sources over a package-global one.
func New(registry *task.StateRegistry, dom dominance.Relation, rng *rand.Rand, operationsPerState int, opts ...Option) *Oracle {
	o := &Oracle{
		registry:           registry,
		dominance:          dom,
		rng:                rng,
		operationsPerState: operationsPerState,
		variable:           allVariables,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type unrelaxation struct {
	state task.StateID
	d     int64
}

// enumerate returns every single-variable unrelaxation of t that
// dominates it (D(t', t) > NegativeInfinity), restricted to o.variable
// when set.
func (o *Oracle) enumerate(t task.StateID) []unrelaxation {
	values := o.registry.Lookup(t)
	tsk := o.registry.Task()

	var out []unrelaxation
	for v := 0; v < tsk.NumVariables(); v++ {
		if o.variable != allVariables && v != o.variable {
			continue
		}
		domainSize := tsk.VariableDomainSize(v)
		for val := 0; val < domainSize; val++ {
			if val == values[v] {
				continue
			}
			next := make([]int, len(values))
			copy(next, values)
			next[v] = val
			tp := o.registry.Intern(next)

			d := o.dominance.D(tp, t)
			if d == dominance.NegativeInfinity {
				continue
			}
			out = append(out, unrelaxation{state: tp, d: d})
		}
	}
	return out
}

// TestDriver adapts Oracle to the engine-facing oracle.Driver contract,
// running the shared default algorithm against this oracle's own Test
// primitive.
func (o *Oracle) TestDriver(ctx context.Context, eng oracle.Engine, pc *policy.Cache, entry pool.Entry) (oracle.TestResult, error) {
	return o.Base.TestDriver(ctx, eng, pc, o, entry)
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(perr.ResourceExhausted, "unrelaxation oracle suspension point", err)
	}
	return nil
}

// Test probes up to operationsPerState randomly-chosen dominating
// unrelaxations of t and reports t as a bug if any of them solves at
// strictly less than its dominance-compensated cost cap.
func (o *Oracle) Test(ctx context.Context, pc *policy.Cache, t task.StateID) (oracle.TestResult, error) {
	cost, err := pc.ComputePolicyCost(ctx, t, 0)
	if err != nil {
		return oracle.TestResult{}, err
	}

	candidates := o.enumerate(t)
	o.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > o.operationsPerState {
		candidates = candidates[:o.operationsPerState]
	}

	result := oracle.TestResult{BugValue: 0, UpperCostBound: cost}
	for _, c := range candidates {
		if err := checkCtx(ctx); err != nil {
			return oracle.TestResult{}, err
		}

		var capCost policy.Cost
		switch {
		case cost == policy.Unknown:
			continue // no baseline to compensate against
		case !cost.IsFinite(): // Unsolved: AddCost absorbs, so there is no effective cap
			capCost = policy.Unsolved
		default:
			sum := int64(cost) + c.d
			if sum < 0 {
				continue // a negative cap is never satisfiable; skip
			}
			capCost = policy.Cost(sum)
		}

		probe, err := pc.LazyComputePolicyCost(ctx, c.state, capCost, 0)
		if err != nil {
			return oracle.TestResult{}, err
		}
		if !policy.IsLess(probe, capCost) {
			continue
		}

		var bv bugvalue.Value
		if capCost == policy.Unsolved {
			bv = bugvalue.Unsolved
		} else if probe.IsFinite() {
			bv = bugvalue.Value(int64(capCost) - int64(probe))
		} else {
			continue
		}
		result = oracle.BestOf(result, oracle.TestResult{BugValue: bv, UpperCostBound: cost})
	}
	return result, nil
}
