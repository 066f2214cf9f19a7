package engine_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugstore"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/engine"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle/iterative"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// chainTask builds a single-counter-variable task with n unit-cost steps
// from 0 to n, goal at counter==n (n==0 means the initial state is itself
// the goal).
func chainTask(n int) *task.Task {
	vars := []task.Variable{{Name: "counter", DomainSize: n + 1}}
	ops := make([]task.Operator, n)
	for i := 0; i < n; i++ {
		ops[i] = task.Operator{
			ID: i, Name: "inc", Cost: 1,
			Effects: []task.CondEffect{{Var: 0, Pre: i, Post: i + 1}},
		}
	}
	return &task.Task{
		Variables: vars,
		Operators: ops,
		Initial:   []int{0},
		Goal:      []task.FactPair{{Var: 0, Val: n}},
	}
}

type greedyImpl struct{ reg *task.StateRegistry }

func (g greedyImpl) Apply(_ context.Context, s task.StateID) (policy.CachedAction, error) {
	ops := g.reg.ApplicableOperators(s)
	if len(ops) == 0 {
		return policy.CachedAction{Kind: policy.ActionNoOp}, nil
	}
	return policy.CachedAction{Kind: policy.ActionOp, Op: ops[0].ID}, nil
}

func newFixture(t *testing.T, n int) (*task.Task, *task.StateRegistry, *policy.Cache, *iterative.Oracle, *bugstore.Store) {
	t.Helper()
	tsk := chainTask(n)
	reg := task.NewStateRegistry(tsk)
	pc := policy.NewCache(reg, greedyImpl{reg: reg})
	dom, err := dominance.NewTableDominance(64)
	require.NoError(t, err)
	bugs := bugstore.New()
	o := iterative.New(reg, dom, iterative.WithEngine(bugs), iterative.WithReportParents(true))
	return tsk, reg, pc, o, bugs
}

func TestStepTrivialGoal(t *testing.T) {
	_, reg, pc, o, bugs := newFixture(t, 0)
	p := pool.New()
	gen := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)))
	eng := engine.New(reg, pc, p, gen, o, bugs, rand.New(rand.NewSource(2)))

	require.NoError(t, eng.Step(context.Background()))

	stats := eng.Statistics()
	require.Equal(t, 1, stats.Steps)
	require.Equal(t, 1, stats.PoolSize)
	require.Equal(t, 0, stats.BugCount)
	require.Empty(t, bugs.BugStates())
}

func TestStepPolicySurrenderIsQualitativeBug(t *testing.T) {
	// Two states, one step to the goal; the policy is modified to refuse
	// to act on the initial state (NoOp), matching spec.md §8 scenario 2.
	tsk := chainTask(1)
	reg := task.NewStateRegistry(tsk)
	pc := policy.NewCache(reg, surrenderImpl{reg: reg})
	dom, err := dominance.NewTableDominance(16)
	require.NoError(t, err)
	bugs := bugstore.New()
	o := iterative.New(reg, dom, iterative.WithEngine(bugs),
		iterative.WithLookahead(blindEvaluator{}, iterative.CompGPlusH, 50, 8))

	p := pool.New()
	gen := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)))
	eng := engine.New(reg, pc, p, gen, o, bugs, rand.New(rand.NewSource(2)))

	require.NoError(t, eng.Step(context.Background()))

	results := bugs.BugStates()
	require.NotEmpty(t, results)
}

type surrenderImpl struct{ reg *task.StateRegistry }

func (s surrenderImpl) Apply(_ context.Context, _ task.StateID) (policy.CachedAction, error) {
	return policy.CachedAction{Kind: policy.ActionNoOp}, nil
}

type blindEvaluator struct{}

func (blindEvaluator) Evaluate(_ context.Context, _ *task.StateRegistry, _ task.StateID) (int, bool) {
	return 0, true
}

func TestRunRespectsMaxSteps(t *testing.T) {
	_, reg, pc, o, bugs := newFixture(t, 5)
	p := pool.New()
	gen := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(3)))
	eng := engine.New(reg, pc, p, gen, o, bugs, rand.New(rand.NewSource(4)), engine.WithMaxSteps(3))

	stats, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.Steps)
}

func TestRunRespectsMaxPoolSize(t *testing.T) {
	_, reg, pc, o, bugs := newFixture(t, 5)
	p := pool.New()
	gen := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(5)))
	eng := engine.New(reg, pc, p, gen, o, bugs, rand.New(rand.NewSource(6)), engine.WithMaxPoolSize(4))

	stats, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.PoolSize, 4)
}

func TestAddAdditionalBugPersistsToBugFile(t *testing.T) {
	tsk, reg, pc, o, bugs := newFixture(t, 0)
	p := pool.New()
	gen := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)))

	var buf bytes.Buffer
	bf, err := bugstore.NewFile(&buf, tsk)
	require.NoError(t, err)

	eng := engine.New(reg, pc, p, gen, o, bugs, rand.New(rand.NewSource(2)), engine.WithBugFile(bf))

	state := reg.InitialState()
	stored := eng.AddAdditionalBug(state, oracle.TestResult{BugValue: 5, UpperCostBound: 10})
	require.EqualValues(t, 5, stored.BugValue)
	require.Contains(t, buf.String(), "state\n")
	require.Contains(t, buf.String(), "result\n")
}
