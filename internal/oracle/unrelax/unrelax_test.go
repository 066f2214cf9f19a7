package unrelax_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle/unrelax"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// twoVarTask has variables a (domain 2) and b (domain 2). The policy only
// ever applies opA (a:0->1, cost 5); opB (b:0->1, cost 1) exists in the
// task but the policy never offers it, so every state with a==0 is solved
// via opA at cost 5 whatever the value of b.
func twoVarTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "a", DomainSize: 2}, {Name: "b", DomainSize: 2}},
		Operators: []task.Operator{
			{ID: 0, Name: "opA", Cost: 5, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 1}}},
			{ID: 1, Name: "opB", Cost: 1, Effects: []task.CondEffect{{Var: 1, Pre: 0, Post: 1}}},
		},
		Initial: []int{0, 0},
		Goal:    []task.FactPair{{Var: 0, Val: 1}},
	}
}

// onlyAImpl offers opA whenever applicable, regardless of variable b, and
// never offers opB.
type onlyAImpl struct{ reg *task.StateRegistry }

func (p onlyAImpl) Apply(_ context.Context, s task.StateID) (policy.CachedAction, error) {
	values := p.reg.Lookup(s)
	if values[0] == 0 {
		return policy.CachedAction{Kind: policy.ActionOp, Op: 0}, nil
	}
	return policy.CachedAction{Kind: policy.ActionNoOp}, nil
}

func TestTestReportsBugWhenUnrelaxationSolvesCheaper(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)
	pc := policy.NewCache(reg, onlyAImpl{reg: reg})

	t0 := reg.InitialState() // a=0,b=0
	t1 := reg.Intern([]int{0, 1})

	dom, err := dominance.NewTableDominance(reg.Size() + 1)
	require.NoError(t, err)
	// t1 (a=0,b=1) dominates t0 (a=0,b=0) by 1: reaching the goal from t1
	// should cost at most 1 unit more than from t0, i.e. at most 6. The
	// policy actually solves t1 at cost 5, strictly below that cap.
	require.NoError(t, dom.Set(t1, t0, 1))

	rng := rand.New(rand.NewSource(1))
	o := unrelax.New(reg, dom, rng, 10)

	result, err := o.Test(context.Background(), pc, t0)
	require.NoError(t, err)
	require.True(t, bugvalue.IsBug(result.BugValue))
	require.Equal(t, bugvalue.Value(1), result.BugValue)
}

func TestTestNoBugWhenNoUnrelaxationDominates(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)
	pc := policy.NewCache(reg, onlyAImpl{reg: reg})

	t0 := reg.InitialState()
	dom, err := dominance.NewTableDominance(reg.Size() + 4)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	o := unrelax.New(reg, dom, rng, 10)

	result, err := o.Test(context.Background(), pc, t0)
	require.NoError(t, err)
	require.Equal(t, bugvalue.Value(0), result.BugValue)
}

func TestWithVariableRestrictsEnumeration(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)
	pc := policy.NewCache(reg, onlyAImpl{reg: reg})

	t0 := reg.InitialState()
	t1 := reg.Intern([]int{0, 1})

	dom, err := dominance.NewTableDominance(reg.Size() + 1)
	require.NoError(t, err)
	require.NoError(t, dom.Set(t1, t0, 1))

	rng := rand.New(rand.NewSource(1))
	// Restrict to variable 0 (a): the dominating unrelaxation lives on
	// variable 1 (b), so it must never be probed, and no bug is reported.
	o := unrelax.New(reg, dom, rng, 10, unrelax.WithVariable(0))

	result, err := o.Test(context.Background(), pc, t0)
	require.NoError(t, err)
	require.Equal(t, bugvalue.Value(0), result.BugValue)
}
