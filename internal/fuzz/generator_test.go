package fuzz_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func branchTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "v", DomainSize: 3}},
		Operators: []task.Operator{
			{ID: 0, Name: "toA", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 1}}},
			{ID: 1, Name: "toB", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 2}}},
		},
		Initial: []int{0},
		Goal:    []task.FactPair{{Var: 0, Val: 1}},
	}
}

func chainTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "v", DomainSize: 4}},
		Operators: []task.Operator{
			{ID: 0, Name: "inc0", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 1}}},
			{ID: 1, Name: "inc1", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 1, Post: 2}}},
			{ID: 2, Name: "inc2", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 2, Post: 3}}},
		},
		Initial: []int{0},
		Goal:    []task.FactPair{{Var: 0, Val: 3}},
	}
}

func TestWalkStopsAtDeadEnd(t *testing.T) {
	tsk := branchTask()
	reg := task.NewStateRegistry(tsk)
	g := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)))

	p := pool.New()
	steps := g.Walk(p, reg.InitialState())

	require.Equal(t, 1, steps)
	require.Equal(t, 2, p.Len())
}

func TestWalkRespectsMaxWalkLength(t *testing.T) {
	tsk := chainTask()
	reg := task.NewStateRegistry(tsk)
	g := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)), fuzz.WithMaxWalkLength(2))

	p := pool.New()
	steps := g.Walk(p, reg.InitialState())

	require.Equal(t, 2, steps)
	require.Equal(t, 3, p.Len())
}

type rejectAfterFirst struct{ n int }

func (f *rejectAfterFirst) Accept([]int) bool {
	f.n++
	// accepts the root's own registration plus exactly one successor.
	return f.n <= 2
}

func TestWalkContinuesPastRejectedStates(t *testing.T) {
	tsk := chainTask()
	reg := task.NewStateRegistry(tsk)
	filter := &rejectAfterFirst{}
	g := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)), fuzz.WithFilter(filter))

	p := pool.New()
	steps := g.Walk(p, reg.InitialState())

	require.Equal(t, 2, steps)
	// root + the one accepted successor; the rejected successor never
	// reaches the pool, but the walk still advanced through it. The walk
	// then stops one step short of the goal, since goal successors are
	// dropped from candidate selection rather than walked into.
	require.Equal(t, 2, p.Len())
}

// forkTask branches from the initial state into a one-step dead end
// (value 1) and a two-step live branch (value 2 -> value 3); its goal is
// unreachable, so goal-exclusion never interferes with this test.
func forkTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "v", DomainSize: 4}},
		Operators: []task.Operator{
			{ID: 0, Name: "toDeadEnd", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 1}}},
			{ID: 1, Name: "toLive", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 2}}},
			{ID: 2, Name: "advance", Cost: 1, Effects: []task.CondEffect{{Var: 0, Pre: 2, Post: 3}}},
		},
		Initial: []int{0},
		Goal:    []task.FactPair{{Var: 0, Val: 99}},
	}
}

func TestWalkSkipsKnownDeadEndsOnSubsequentWalks(t *testing.T) {
	tsk := forkTask()
	reg := task.NewStateRegistry(tsk)
	g := fuzz.NewGenerator(reg, fuzz.NeutralBias{}, rand.New(rand.NewSource(1)))

	p := pool.New()
	g.Walk(p, reg.InitialState())
	g.Walk(p, reg.InitialState())
	g.Walk(p, reg.InitialState())
	g.Walk(p, reg.InitialState())
	g.Walk(p, reg.InitialState())

	// The dead end (value 1) can be inserted at most once: the walk that
	// first steps into it is the one that discovers it, after which every
	// later walk must exclude it from candidate selection and go live
	// instead (value 2 -> value 3), regardless of the PRNG.
	deadEnd := reg.Intern([]int{1})
	occurrences := 0
	for i := 0; i < p.Len(); i++ {
		if p.Entry(i).State == deadEnd {
			occurrences++
		}
	}
	require.LessOrEqual(t, occurrences, 1)
}

func TestLoopinessBiasDecaysRepeatedStates(t *testing.T) {
	b := fuzz.NewLoopinessBias()
	s := task.StateID(5)
	first := b.Weight(s, 0)
	b.NotifyInserted(s)
	second := b.Weight(s, 0)
	require.Greater(t, first, second)
}
