package task_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func twoVarTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{
			{Name: "at", DomainSize: 2},
			{Name: "holding", DomainSize: 2},
		},
		Operators: []task.Operator{
			{
				ID:   0,
				Name: "move",
				Cost: 1,
				Effects: []task.CondEffect{
					{Var: 0, Pre: 0, Post: 1},
				},
			},
		},
		Initial: []int{0, 0},
		Goal:    []task.FactPair{{Var: 0, Val: 1}},
	}
}

func TestInternIsIdempotent(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)

	a := reg.Intern([]int{0, 0})
	b := reg.Intern([]int{0, 0})
	require.Equal(t, a, b, "interning the same values twice must return the same id")
	require.Equal(t, reg.InitialState(), a)
}

func TestInternAllocatesMonotoneIds(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)

	first := reg.InitialState()
	second := reg.Intern([]int{1, 0})
	require.NotEqual(t, first, second)
	require.Greater(t, int64(second), int64(first))
}

func TestSuccessorAppliesEffect(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)

	succ := reg.Successor(reg.InitialState(), &tsk.Operators[0])
	require.True(t, reg.IsGoal(succ))
	require.False(t, reg.IsGoal(reg.InitialState()))
}

func TestApplicableOperatorsRespectsPrecondition(t *testing.T) {
	tsk := twoVarTask()
	reg := task.NewStateRegistry(tsk)

	ops := reg.ApplicableOperators(reg.InitialState())
	require.Len(t, ops, 1)

	succ := reg.Successor(reg.InitialState(), &tsk.Operators[0])
	require.Empty(t, reg.ApplicableOperators(succ), "move is not re-applicable once at=1")
}
