package pool_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func sampleTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "v0", DomainSize: 2}, {Name: "v1", DomainSize: 2}},
		Initial:   []int{0, 0},
		Goal:      []task.FactPair{{Var: 0, Val: 1}},
	}
}

func TestPoolFileRoundTrip(t *testing.T) {
	tsk := sampleTask()
	reg := task.NewStateRegistry(tsk)

	var buf bytes.Buffer
	f, err := pool.NewFile(&buf, tsk)
	require.NoError(t, err)

	require.NoError(t, f.Write(-1, 0, reg.InitialState(), []int{0, 0}))
	second := reg.Intern([]int{1, 0})
	require.NoError(t, f.Write(0, 3, second, []int{1, 0}))

	loaded, err := pool.Load(tsk, task.NewStateRegistry(tsk), &buf)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.Equal(t, -1, loaded.Entry(0).RefIndex)
	require.Equal(t, 3, loaded.Entry(1).Steps)
	require.Equal(t, task.NoState, loaded.RefState(0))
}

func TestPoolAddAndEntry(t *testing.T) {
	p := pool.New()
	idx := p.Add(-1, 0, task.StateID(0))
	require.Equal(t, 0, idx)
	require.Equal(t, 1, p.Len())
	require.Equal(t, task.StateID(0), p.Entry(0).State)
}
