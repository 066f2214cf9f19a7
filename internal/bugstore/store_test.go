package bugstore_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugstore"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func TestAddAdditionalBugIsMonotoneBestOf(t *testing.T) {
	s := bugstore.New()
	first := s.AddAdditionalBug(1, oracle.TestResult{BugValue: 3, UpperCostBound: 10})
	require.Equal(t, bugvalue.Value(3), first.BugValue)

	// A strictly larger bug value with a looser bound: bug value upgrades,
	// bound stays tight (min).
	second := s.AddAdditionalBug(1, oracle.TestResult{BugValue: 5, UpperCostBound: 20})
	require.Equal(t, bugvalue.Value(5), second.BugValue)
	require.Equal(t, policy.Cost(10), second.UpperCostBound)

	// A smaller bug value with a tighter bound: bug value does not
	// regress, but the bound still narrows.
	third := s.AddAdditionalBug(1, oracle.TestResult{BugValue: 1, UpperCostBound: 4})
	require.Equal(t, bugvalue.Value(5), third.BugValue)
	require.Equal(t, policy.Cost(4), third.UpperCostBound)
}

func TestAddAdditionalBugEqualsBestOfOfSequentialAdds(t *testing.T) {
	r1 := oracle.TestResult{BugValue: 2, UpperCostBound: 9}
	r2 := oracle.TestResult{BugValue: 7, UpperCostBound: 3}

	sequential := bugstore.New()
	sequential.AddAdditionalBug(1, r1)
	got := sequential.AddAdditionalBug(1, r2)

	require.Equal(t, oracle.BestOf(r1, r2), got)
}

func TestFileRoundTrip(t *testing.T) {
	tsk := &task.Task{
		Variables: []task.Variable{{Name: "v", DomainSize: 2}},
		Initial:   []int{0},
	}
	reg := task.NewStateRegistry(tsk)
	s0 := reg.InitialState()
	s1 := reg.Intern([]int{1})

	var buf bytes.Buffer
	f, err := bugstore.NewFile(&buf, tsk)
	require.NoError(t, err)
	require.NoError(t, f.WriteState(s0, reg.Lookup(s0)))
	require.NoError(t, f.WriteResult(s0, oracle.TestResult{BugValue: 3, UpperCostBound: 7}))
	require.NoError(t, f.WriteState(s1, reg.Lookup(s1)))
	require.NoError(t, f.WritePool(s1))

	reg2 := task.NewStateRegistry(tsk)
	loaded, err := bugstore.Load(tsk, reg2, &buf)
	require.NoError(t, err)

	r, ok := loaded.IsKnownBug(s0)
	require.True(t, ok)
	require.Equal(t, bugvalue.Value(3), r.BugValue)
	require.Equal(t, policy.Cost(7), r.UpperCostBound)
	require.True(t, loaded.IsPoolState(s1))
}
