// Package oracle defines the base Oracle contract from
// original_source/src/search/policy_testing/oracle.h: a TestResult value
// type, the default test_driver algorithm (intermediate-state testing plus
// policy-parent bug propagation), and the minimal Engine surface an oracle
// needs back.
package oracle

import (
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// TestResult is the outcome of testing a policy at a state: a bug
// magnitude and the tightest upper cost bound known for that state.
type TestResult struct {
	BugValue       bugvalue.Value
	UpperCostBound policy.Cost
}

// BestOf combines two results the way every monotone-upgrade path in this
// system must: the numeric max of bug values (Unsolved absorbing), and the
// tighter (numeric min) of the two upper cost bounds.
func BestOf(a, b TestResult) TestResult {
	return TestResult{
		BugValue:       bugvalue.BestOf(a.BugValue, b.BugValue),
		UpperCostBound: policy.MinCost(a.UpperCostBound, b.UpperCostBound),
	}
}

// Engine is the minimal surface an Oracle needs back from its host: the
// bug store's read/upgrade operations. Satisfied by *engine.Engine and by
// *bugstore.Store directly in tests.
type Engine interface {
	IsKnownBug(s task.StateID) (TestResult, bool)
	AddAdditionalBug(s task.StateID, r TestResult) TestResult
}

// Tester is the primitive every concrete oracle must supply; TestDriver is
// implemented once on Base and calls back into Tester rather than any
// oracle subclassing. This mirrors the teacher's preference (see
// prim_kruskal's shared union-find helper across kruskal.go/prim.go) for
// composing small pieces over deep inheritance.
type Tester interface {
	Test(ctx context.Context, pc *policy.Cache, state task.StateID) (TestResult, error)
}

// Base implements the default TestDriver algorithm (§4.4) and is embedded
// by every concrete oracle. It carries the two configuration flags that
// govern that algorithm.
type Base struct {
	// ReportParents, when true, propagates a discovered bug to the state's
	// policy-parents via BFS.
	ReportParents bool
	// ConsiderIntermediate, when true, also tests every state on the
	// policy's executed path from the pool entry (in reverse order),
	// skipping goals and already-known bugs.
	ConsiderIntermediate bool
}

// ReportParentBugs reports the configured ReportParents flag (used by
// CompositeOracle's configuration check via the ConfigProvider interface).
func (b Base) ReportParentBugs() bool { return b.ReportParents }

// ConsiderIntermediateStates reports the configured ConsiderIntermediate
// flag.
func (b Base) ConsiderIntermediateStates() bool { return b.ConsiderIntermediate }

// ConfigProvider exposes an oracle's TestDriver configuration so
// CompositeOracle can check sub-oracles for compatibility without a type
// switch over every concrete oracle kind.
type ConfigProvider interface {
	ReportParentBugs() bool
	ConsiderIntermediateStates() bool
}

// TestDriver runs the default test_driver algorithm against tester for a
// single pool entry: known-bug short-circuit, optional intermediate-state
// testing in reverse path order, then the entry state itself; bug
// propagation to policy-parents happens at each positive result when
// ReportParents is set.
func (b Base) TestDriver(ctx context.Context, eng Engine, pc *policy.Cache, tester Tester, entry pool.Entry) (TestResult, error) {
	if r, ok := eng.IsKnownBug(entry.State); ok {
		return r, nil
	}

	if b.ConsiderIntermediate {
		run, err := pc.ExecuteGetPlanAndPath(ctx, entry.State, 0)
		if err != nil {
			return TestResult{}, err
		}
		for i := len(run.Path) - 1; i >= 0; i-- {
			s := run.Path[i]
			if s == entry.State {
				continue
			}
			if pc.IsGoal(s) {
				continue
			}
			if _, known := eng.IsKnownBug(s); known {
				continue
			}
			r, err := tester.Test(ctx, pc, s)
			if err != nil {
				return TestResult{}, err
			}
			if bugvalue.IsBug(r.BugValue) {
				stored := eng.AddAdditionalBug(s, r)
				if b.ReportParents {
					PropagateToParents(pc, eng, s, stored)
				}
			}
		}
	}

	r, err := tester.Test(ctx, pc, entry.State)
	if err != nil {
		return TestResult{}, err
	}
	if !bugvalue.IsBug(r.BugValue) {
		return r, nil
	}
	stored := eng.AddAdditionalBug(entry.State, r)
	if b.ReportParents {
		PropagateToParents(pc, eng, entry.State, stored)
	}
	return stored, nil
}

// PropagateToParents performs the BFS over the reverse policy graph
// described in §4.4: every policy-parent of state is upgraded towards the
// same bug value (monotonically, via AddAdditionalBug's best_of), with its
// upper cost bound recomputed as child_bound + edge_cost.
func PropagateToParents(pc *policy.Cache, eng Engine, state task.StateID, childResult TestResult) {
	type frontierEntry struct {
		state task.StateID
		bound policy.Cost
	}
	processed := map[task.StateID]struct{}{state: {}}
	queue := []frontierEntry{{state: state, bound: childResult.UpperCostBound}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range pc.GetPolicyParentStates(cur.state) {
			if _, seen := processed[p]; seen {
				continue
			}
			processed[p] = struct{}{}

			edgeCost := policy.Cost(pc.ReadActionCost(p))
			newBound := policy.AddCost(cur.bound, edgeCost)
			stored := eng.AddAdditionalBug(p, TestResult{
				BugValue:       childResult.BugValue,
				UpperCostBound: newBound,
			})
			queue = append(queue, frontierEntry{state: p, bound: stored.UpperCostBound})
		}
	}
}
