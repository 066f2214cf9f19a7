package oracle

import (
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// SubOracle is what CompositeOracle requires of each component oracle: the
// Tester primitive plus its TestDriver configuration (so the composite can
// validate sub-oracle compatibility at construction time).
type SubOracle interface {
	Tester
	ConfigProvider
}

// CompositeOracle runs a fixed list of sub-oracles and combines their
// TestResults with BestOf, as original_source/.../composite_oracle.cc
// does. Construction enforces the §9 Open-Question resolution: it is a
// Configuration error for sub-oracles to disagree on
// ConsiderIntermediateStates, since the composite's own TestDriver can only run one "consider
// intermediate states" pass (it has no way to apply one sub-oracle's
// intermediate-state path to only that sub-oracle and skip it for
// another).
type CompositeOracle struct {
	Base
	subs []SubOracle
}

// NewCompositeOracle validates and constructs a CompositeOracle. The
// composite's own ConsiderIntermediate/ReportParents flags default to true
// iff any sub-oracle requests it.
func NewCompositeOracle(subs []SubOracle) (*CompositeOracle, error) {
	if len(subs) == 0 {
		return nil, perr.New(perr.Configuration, "composite oracle requires at least one sub-oracle")
	}

	considerSeen := map[bool]bool{}
	anyConsider, anyReport := false, false
	for _, s := range subs {
		considerSeen[s.ConsiderIntermediateStates()] = true
		anyConsider = anyConsider || s.ConsiderIntermediateStates()
		anyReport = anyReport || s.ReportParentBugs()
	}
	if len(considerSeen) > 1 {
		return nil, perr.New(perr.Configuration,
			"composite oracle sub-oracles disagree on ConsiderIntermediateStates")
	}

	return &CompositeOracle{
		Base: Base{ConsiderIntermediate: anyConsider, ReportParents: anyReport},
		subs: subs,
	}, nil
}

// Test runs every sub-oracle's primitive Test and combines the results
// with BestOf.
func (c *CompositeOracle) Test(ctx context.Context, pc *policy.Cache, state task.StateID) (TestResult, error) {
	var combined TestResult
	combined.UpperCostBound = policy.Unsolved
	for _, s := range c.subs {
		r, err := s.Test(ctx, pc, state)
		if err != nil {
			return TestResult{}, err
		}
		combined = BestOf(combined, r)
	}
	return combined, nil
}

// TestDriver runs the shared default algorithm against the composite's own
// Test (i.e. against every sub-oracle's combined judgement).
func (c *CompositeOracle) TestDriver(ctx context.Context, eng Engine, pc *policy.Cache, entry pool.Entry) (TestResult, error) {
	return c.Base.TestDriver(ctx, eng, pc, c, entry)
}
