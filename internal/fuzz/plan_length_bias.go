package fuzz

import (
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// PlanLengthBias weights candidate states by the policy's estimated
// remaining plan length, so the fuzzer spends more of its budget on states
// the policy expects a long way from the goal (where bugs are more likely
// to have accumulated) and treats states the policy cannot solve at all as
// maximally interesting.
//
// Grounded in original_source/.../fuzzing_biases/plan_length_bias.cc.
type PlanLengthBias struct {
	Cache   *policy.Cache
	Ctx     context.Context
	StepCap int // passed to LazyComputePolicyCost; 0 = unbounded
}

// Weight returns the policy's lazily-computed cost bound for state, or
// PositiveInfinity if the policy cannot solve it.
func (b *PlanLengthBias) Weight(state task.StateID, _ int) int32 {
	ctx := b.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cost, err := b.Cache.LazyComputePolicyCost(ctx, state, policy.Unknown, b.StepCap)
	if err != nil {
		return 1
	}
	switch {
	case cost == policy.Unsolved:
		return PositiveInfinity
	case cost == policy.Unknown:
		return 1
	case cost <= 0:
		return 1
	case int64(cost) > int64(PositiveInfinity-1):
		return PositiveInfinity - 1
	default:
		return int32(cost)
	}
}

// CanExcludeState never excludes; even policy dead ends are worth testing.
func (b *PlanLengthBias) CanExcludeState(task.StateID) bool { return false }
