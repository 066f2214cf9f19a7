// Package fuzz implements the FuzzingBias contract and a random-walk test
// generator over a task.StateRegistry, grounded in
// original_source/src/search/policy_testing/fuzzing_bias.h and the
// fuzzing_biases/ directory.
package fuzz

import (
	"math"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// PositiveInfinity and NegativeInfinity are the two sentinel bias values:
// a state biased PositiveInfinity is chosen uniformly among all other
// PositiveInfinity states (ignoring every finite weight); a state biased
// NegativeInfinity is never chosen.
const (
	PositiveInfinity int32 = math.MaxInt32
	NegativeInfinity int32 = math.MinInt32
)

// Bias assigns a fuzzing weight to candidate states and decides whether a
// state can be dropped from consideration outright.
type Bias interface {
	// Weight returns the fuzzing weight of state, given the budget already
	// spent reaching it (interpretation is bias-specific, e.g. steps taken
	// in the current walk).
	Weight(state task.StateID, usedBudget int) int32
	// CanExcludeState reports whether state should never be selected,
	// regardless of its weight (equivalent to forcing NegativeInfinity but
	// checked before weight computation so expensive biases can short
	// circuit).
	CanExcludeState(state task.StateID) bool
}

// Notifier is implemented by biases that want to observe every state
// actually inserted into the pool.
type Notifier interface {
	NotifyInserted(state task.StateID)
}

// BudgetSource is implemented by biases that track how much of a walk's
// budget they have consumed internally (e.g. a policy-based bias counting
// steps to goal).
type BudgetSource interface {
	DetermineUsedBudget() int
}

// NeutralBias assigns every state the same positive weight and never
// excludes; used when no domain-specific bias is configured.
type NeutralBias struct{}

// Weight always returns 1.
func (NeutralBias) Weight(task.StateID, int) int32 { return 1 }

// CanExcludeState always returns false.
func (NeutralBias) CanExcludeState(task.StateID) bool { return false }
