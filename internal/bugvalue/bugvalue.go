// Package bugvalue defines the BugValue lattice: zero means no bug, a
// positive integer is a quantitative bug magnitude, and Unsolved marks a
// qualitative bug (the policy fails on a state that is provably solvable).
//
// Ported from original_source/src/search/policy_testing/bug_value.h.
package bugvalue

import "math"

// Value is a bug magnitude, or one of the two sentinels below.
type Value int64

const (
	// NotApplicable marks "this test does not apply to this state", distinct
	// from a genuine zero (not-a-bug) result. It is never returned from a
	// completed test, only used internally while combining partial results.
	NotApplicable Value = -1

	// Unsolved marks a qualitative bug: the policy fails (NoOp or cycle) on
	// a state known to be solvable.
	Unsolved Value = math.MaxInt32
)

// BestOf joins two bug values: a negative (NotApplicable) operand is the
// identity, otherwise the result is the numeric maximum, with Unsolved
// absorbing since it is larger than every finite magnitude.
func BestOf(left, right Value) Value {
	if left < 0 {
		return right
	}
	if right < 0 {
		return left
	}
	if left > right {
		return left
	}
	return right
}

// IsBug reports whether v represents an actual bug (as opposed to
// NotApplicable or the zero/no-bug value).
func IsBug(v Value) bool {
	return v > 0
}
