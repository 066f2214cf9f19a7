// Package policy implements the PolicyCost lattice, the sorted
// policy-parent edge list, and the Policy cache (memoised action/cost per
// state).
//
// Grounded in original_source/src/search/policy_testing/policy.h (the
// PolicyCost type and Policy class) and the teacher's
// dijkstra/dijkstra.go "runner" struct pattern (mutable per-run state
// wrapped in a struct with methods).
package policy

// Cost is a value in {Unknown, Unsolved} ∪ ℕ₀.
type Cost int64

const (
	// Unknown means the policy cost has not yet been determined (the step
	// limit was hit before any terminating condition).
	Unknown Cost = -2
	// Unsolved means the policy provably never reaches a goal from this
	// state (NoOp surrender or a detected cycle).
	Unsolved Cost = -1
)

// IsFinite reports whether c is a concrete, finite cost value.
func (c Cost) IsFinite() bool { return c >= 0 }

// MinCost implements the lattice's minimisation: Unknown absorbs everything,
// Unsolved acts as the identity for min among non-Unknown operands,
// otherwise ordinary numeric minimum.
func MinCost(a, b Cost) Cost {
	if a == Unknown || b == Unknown {
		return Unknown
	}
	if a == Unsolved {
		return b
	}
	if b == Unsolved {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// AddCost implements lattice addition: Unknown absorbs, Unsolved absorbs
// (once unsolved, always unsolved), otherwise ordinary sum.
func AddCost(a, b Cost) Cost {
	if a == Unknown || b == Unknown {
		return Unknown
	}
	if a == Unsolved || b == Unsolved {
		return Unsolved
	}
	return a + b
}

// IsLess implements the lattice's strict ordering: finite a < finite b by
// numeric comparison, finite < Unsolved, and everything else (any operand
// Unknown, or Unsolved vs Unsolved) is false.
func IsLess(a, b Cost) bool {
	if a == Unknown || b == Unknown {
		return false
	}
	if a == Unsolved {
		return false
	}
	if b == Unsolved {
		return true
	}
	return a < b
}
