// Package dominance implements the external numeric-dominance contract
// D(s, t) <= h*(t) - h*(s) and a dense table-backed store for it, plus a
// zlib-compressed binary wire format.
//
// Grounded in spec.md §4.3 (the contract is external to this repo; only
// its storage and serialisation are implemented) and the teacher's
// matrix/dense.go row-major dense matrix.
package dominance

import "github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"

// NegativeInfinity is the sentinel meaning "s does not dominate t at all".
const NegativeInfinity int64 = -1 << 62

// Relation is the external numeric-dominance contract: D(s, t) must never
// exceed h*(t) - h*(s) for any admissible heuristic h*, but this package
// does not and cannot check that; it only stores and serves values a
// caller has already computed.
type Relation interface {
	D(s, t task.StateID) int64

	// MinimalFiniteValue returns a lower bound on every finite D value the
	// relation holds (spec.md §4.3), used by bias functions that need to
	// shift dominance-derived weights into non-negative territory.
	MinimalFiniteValue() int64
}
