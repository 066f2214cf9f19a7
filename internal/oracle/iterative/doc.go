// Package iterative implements IterativeImprovementOracle, the hardest
// component of the system: a comparison-based oracle that maintains a
// partition of tested states into cost sets keyed by their current upper
// cost bound, tightens bounds pairwise against a numeric dominance
// relation, propagates tightened bounds to policy-parents, and optionally
// runs a best-first lookahead search to find even tighter bounds.
//
// Grounded in full in
// original_source/src/search/policy_testing/metamorphic_oracles/iterative_improvement_oracle.{h,cc}.
// See costset.go for the costSetIndex/CostSetIterator machinery, oracle.go
// for the Test algorithm (Phases A-D), and lookahead.go for Phase E.
package iterative
