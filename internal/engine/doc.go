// Package engine implements the TestEngine step loop (spec.md §4.7): it
// drives pool growth (via internal/fuzz), oracle invocation (via the
// oracle.Driver contract), bug-store updates (internal/bugstore), and the
// final region-extraction pass (internal/regions).
//
// Grounded in spec.md §4.7's step() pseudocode and the behavioural
// description of original_source/src/search/policy_testing/engines/
// testing_base_engine.h/.cc named there (no line-by-line C++ is available
// for this component beyond the specification prose, so the spec's
// pseudocode is the primary ground truth, per SPEC_FULL.md's own note on
// this package).
package engine
