// Package heuristic supplies the one built-in Evaluator this repository
// ships: a blind (zero-everywhere) heuristic, so the lookahead search
// (spec.md §4.5 Phase E) and the CLI have something to run without an
// external h^add/h^FF/h^LM-cut implementation wired in. Real heuristics are
// out of scope (spec.md §1) and are consumed through the same Evaluator
// interface by the host application.
package heuristic
