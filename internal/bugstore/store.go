package bugstore

import (
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Store is the in-memory bug log: a StateID -> oracle.TestResult map with
// monotone upgrade (spec.md §9 Open Question #1: this diverges from the
// source's strictly-greater-only upgrade and always applies
// oracle.BestOf, narrowing UpperCostBound even when BugValue is unchanged
// — see DESIGN.md).
type Store struct {
	results map[task.StateID]oracle.TestResult
	// pool marks which states were also pool entries, so a bug on such a
	// state gets a "pool" record in the bug file (spec.md §4.7).
	pool map[task.StateID]struct{}
	// order preserves first-insertion order for deterministic file replay.
	order []task.StateID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		results: make(map[task.StateID]oracle.TestResult),
		pool:    make(map[task.StateID]struct{}),
	}
}

// IsKnownBug reports whether s has a stored result, returning it if so.
// Implements oracle.Engine.
func (s *Store) IsKnownBug(id task.StateID) (oracle.TestResult, bool) {
	r, ok := s.results[id]
	return r, ok
}

// AddAdditionalBug monotonically upgrades the stored result for id via
// oracle.BestOf and returns the (possibly unchanged) stored value.
// Implements oracle.Engine.
func (s *Store) AddAdditionalBug(id task.StateID, r oracle.TestResult) oracle.TestResult {
	existing, ok := s.results[id]
	if !ok {
		s.results[id] = r
		s.order = append(s.order, id)
		return r
	}
	combined := oracle.BestOf(existing, r)
	s.results[id] = combined
	return combined
}

// MarkPool records that id was also inserted into the pool (queried via
// IsPoolState when the bug file's "pool" records are written).
func (s *Store) MarkPool(id task.StateID) { s.pool[id] = struct{}{} }

// IsPoolState reports whether id was ever marked via MarkPool.
func (s *Store) IsPoolState(id task.StateID) bool {
	_, ok := s.pool[id]
	return ok
}

// BugStates returns every StateID with an actual bug (BugValue > 0 or
// Unsolved), in first-insertion order.
func (s *Store) BugStates() []task.StateID {
	var out []task.StateID
	for _, id := range s.order {
		if r := s.results[id]; bugIsReal(r) {
			out = append(out, id)
		}
	}
	return out
}

func bugIsReal(r oracle.TestResult) bool {
	return r.BugValue > 0
}

// Len returns the number of distinct states with a stored result.
func (s *Store) Len() int { return len(s.results) }
