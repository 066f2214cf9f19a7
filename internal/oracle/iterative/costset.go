package iterative

import (
	"sort"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// costLess implements the lattice order used to keep cost-set keys
// sorted: finite costs ascending, Unsolved last, mirroring policy.IsLess
// but total (so it can order-sort, not just strictly-compare).
func costLess(a, b policy.Cost) bool {
	if a == policy.Unsolved {
		return false
	}
	if b == policy.Unsolved {
		return true
	}
	return a < b
}

// costSetIndex is the sorted-vector-index-over-(cost,bucket) realisation
// of the source's deque<StateSet> + sorted set_refs vector (spec.md's
// Design Notes §9): a sorted list of distinct costs currently present,
// each mapping to the bucket of states sharing that upper cost bound, plus
// a reverse state -> cost map for O(1) membership lookup.
type costSetIndex struct {
	sortedCosts []policy.Cost
	buckets     map[policy.Cost][]task.StateID
	memberCost  map[task.StateID]policy.Cost
}

func newCostSetIndex() *costSetIndex {
	return &costSetIndex{
		buckets:    make(map[policy.Cost][]task.StateID),
		memberCost: make(map[task.StateID]policy.Cost),
	}
}

// lowerBoundIndex returns the index of the first present cost >= c (the
// insertion point for c), per the lattice order.
func (idx *costSetIndex) lowerBoundIndex(c policy.Cost) int {
	return sort.Search(len(idx.sortedCosts), func(i int) bool {
		return !costLess(idx.sortedCosts[i], c)
	})
}

// CostOf returns the current upper cost bound of s, if s is a member of
// any cost set.
func (idx *costSetIndex) CostOf(s task.StateID) (policy.Cost, bool) {
	c, ok := idx.memberCost[s]
	return c, ok
}

// States returns the live bucket of states sharing cost c. Callers that
// need to iterate while potentially mutating the index (via AddState on
// one of the very states being iterated) must copy this slice first.
func (idx *costSetIndex) States(c policy.Cost) []task.StateID {
	return idx.buckets[c]
}

// SortedCosts returns the current sorted distinct cost keys. Callers that
// iterate this while the index may be concurrently mutated (e.g. via
// AddState moving a state between buckets) should treat it as a snapshot
// taken at call time; per spec.md §5 this is safe because this package's
// own phases never mutate costSetIndex from more than one logical step at
// a time.
func (idx *costSetIndex) SortedCosts() []policy.Cost {
	return append([]policy.Cost(nil), idx.sortedCosts...)
}

// Len returns the total number of tested states currently indexed.
func (idx *costSetIndex) Len() int { return len(idx.memberCost) }

// AddState is the atomic "remove-then-add" cost-set transition from
// spec.md's cost-set-entry state machine: if s was already a member of
// some bucket, it is removed first, then (re)inserted into the bucket for
// cost, creating that bucket (in sorted position) if necessary.
func (idx *costSetIndex) AddState(s task.StateID, cost policy.Cost) {
	idx.removeIfPresent(s)

	i := idx.lowerBoundIndex(cost)
	if i == len(idx.sortedCosts) || idx.sortedCosts[i] != cost {
		idx.sortedCosts = append(idx.sortedCosts, policy.Unsolved)
		copy(idx.sortedCosts[i+1:], idx.sortedCosts[i:])
		idx.sortedCosts[i] = cost
	}
	idx.buckets[cost] = append(idx.buckets[cost], s)
	idx.memberCost[s] = cost
}

func (idx *costSetIndex) removeIfPresent(s task.StateID) {
	old, ok := idx.memberCost[s]
	if !ok {
		return
	}
	bucket := idx.buckets[old]
	for i, st := range bucket {
		if st == s {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	delete(idx.memberCost, s)
	if len(bucket) == 0 {
		delete(idx.buckets, old)
		i := idx.lowerBoundIndex(old)
		idx.sortedCosts = append(idx.sortedCosts[:i], idx.sortedCosts[i+1:]...)
		return
	}
	idx.buckets[old] = bucket
}

// CostSetIterator walks the sorted cost keys outward from a seed index,
// alternating forward and backward, ported from
// iterative_improvement_oracle.h's forward/backward std::reverse_iterator
// pair. Once one side is exhausted the iterator keeps draining the other;
// it ends with forward==true, matching the source's documented end-state
// invariant.
type CostSetIterator struct {
	costs   []policy.Cost
	fwd     int
	bwd     int
	forward bool
}

func newCostSetIterator(costs []policy.Cost, seed int) *CostSetIterator {
	return &CostSetIterator{costs: costs, fwd: seed, bwd: seed - 1, forward: true}
}

// Next returns the next cost key to visit, or ok=false once both
// directions are exhausted.
func (it *CostSetIterator) Next() (policy.Cost, bool) {
	for {
		hasFwd := it.fwd < len(it.costs)
		hasBwd := it.bwd >= 0
		if !hasFwd && !hasBwd {
			it.forward = true
			return policy.Unsolved, false
		}
		if it.forward && hasFwd {
			c := it.costs[it.fwd]
			it.fwd++
			it.forward = false
			return c, true
		}
		if !it.forward && hasBwd {
			c := it.costs[it.bwd]
			it.bwd--
			it.forward = true
			return c, true
		}
		it.forward = hasFwd
	}
}
