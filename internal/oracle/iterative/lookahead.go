package iterative

import (
	"container/heap"
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Evaluator supplies an admissible-or-not heuristic estimate used to order
// Phase E's best-first search. finite reports whether the estimate is
// usable at all (a dead-end state may have no estimate).
type Evaluator interface {
	Evaluate(ctx context.Context, registry *task.StateRegistry, state task.StateID) (h int, finite bool)
}

// LookaheadComp selects the priority function used to order the best-first
// frontier during Phase E.
type LookaheadComp int

const (
	// CompH orders purely by heuristic estimate (greedy best-first).
	CompH LookaheadComp = iota
	// CompGPlusH orders by g+h (A*-like).
	CompGPlusH
)

// lookaheadItem is one frontier entry, mirroring the teacher's
// dijkstra/dijkstra.go nodeItem: a state, its tentative g-cost from the
// search root, and its heap index for container/heap's fix/update.
type lookaheadItem struct {
	state task.StateID
	g     policy.Cost
	h     int
	index int
}

// lookaheadPQ is a min-heap over priority(g, h), ported from
// dijkstra/dijkstra.go's nodePQ. comp is carried as a field (set once at
// construction in lookaheadSearch) rather than a package-level variable,
// so distinct Oracle instances — and concurrent lookaheadSearch calls
// against distinct heaps — never share mutable state.
type lookaheadPQ struct {
	items []*lookaheadItem
	comp  LookaheadComp
}

func (pq *lookaheadPQ) Len() int { return len(pq.items) }
func (pq *lookaheadPQ) Less(i, j int) bool {
	return pq.priority(pq.items[i]) < pq.priority(pq.items[j])
}
func (pq *lookaheadPQ) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}
func (pq *lookaheadPQ) Push(x any) {
	item := x.(*lookaheadItem)
	item.index = len(pq.items)
	pq.items = append(pq.items, item)
}
func (pq *lookaheadPQ) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	pq.items = old[:n-1]
	return item
}

func (pq *lookaheadPQ) priority(item *lookaheadItem) int64 {
	if pq.comp == CompH {
		return int64(item.h)
	}
	gg := int64(0)
	if item.g.IsFinite() {
		gg = int64(item.g)
	}
	return gg + int64(item.h)
}

// lookaheadSearch implements Phase E: a best-first search rooted at t,
// expanding up to maxLookaheadVisits states ordered by lookaheadComp. Every
// visited non-goal state's own cost-set-inferred upper bound (computed the
// same way as Phase B, but without mutating the index) is combined with
// its g-cost from t and used to tighten upper; a visited goal state
// tightens upper to its g-cost directly.
func (o *Oracle) lookaheadSearch(ctx context.Context, pc *policy.Cache, t task.StateID, upper *policy.Cost) error {
	if o.heuristic == nil || o.maxLookaheadVisits <= 0 {
		return nil
	}

	h0, ok := o.heuristic.Evaluate(ctx, o.registry, t)
	if !ok {
		return nil
	}

	pq := &lookaheadPQ{comp: o.lookaheadComp}
	heap.Init(pq)
	heap.Push(pq, &lookaheadItem{state: t, g: 0, h: h0})
	visited := map[task.StateID]struct{}{t: {}}

	for visits := 0; pq.Len() > 0 && visits < o.maxLookaheadVisits; visits++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		item := heap.Pop(pq).(*lookaheadItem)

		if item.state != t {
			if o.registry.IsGoal(item.state) {
				if policy.IsLess(item.g, *upper) {
					*upper = item.g
				}
			} else if inferred, has := o.inferUpperBound(ctx, item.state); has {
				candidate := policy.AddCost(item.g, inferred)
				if policy.IsLess(candidate, *upper) {
					*upper = candidate
				}
			}
		}

		for _, op := range o.registry.ApplicableOperators(item.state) {
			succ := o.registry.Successor(item.state, op)
			if _, seen := visited[succ]; seen {
				continue
			}
			visited[succ] = struct{}{}
			h, finite := o.heuristic.Evaluate(ctx, o.registry, succ)
			if !finite {
				continue
			}
			heap.Push(pq, &lookaheadItem{
				state: succ,
				g:     policy.AddCost(item.g, policy.Cost(op.Cost)),
				h:     h,
			})
		}
	}
	return nil
}

// inferUpperBound mirrors Phase B's pairwise-tightening walk for a single
// state u, bounded by maxLookaheadComparisons, but never calls
// idx.AddState: it is a read-only probe used only to seed a lookahead
// bound, not a genuine test of u.
func (o *Oracle) inferUpperBound(ctx context.Context, u task.StateID) (policy.Cost, bool) {
	if o.idx.Len() == 0 || o.maxLookaheadComparisons <= 0 {
		return policy.Unsolved, false
	}

	best := policy.Unsolved
	found := false
	seed := o.idx.lowerBoundIndex(policy.Unsolved)
	it := newCostSetIterator(o.idx.SortedCosts(), seed)
	comparisons := 0

	for comparisons < o.maxLookaheadComparisons {
		cost, ok := it.Next()
		if !ok {
			break
		}
		for _, s := range o.idx.States(cost) {
			if comparisons >= o.maxLookaheadComparisons {
				break
			}
			comparisons++
			if err := checkCtx(ctx); err != nil {
				break
			}
			if d := o.dominance.D(s, u); d != dominance.NegativeInfinity {
				candidate := policy.Cost(int64(cost) - d)
				if !found || policy.IsLess(candidate, best) {
					best = candidate
					found = true
				}
			}
		}
	}
	return best, found
}
