package fuzz

import (
	"math/rand"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Generator performs biased random walks over a task.StateRegistry,
// appending newly-discovered states to a pool.Pool.
//
// Grounded in original_source/.../fuzzer.cc's random-walk test generation
// loop (spec.md §4.2), using the teacher's functional-options pattern
// (core/types.go's GraphOption) for construction.
type Generator struct {
	registry *task.StateRegistry
	bias     Bias
	rng      *rand.Rand

	maxWalkLength int
	biasBudget    int
	filter        pool.Filter

	deadEnds map[task.StateID]struct{}
}

// GeneratorOption configures a Generator at construction time.
type GeneratorOption func(*Generator)

// WithMaxWalkLength bounds the number of steps taken per walk (0 = unbounded;
// without this option the bound is 1000).
func WithMaxWalkLength(n int) GeneratorOption {
	return func(g *Generator) { g.maxWalkLength = n }
}

// WithBiasBudget sets the base budget for Bias.Weight; each step passes this
// base plus the number of steps already taken in the walk.
func WithBiasBudget(n int) GeneratorOption {
	return func(g *Generator) { g.biasBudget = n }
}

// WithFilter installs a pool.Filter; states the filter rejects are still
// used to continue the walk but are not appended to the pool.
func WithFilter(f pool.Filter) GeneratorOption {
	return func(g *Generator) { g.filter = f }
}

// NewGenerator constructs a Generator. rng must be an explicitly-seeded
// source (never rand's shared global source), per the deterministic-replay
// requirement.
func NewGenerator(registry *task.StateRegistry, bias Bias, rng *rand.Rand, opts ...GeneratorOption) *Generator {
	g := &Generator{
		registry:      registry,
		bias:          bias,
		rng:           rng,
		maxWalkLength: 1000,
		deadEnds:      make(map[task.StateID]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Walk performs a single biased random walk of up to maxWalkLength steps
// starting at start, appending every accepted state to p with a
// back-reference to the pool index it was generated from (refIndex = -1
// for start itself). It returns the number of steps actually taken.
//
// Candidate successors exclude goal states and states previously
// discovered to be dead ends (no applicable operators, recorded across
// every Walk call on this Generator), as well as anything the bias
// excludes (spec.md §4.2); if every successor is excluded this way, the
// current state is itself recorded as a dead end and the walk aborts.
func (g *Generator) Walk(p *pool.Pool, start task.StateID) int {
	rootIdx := p.Add(-1, 0, start)
	if g.filter != nil {
		g.filter.Accept(g.registry.Lookup(start))
	}

	cur := start
	curIdx := rootIdx
	steps := 0
	for ; g.maxWalkLength == 0 || steps < g.maxWalkLength; steps++ {
		ops := g.registry.ApplicableOperators(cur)
		if len(ops) == 0 {
			g.deadEnds[cur] = struct{}{}
			break
		}

		successors := make([]task.StateID, 0, len(ops))
		weights := make([]int32, 0, len(ops))
		for _, op := range ops {
			succ := g.registry.Successor(cur, op)
			if g.registry.IsGoal(succ) {
				continue
			}
			if _, dead := g.deadEnds[succ]; dead {
				continue
			}
			if g.bias.CanExcludeState(succ) {
				continue
			}
			successors = append(successors, succ)
			weights = append(weights, g.bias.Weight(succ, g.biasBudget+steps))
		}
		if len(successors) == 0 {
			g.deadEnds[cur] = struct{}{}
			break
		}

		choice, ok := WeightedChoose(g.rng, weights)
		if !ok {
			g.deadEnds[cur] = struct{}{}
			break
		}
		next := successors[choice]

		accepted := g.filter == nil || g.filter.Accept(g.registry.Lookup(next))
		if accepted {
			nextIdx := p.Add(curIdx, steps+1, next)
			if notifier, ok := g.bias.(Notifier); ok {
				notifier.NotifyInserted(next)
			}
			curIdx = nextIdx
		}
		cur = next
	}
	return steps
}
