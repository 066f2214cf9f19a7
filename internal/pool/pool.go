// Package pool implements the ordered, append-only set of test-candidate
// states with back-references (an ancestor-forest rooted at the initial
// state), plus its on-disk file format and pluggable filters (e.g.
// novelty).
//
// Grounded in original_source/src/search/policy_testing/pool.h/.cc.
package pool

import "github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"

// Entry is one pool member: a back-reference to the ancestor entry it was
// generated from (RefIndex == -1 for the root/initial state), the number
// of fuzzing steps taken to reach it, and the interned state itself.
type Entry struct {
	RefIndex int // index into the Pool, or -1
	Steps    int
	State    task.StateID
}

// Pool is the append-only, ordered collection of pool entries.
type Pool struct {
	entries []Entry
}

// New creates an empty Pool.
func New() *Pool { return &Pool{} }

// Add appends a new entry and returns its index.
func (p *Pool) Add(refIndex, steps int, state task.StateID) int {
	p.entries = append(p.entries, Entry{RefIndex: refIndex, Steps: steps, State: state})
	return len(p.entries) - 1
}

// Len returns the number of pool entries.
func (p *Pool) Len() int { return len(p.entries) }

// Entry returns the entry at index i.
func (p *Pool) Entry(i int) Entry { return p.entries[i] }

// RefState returns the ancestor state of the entry at index i, or
// task.NoState if i is a root entry.
func (p *Pool) RefState(i int) task.StateID {
	ref := p.entries[i].RefIndex
	if ref < 0 {
		return task.NoState
	}
	return p.entries[ref].State
}

// States returns the StateID of every pool entry, in pool order.
func (p *Pool) States() []task.StateID {
	out := make([]task.StateID, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.State
	}
	return out
}

// Filter decides whether a newly-generated state should actually be kept
// in the pool (e.g. novelty filtering).
type Filter interface {
	Accept(values []int) bool
}
