package task

import (
	"strconv"
	"strings"
	"sync"
)

// StateRegistry interns state value-vectors by value and hands out dense,
// monotone StateIDs. Interning never removes or renumbers an existing
// entry.
//
// The registry carries a sync.RWMutex even though the core engine loop is
// strictly single-threaded (SPEC_FULL.md §5): the ambient remote-policy
// watchdog goroutine may read state values concurrently with the core loop
// for logging/health-check purposes. It never interns new states itself.
type StateRegistry struct {
	mu      sync.RWMutex
	task    *Task
	byKey   map[string]StateID
	values  [][]int
	initial StateID
}

// NewStateRegistry creates a registry for task and immediately interns its
// initial state.
func NewStateRegistry(t *Task) *StateRegistry {
	r := &StateRegistry{
		task:  t,
		byKey: make(map[string]StateID),
	}
	r.initial = r.Intern(t.Initial)
	return r
}

func key(values []int) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Intern returns the existing StateID for values if already seen, else
// allocates and returns a new one.
func (r *StateRegistry) Intern(values []int) StateID {
	k := key(values)

	r.mu.RLock()
	if id, ok := r.byKey[k]; ok {
		r.mu.RUnlock()
		return id
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[k]; ok {
		return id
	}
	stored := make([]int, len(values))
	copy(stored, values)
	id := StateID(len(r.values))
	r.values = append(r.values, stored)
	r.byKey[k] = id
	return id
}

// Lookup returns the value-vector for id. The returned slice must not be
// mutated by the caller.
func (r *StateRegistry) Lookup(id StateID) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[id]
}

// Size returns the number of interned states.
func (r *StateRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

// InitialState returns the StateID of the task's initial state.
func (r *StateRegistry) InitialState() StateID { return r.initial }

// Successor interns and returns the state obtained by applying op to id.
func (r *StateRegistry) Successor(id StateID, op *Operator) StateID {
	values := r.Lookup(id)
	return r.Intern(op.Apply(values))
}

// IsGoal reports whether id satisfies the task's goal.
func (r *StateRegistry) IsGoal(id StateID) bool {
	return r.task.IsGoal(r.Lookup(id))
}

// ApplicableOperators returns the operators applicable in state id.
func (r *StateRegistry) ApplicableOperators(id StateID) []*Operator {
	return r.task.ApplicableOperators(r.Lookup(id))
}

// Task returns the underlying immutable task.
func (r *StateRegistry) Task() *Task { return r.task }
