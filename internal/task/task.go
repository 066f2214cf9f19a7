// Package task defines the immutable finite-domain representation (FDR) of
// a planning task, the dense StateID handle, and the StateRegistry that
// interns state value-vectors.
//
// Grounded in original_source/src/search/abstract_task.h (task shape),
// original_source/src/search/operator.h (operator shape with prevail
// conditions, effects, and conditional effects), and the mutex-guarded
// map-backed registry idiom used throughout the teacher's core/types.go.
package task

import "fmt"

// StateID is a dense, monotone handle into a StateRegistry. Ids are never
// reused; NoState denotes absence.
type StateID int64

// NoState is the sentinel denoting "no such state" (StateID::NONE in the
// original).
const NoState StateID = -1

// FactPair names a single (variable, value) fact.
type FactPair struct {
	Var int
	Val int
}

// Variable describes one finite-domain variable: its name, ordered domain
// size, and (optionally) human-readable fact names for each value.
type Variable struct {
	Name       string
	DomainSize int
	FactNames  []string // len == DomainSize, may be nil (falls back to numeric names)
}

// FactName returns a human-readable name for (var, val), defaulting to a
// numeric rendering if no names were supplied.
func (v Variable) FactName(val int) string {
	if val >= 0 && val < len(v.FactNames) && v.FactNames[val] != "" {
		return v.FactNames[val]
	}
	return fmt.Sprintf("%s=%d", v.Name, val)
}

// CondEffect is a single conditional-effect clause: effect-condition
// (partial assignment) guarding an effect on Var.
type CondEffect struct {
	CondVars []int
	CondVals []int
	Var      int
	Pre      int // -1 if the effect has no precondition on Var
	Post     int
}

// Applicable reports whether this conditional effect triggers in state.
func (c CondEffect) Applicable(state []int) bool {
	for i, v := range c.CondVars {
		if state[v] != c.CondVals[i] {
			return false
		}
	}
	return true
}

// Operator is a ground FDR operator: a cost, a set of prevail conditions
// (preconditions on variables the operator does not change), and a set of
// (possibly conditional) effects.
type Operator struct {
	ID      int
	Name    string
	Cost    int
	Prevail []FactPair
	Effects []CondEffect
}

// IsApplicable reports whether o's preconditions (prevail conditions, and
// each effect's own precondition fact when present) hold in state.
func (o Operator) IsApplicable(state []int) bool {
	for _, p := range o.Prevail {
		if state[p.Var] != p.Val {
			return false
		}
	}
	for _, e := range o.Effects {
		if e.Pre >= 0 && state[e.Var] != e.Pre {
			return false
		}
	}
	return true
}

// Apply returns the successor value-vector obtained by applying o's
// effects to state. state is not modified.
func (o Operator) Apply(state []int) []int {
	next := make([]int, len(state))
	copy(next, state)
	for _, e := range o.Effects {
		if e.Applicable(state) {
			next[e.Var] = e.Post
		}
	}
	return next
}

// Task is the immutable FDR planning task: variables, ground operators,
// axioms (cost-0 derivation rules), the initial state, and the goal
// (partial assignment).
type Task struct {
	Variables []Variable
	Operators []Operator
	Axioms    []Operator
	Initial   []int
	Goal      []FactPair
}

// NumVariables returns the number of finite-domain variables.
func (t *Task) NumVariables() int { return len(t.Variables) }

// VariableDomainSize returns the domain size of variable v.
func (t *Task) VariableDomainSize(v int) int { return t.Variables[v].DomainSize }

// FactName returns the human-readable name of fact f.
func (t *Task) FactName(f FactPair) string { return t.Variables[f.Var].FactName(f.Val) }

// IsGoal reports whether state satisfies every goal fact.
func (t *Task) IsGoal(state []int) bool {
	for _, g := range t.Goal {
		if state[g.Var] != g.Val {
			return false
		}
	}
	return true
}

// ApplicableOperators returns the operators applicable in state, in a
// deterministic order (operator index order, matching the task's ground
// operator list — see SPEC_FULL.md §5 ordering guarantees).
func (t *Task) ApplicableOperators(state []int) []*Operator {
	var ops []*Operator
	for i := range t.Operators {
		if t.Operators[i].IsApplicable(state) {
			ops = append(ops, &t.Operators[i])
		}
	}
	return ops
}
