package fuzz

import "github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"

// LoopinessBias penalizes states that the walk (or earlier walks) has
// already visited many times, favouring exploration of genuinely new
// territory over states the policy keeps looping back to.
//
// Grounded in original_source/.../fuzzing_biases/loopiness_bias.cc.
type LoopinessBias struct {
	visits map[task.StateID]int
}

// NewLoopinessBias returns a ready-to-use LoopinessBias.
func NewLoopinessBias() *LoopinessBias {
	return &LoopinessBias{visits: make(map[task.StateID]int)}
}

// Weight returns 1024/(visits+1): 1024 for a never-visited state, decaying
// toward a floor of 1 as the visit count grows; it never reaches zero so a
// fully-looped region can still occasionally be re-explored.
func (b *LoopinessBias) Weight(state task.StateID, _ int) int32 {
	n := b.visits[state]
	weight := int64(1024) / int64(n+1)
	if weight < 1 {
		weight = 1
	}
	return int32(weight)
}

// CanExcludeState never excludes outright; Weight alone handles decay.
func (b *LoopinessBias) CanExcludeState(task.StateID) bool { return false }

// NotifyInserted records that state was chosen, increasing its future
// decay.
func (b *LoopinessBias) NotifyInserted(state task.StateID) {
	b.visits[state]++
}
