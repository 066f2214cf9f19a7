package heuristic

import (
	"context"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Blind is the trivial zero-everywhere Evaluator: every state (goal or
// not) gets estimate 0, so a best-first lookahead search driven by it
// degenerates to an ordinary breadth-first exploration by g-cost. It is
// always finite.
type Blind struct{}

// Evaluate always returns (0, true).
func (Blind) Evaluate(_ context.Context, _ *task.StateRegistry, _ task.StateID) (int, bool) {
	return 0, true
}
