package main

import (
	"context"
	"time"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// dialTimeout bounds the initial WebSocket handshake to a remote policy
// server; it does not bound individual Apply round trips (those inherit
// the caller's context deadline).
const dialTimeout = 10 * time.Second

// greedyLocalPolicy is the built-in stand-in policy used when no
// --remote-policy is given: it always takes the first applicable
// operator, or surrenders (NoOp) at a dead end. It exists purely so the
// CLI has something runnable out of the box (SPEC_FULL.md §1's note on
// the blind heuristic applies equally to the CLI's default policy); it is
// not meant to be a policy worth testing in its own right.
type greedyLocalPolicy struct {
	registry *task.StateRegistry
}

func (g greedyLocalPolicy) Apply(_ context.Context, s task.StateID) (policy.CachedAction, error) {
	ops := g.registry.ApplicableOperators(s)
	if len(ops) == 0 {
		return policy.CachedAction{Kind: policy.ActionNoOp}, nil
	}
	return policy.CachedAction{Kind: policy.ActionOp, Op: ops[0].ID}, nil
}
