package engine

import (
	"time"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// Statistics is the final statistics block spec.md §7 calls for (one-line
// status prints per step, plus a final block); it is also returned from
// Run for programmatic consumption (e.g. the CLI's run subcommand).
type Statistics struct {
	Steps       int
	PoolSize    int
	Duplicates  int
	DeadEnds    int
	BugCount    int
	Elapsed     time.Duration
	PoolRegions [][]task.StateID
	BugRegions  [][]task.StateID
}
