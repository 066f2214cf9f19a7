package dominance

import (
	"fmt"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// TableDominance is a dense, row-major n*n matrix of D(s, t) values over a
// contiguous range of StateIDs [0, n). Unset entries default to
// NegativeInfinity, except the diagonal, which defaults to 0 (every state
// trivially dominates itself by exactly 0).
type TableDominance struct {
	n    int
	data []int64
}

// NewTableDominance allocates an n*n table.
func NewTableDominance(n int) (*TableDominance, error) {
	if n <= 0 {
		return nil, perr.New(perr.Configuration, "dominance table size must be > 0")
	}
	data := make([]int64, n*n)
	for i := range data {
		data[i] = NegativeInfinity
	}
	for i := 0; i < n; i++ {
		data[i*n+i] = 0
	}
	return &TableDominance{n: n, data: data}, nil
}

func (t *TableDominance) indexOf(s, tt task.StateID) (int, error) {
	if int(s) < 0 || int(s) >= t.n || int(tt) < 0 || int(tt) >= t.n {
		return 0, perr.New(perr.Configuration, fmt.Sprintf("dominance index (%d,%d) out of bounds for size %d", s, tt, t.n))
	}
	return int(s)*t.n + int(tt), nil
}

// Set records D(s, t) = value.
func (t *TableDominance) Set(s, tt task.StateID, value int64) error {
	idx, err := t.indexOf(s, tt)
	if err != nil {
		return err
	}
	t.data[idx] = value
	return nil
}

// D returns D(s, t), or NegativeInfinity if out of range.
func (t *TableDominance) D(s, tt task.StateID) int64 {
	idx, err := t.indexOf(s, tt)
	if err != nil {
		return NegativeInfinity
	}
	return t.data[idx]
}

// Size returns n, the number of states the table covers.
func (t *TableDominance) Size() int { return t.n }

// MinimalFiniteValue returns the minimum over every finite entry in the
// table (NegativeInfinity entries excluded), or 0 for a table that holds
// no finite value other than the trivial self-dominance diagonal.
func (t *TableDominance) MinimalFiniteValue() int64 {
	min := int64(0)
	for _, v := range t.data {
		if v != NegativeInfinity && v < min {
			min = v
		}
	}
	return min
}
