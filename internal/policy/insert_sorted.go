package policy

import (
	"sort"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// InsertSorted inserts v into the sorted, de-duplicated list, returning the
// (possibly reallocated) result. Ported from Policy::insert_sorted's
// std::lower_bound-based idiom (original_source/.../policy.h).
func InsertSorted(list []task.StateID, v task.StateID) []task.StateID {
	idx := sort.Search(len(list), func(i int) bool { return list[i] >= v })
	if idx < len(list) && list[idx] == v {
		return list
	}
	list = append(list, task.NoState)
	copy(list[idx+1:], list[idx:])
	list[idx] = v
	return list
}
