package regions

import (
	"sort"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// disjointSet is a path-compression-plus-union-by-rank union-find over a
// fixed, known-up-front universe of StateIDs, ported from
// prim_kruskal/kruskal.go's map-backed parent/rank idiom.
type disjointSet struct {
	parent map[task.StateID]task.StateID
	rank   map[task.StateID]int
}

func newDisjointSet(ids []task.StateID) *disjointSet {
	d := &disjointSet{
		parent: make(map[task.StateID]task.StateID, len(ids)),
		rank:   make(map[task.StateID]int, len(ids)),
	}
	for _, id := range ids {
		d.parent[id] = id
	}
	return d
}

func (d *disjointSet) find(s task.StateID) task.StateID {
	for d.parent[s] != s {
		d.parent[s] = d.parent[d.parent[s]]
		s = d.parent[s]
	}
	return s
}

func (d *disjointSet) union(a, b task.StateID) {
	rootA, rootB := d.find(a), d.find(b)
	if rootA == rootB {
		return
	}
	if d.rank[rootA] < d.rank[rootB] {
		d.parent[rootA] = rootB
	} else {
		d.parent[rootB] = rootA
		if d.rank[rootA] == d.rank[rootB] {
			d.rank[rootA]++
		}
	}
}

// Compute partitions ids into connected components under operator-
// application adjacency: for each state in the set, every applicable
// operator's successor that is also in the set is unioned with it. Since
// union is symmetric, a single successor-direction pass already captures
// adjacency "in both directions" as required by spec.md §4.10.
//
// Components are returned sorted by their smallest member StateID, and the
// members within each component are sorted, for deterministic output.
func Compute(registry *task.StateRegistry, ids []task.StateID) [][]task.StateID {
	if len(ids) == 0 {
		return nil
	}

	inSet := make(map[task.StateID]struct{}, len(ids))
	for _, id := range ids {
		inSet[id] = struct{}{}
	}

	ds := newDisjointSet(ids)
	for _, id := range ids {
		for _, op := range registry.ApplicableOperators(id) {
			succ := registry.Successor(id, op)
			if _, ok := inSet[succ]; ok {
				ds.union(id, succ)
			}
		}
	}

	byRoot := make(map[task.StateID][]task.StateID)
	for _, id := range ids {
		root := ds.find(id)
		byRoot[root] = append(byRoot[root], id)
	}

	components := make([][]task.StateID, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		components = append(components, members)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}
