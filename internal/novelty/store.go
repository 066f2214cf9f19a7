// Package novelty implements the width-k novelty store: for arities
// k = 1..maxArity, a set of observed value tuples per k-subset of
// variables, encoded as a single integer via per-variable strides and a
// per-subset offset table.
//
// Ported field-for-field from
// original_source/src/search/policy_testing/novelty_store.cc, including
// its VarsetIterator combinatorial enumerator.
package novelty

// varsetIterator enumerates all k-subsets of {0, ..., numVars-1} in
// lexicographic order, odometer-style.
type varsetIterator struct {
	vars    []int
	numVars int
	idx     int
}

func newVarsetIterator(numVars, varsetSize int) *varsetIterator {
	v := &varsetIterator{vars: make([]int, varsetSize), numVars: numVars}
	for i := range v.vars {
		v.vars[i] = i
	}
	return v
}

func (v *varsetIterator) current() []int { return v.vars }

func (v *varsetIterator) next() bool {
	i := len(v.vars) - 1
	for i >= 0 {
		v.vars[i]++
		if v.vars[i] != v.numVars-(len(v.vars)-i-1) {
			break
		}
		i--
	}
	if i < 0 {
		return false
	}
	i++
	for ; i < len(v.vars); i++ {
		v.vars[i] = v.vars[i-1] + 1
	}
	v.idx++
	return true
}

// Store is the width-k novelty table.
type Store struct {
	maxArity int
	domains  []int
	offsets  [][]uint64         // per arity: offset per varset index
	factSets []map[uint64]int32 // per arity: factset-hash -> observation count
}

// NewStore builds a Store for the given per-variable domain sizes, capped
// at maxArity (clamped to the number of variables).
func NewStore(maxArity int, domains []int) *Store {
	arity := maxArity
	if len(domains) < arity {
		arity = len(domains)
	}
	s := &Store{
		maxArity: arity,
		domains:  append([]int(nil), domains...),
		offsets:  make([][]uint64, arity),
		factSets: make([]map[uint64]int32, arity),
	}
	for i := 0; i < arity; i++ {
		s.factSets[i] = make(map[uint64]int32)
		var offset uint64
		it := newVarsetIterator(len(domains), i+1)
		s.offsets[i] = append(s.offsets[i], 0)
		for {
			vars := it.current()
			var product uint64 = 1
			for j := i; j >= 0; j-- {
				product *= uint64(domains[vars[j]])
			}
			offset += product
			s.offsets[i] = append(s.offsets[i], offset)
			if !it.next() {
				break
			}
		}
	}
	return s
}

// ComputeNovelty returns the smallest k (1-indexed) at which values is
// novel, or 0 if every tuple up to maxArity has already been observed.
func (s *Store) ComputeNovelty(values []int) int {
	for i := 0; i < s.maxArity; i++ {
		it := newVarsetIterator(len(s.domains), i+1)
		for {
			vars := it.current()
			res := s.offsets[i][it.idx]
			var product uint64 = 1
			for j := 0; j <= i; j++ {
				res += product * uint64(values[vars[j]])
				product *= uint64(s.domains[vars[j]])
			}
			if _, ok := s.factSets[i][res]; !ok {
				return i + 1
			}
			if !it.next() {
				break
			}
		}
	}
	return 0
}

// Insert records every tuple (up to maxArity) observed in values, and
// reports whether at least one was new.
func (s *Store) Insert(values []int) bool {
	novel := false
	for i := 0; i < s.maxArity; i++ {
		it := newVarsetIterator(len(s.domains), i+1)
		for {
			vars := it.current()
			res := s.offsets[i][it.idx]
			var product uint64 = 1
			for j := 0; j <= i; j++ {
				res += product * uint64(values[vars[j]])
				product *= uint64(s.domains[vars[j]])
			}
			if _, ok := s.factSets[i][res]; !ok {
				s.factSets[i][res] = 1
				novel = true
			} else {
				s.factSets[i][res]++
			}
			if !it.next() {
				break
			}
		}
	}
	return novel
}

// HasUniqueFactSet reports whether values' tuple at the given arity
// (1-indexed) has been observed exactly once.
func (s *Store) HasUniqueFactSet(values []int, arity int) bool {
	it := newVarsetIterator(len(s.domains), arity)
	for {
		vars := it.current()
		res := s.offsets[arity-1][it.idx]
		var product uint64 = 1
		for j := 0; j < arity; j++ {
			res += product * uint64(values[vars[j]])
			product *= uint64(s.domains[vars[j]])
		}
		if count, ok := s.factSets[arity-1][res]; ok && count == 1 {
			return true
		}
		if !it.next() {
			break
		}
	}
	return false
}

// Size returns the number of distinct tuples observed at the given arity
// (1-indexed).
func (s *Store) Size(arity int) int { return len(s.factSets[arity-1]) }

// Arity returns the effective max arity (after clamping to variable count).
func (s *Store) Arity() int { return s.maxArity }

// Filter adapts a Store to pool.Filter.
type Filter struct {
	Store *Store
}

// Accept reports whether values introduces at least one new tuple.
func (f Filter) Accept(values []int) bool { return f.Store.Insert(values) }
