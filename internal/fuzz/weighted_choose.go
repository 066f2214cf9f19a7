package fuzz

import "math/rand"

// WeightedChoose picks one index into weights, proportional to weight.
// Any PositiveInfinity-weighted entries are chosen uniformly among
// themselves, ignoring every finite weight. NegativeInfinity-weighted
// entries are never chosen. If every entry is NegativeInfinity, ok is
// false.
//
// Grounded in original_source/.../fuzzing_bias.h's weighted_choose, with
// one deliberate correction: the finite-weight proportional draw operates
// only over the finite subset, rather than iterating the raw weight
// vector (which in the original would let an interleaved
// NEGATIVE_INFINITY entry corrupt the running sample).
func WeightedChoose(rng *rand.Rand, weights []int32) (index int, ok bool) {
	var infIdx []int
	for i, w := range weights {
		if w == PositiveInfinity {
			infIdx = append(infIdx, i)
		}
	}
	if len(infIdx) > 0 {
		return infIdx[rng.Intn(len(infIdx))], true
	}

	var finiteIdx []int
	var finiteW []int64
	var sum int64
	for i, w := range weights {
		if w == NegativeInfinity {
			continue
		}
		finiteIdx = append(finiteIdx, i)
		finiteW = append(finiteW, int64(w))
		sum += int64(w)
	}
	if len(finiteIdx) == 0 {
		return 0, false
	}
	if sum <= 0 {
		return finiteIdx[rng.Intn(len(finiteIdx))], true
	}

	sample := rng.Int63n(sum)
	for i, w := range finiteW {
		if sample < w {
			return finiteIdx[i], true
		}
		sample -= w
	}
	return finiteIdx[len(finiteIdx)-1], true
}
