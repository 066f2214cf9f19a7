package fuzz_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
)

func TestWeightedChooseAllNegativeInfinityIsUnchosen(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ok := fuzz.WeightedChoose(rng, []int32{fuzz.NegativeInfinity, fuzz.NegativeInfinity})
	require.False(t, ok)
}

func TestWeightedChoosePrefersPositiveInfinityOverFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		idx, ok := fuzz.WeightedChoose(rng, []int32{1000, fuzz.PositiveInfinity, fuzz.NegativeInfinity})
		require.True(t, ok)
		require.Equal(t, 1, idx)
	}
}

func TestWeightedChooseNeverPicksNegativeInfinity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		idx, ok := fuzz.WeightedChoose(rng, []int32{fuzz.NegativeInfinity, 1, fuzz.NegativeInfinity})
		require.True(t, ok)
		require.Equal(t, 1, idx)
	}
}

func TestWeightedChooseZeroSumIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		idx, ok := fuzz.WeightedChoose(rng, []int32{0, 0, 0})
		require.True(t, ok)
		seen[idx] = true
	}
	require.True(t, len(seen) > 1)
}
