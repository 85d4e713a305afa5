package recovery

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// collectAll drains a generator into a slice of subsets.
func collectAll(t *testing.T, gen *CombinationGenerator) [][]int {
	t.Helper()
	var all [][]int
	for {
		subset, ok := gen.Next()
		if !ok {
			return all
		}
		all = append(all, subset)
	}
}

// lexLess reports whether a < b in lexicographic order.
func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestCombinationGenerator_Exhaustive(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for k := 0; k <= n; k++ {
			gen, err := NewCombinationGenerator(n, k)
			require.NoError(t, err, "generator for n=%d k=%d should be valid", n, k)

			all := collectAll(t, gen)
			assert.Equal(t, CombinationCount(n, k).Int64(), int64(len(all)),
				"should emit C(%d,%d) subsets", n, k)

			for i, subset := range all {
				require.Len(t, subset, k, "every subset has k elements")
				for j := 1; j < len(subset); j++ {
					assert.Less(t, subset[j-1], subset[j], "indices strictly increasing")
				}
				if k > 0 {
					assert.GreaterOrEqual(t, subset[0], 0)
					assert.Less(t, subset[k-1], n)
				}
				if i > 0 {
					assert.True(t, lexLess(all[i-1], subset),
						"subsets emitted in lexicographic order (n=%d k=%d pos=%d)", n, k, i)
				}
			}
		}
	}
}

func TestCombinationGenerator_Counts(t *testing.T) {
	tests := []struct {
		n, k  int
		count int64
	}{
		{12, 6, 924},
		{20, 2, 190},
		{20, 19, 20},
		{20, 10, 184756},
	}

	for _, tt := range tests {
		gen, err := NewCombinationGenerator(tt.n, tt.k)
		require.NoError(t, err)

		var got int64
		for {
			if _, ok := gen.Next(); !ok {
				break
			}
			got++
		}
		assert.Equal(t, tt.count, got, "C(%d,%d)", tt.n, tt.k)
		assert.Equal(t, tt.count, CombinationCount(tt.n, tt.k).Int64())
	}
}

func TestCombinationGenerator_EdgeCases(t *testing.T) {
	// k = 0 yields exactly one empty subset.
	gen, err := NewCombinationGenerator(5, 0)
	require.NoError(t, err)
	subset, ok := gen.Next()
	assert.True(t, ok, "k=0 should yield one subset")
	assert.Empty(t, subset, "the k=0 subset is empty")
	_, ok = gen.Next()
	assert.False(t, ok, "k=0 yields exactly one subset")

	// k = n yields exactly the full index set.
	gen, err = NewCombinationGenerator(4, 4)
	require.NoError(t, err)
	subset, ok = gen.Next()
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1, 2, 3}, subset)
	_, ok = gen.Next()
	assert.False(t, ok, "k=n yields exactly one subset")

	// k > n is a parameter violation.
	_, err = NewCombinationGenerator(3, 5)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameters, "k > n should be rejected")

	_, err = NewCombinationGenerator(-1, 0)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameters, "negative n should be rejected")
}

func TestCombinationGenerator_Reset(t *testing.T) {
	gen, err := NewCombinationGenerator(6, 3)
	require.NoError(t, err)

	first := collectAll(t, gen)
	gen.Reset()
	second := collectAll(t, gen)

	assert.Equal(t, first, second, "generator should be restartable")
}

func TestCombinationAtRank(t *testing.T) {
	gen, err := NewCombinationGenerator(7, 3)
	require.NoError(t, err)

	all := collectAll(t, gen)
	for rank, want := range all {
		got := combinationAtRank(7, 3, big.NewInt(int64(rank)))
		assert.Equal(t, want, got, "unranking should match enumeration at rank %d", rank)
	}
}

func TestShardRange_CoversRankSpace(t *testing.T) {
	total := CombinationCount(9, 4) // 126

	for _, workers := range []int{1, 2, 3, 5, 126} {
		next := big.NewInt(0)
		sum := big.NewInt(0)
		for w := 0; w < workers; w++ {
			start, count := shardRange(total, workers, w)
			assert.Equal(t, 0, start.Cmp(next), "shard %d/%d should start where the previous ended", w, workers)
			next = new(big.Int).Add(start, count)
			sum.Add(sum, count)
		}
		assert.Equal(t, 0, sum.Cmp(total), "shards should cover all %s ranks for %d workers", total, workers)
	}
}
