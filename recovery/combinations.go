package recovery

import (
	"fmt"
	"math/big"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// CombinationGenerator enumerates all k-element subsets of {0, ..., n-1} in
// lexicographic order. The enumeration is a pure function of (n, k): it is
// finite, duplicate-free, and restartable via Reset.
//
// The generator advances an explicit index array (the classic next-combination
// algorithm) instead of recursing, so enumeration depth is independent of k.
type CombinationGenerator struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// NewCombinationGenerator creates a generator for all C(n, k) subsets.
// Returns ErrInvalidParameters when k < 0, n < 0, or k > n.
func NewCombinationGenerator(n, k int) (*CombinationGenerator, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("%w: cannot choose %d of %d", interfaces.ErrInvalidParameters, k, n)
	}
	g := &CombinationGenerator{n: n, k: k}
	g.Reset()
	return g, nil
}

// newCombinationGeneratorAt creates a generator whose first emitted subset is
// start, which must be a strictly increasing k-element subset of {0..n-1}.
// Used to resume enumeration mid-sequence when sharding the rank space.
func newCombinationGeneratorAt(n, k int, start []int) *CombinationGenerator {
	g := &CombinationGenerator{n: n, k: k, idx: make([]int, k)}
	copy(g.idx, start)
	return g
}

// Reset rewinds the generator to the first subset.
func (g *CombinationGenerator) Reset() {
	g.idx = make([]int, g.k)
	for i := range g.idx {
		g.idx[i] = i
	}
	g.started = false
	g.done = false
}

// Next returns the next subset as a freshly allocated, strictly increasing
// index slice. The second return value is false once the enumeration is
// exhausted.
func (g *CombinationGenerator) Next() ([]int, bool) {
	if g.done {
		return nil, false
	}
	if !g.started {
		g.started = true
		return append([]int{}, g.idx...), true
	}
	if !g.advance() {
		g.done = true
		return nil, false
	}
	return append([]int{}, g.idx...), true
}

// advance steps idx to its lexicographic successor. Returns false at the end
// of the sequence.
func (g *CombinationGenerator) advance() bool {
	i := g.k - 1
	for i >= 0 && g.idx[i] == g.n-g.k+i {
		i--
	}
	if i < 0 {
		return false
	}
	g.idx[i]++
	for j := i + 1; j < g.k; j++ {
		g.idx[j] = g.idx[j-1] + 1
	}
	return true
}

// CombinationCount returns C(n, k), the number of subsets the generator will
// emit.
func CombinationCount(n, k int) *big.Int {
	return new(big.Int).Binomial(int64(n), int64(k))
}

// combinationAtRank returns the subset at the given zero-based position in
// the lexicographic enumeration (combinatorial number system unranking).
// rank must satisfy 0 <= rank < C(n, k).
func combinationAtRank(n, k int, rank *big.Int) []int {
	idx := make([]int, 0, k)
	r := new(big.Int).Set(rank)
	next := 0
	for i := 0; i < k; i++ {
		for {
			// Subsets starting with `next` at this position cover
			// C(n-next-1, k-i-1) ranks.
			span := new(big.Int).Binomial(int64(n-next-1), int64(k-i-1))
			if r.Cmp(span) < 0 {
				break
			}
			r.Sub(r, span)
			next++
		}
		idx = append(idx, next)
		next++
	}
	return idx
}
