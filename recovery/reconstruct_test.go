package recovery

import (
	"context"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

func newTestSet(t *testing.T, threshold int, shares ...interfaces.Share) *interfaces.ShareSet {
	t.Helper()
	set, err := interfaces.NewShareSet(shares, threshold)
	require.NoError(t, err, "test share set should be valid")
	return set
}

func TestReconstruct_CleanShares(t *testing.T) {
	// Points (1,3), (2,5), (3,7) all lie on y = 2x + 1 with k = 2.
	set := newTestSet(t, 2, share(1, 3), share(2, 5), share(3, 7))

	result, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "1", result.Secret.String(), "secret is the constant term")
	assert.Empty(t, result.OutlierIndices, "no outliers among clean shares")
	assert.Equal(t, 3, result.MaxConsistent, "every share agrees")
	assert.Equal(t, uint64(3), result.SubsetsEvaluated, "C(3,2) subsets evaluated")
}

func TestReconstruct_CorruptedShare(t *testing.T) {
	// Same polynomial, share at x=3 corrupted.
	set := newTestSet(t, 2, share(1, 3), share(2, 5), share(3, 99))

	result, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "1", result.Secret.String(), "consensus still recovers the secret")
	assert.Equal(t, 2, result.MaxConsistent)
	assert.Equal(t, []int{3}, result.OutlierIndices, "the corrupted share is flagged")
}

func TestReconstruct_CubicWithLargeSecret(t *testing.T) {
	// y = 7x^3 - 5x^2 + 13x + secret, sampled at x = 1..8, k = 4, with two
	// corrupted shares. Six clean shares remain, so the genuine consensus
	// strictly dominates any subset containing a corrupted share.
	secret, _ := new(big.Int).SetString("8675309867530986753098675309867530986753", 10)
	eval := func(x int64) *big.Int {
		xb := big.NewInt(x)
		v := new(big.Int).Mul(big.NewInt(7), new(big.Int).Exp(xb, big.NewInt(3), nil))
		v.Sub(v, new(big.Int).Mul(big.NewInt(5), new(big.Int).Mul(xb, xb)))
		v.Add(v, new(big.Int).Mul(big.NewInt(13), xb))
		return v.Add(v, secret)
	}

	shares := make([]interfaces.Share, 0, 8)
	for x := int64(1); x <= 8; x++ {
		shares = append(shares, interfaces.Share{X: int(x), Y: eval(x)})
	}
	// Corrupt x=2 and x=5.
	shares[1].Y = big.NewInt(12345)
	shares[4].Y = new(big.Int).Add(shares[4].Y, big.NewInt(1))

	set := newTestSet(t, 4, shares...)
	result, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Secret.Cmp(secret), "the six clean shares form the consensus")
	assert.Equal(t, 6, result.MaxConsistent)
	assert.Equal(t, []int{2, 5}, result.OutlierIndices)
}

func TestReconstruct_ThresholdEqualsCount(t *testing.T) {
	// k = n evaluates exactly one subset, the full set.
	set := newTestSet(t, 3, share(1, 3), share(2, 5), share(3, 7))

	result, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.SubsetsEvaluated, "k=n means a single subset")
	assert.Equal(t, "1", result.Secret.String())
	assert.Equal(t, 3, result.MaxConsistent)
}

func TestReconstruct_ThresholdOne(t *testing.T) {
	// k = 1: each share alone defines a degree-0 polynomial.
	set := newTestSet(t, 1, share(1, 5), share(2, 5), share(4, 5))

	result, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "5", result.Secret.String(), "the constant is each share's value")
	assert.Equal(t, 3, result.MaxConsistent)
	assert.Empty(t, result.OutlierIndices)
}

func TestReconstruct_InsufficientConsistency(t *testing.T) {
	// Every pair collides on x, so every subset is skipped and no consensus
	// of size >= k exists. Bypasses ShareSet validation deliberately; the
	// core must handle this without a division fault.
	shares := []interfaces.Share{share(1, 3), share(1, 5), share(1, 7)}

	r := NewReconstructor(slog.Default())
	result, err := r.reconstructSequential(context.Background(), shares, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrInsufficientConsistency)
	require.NotNil(t, result, "failure still carries a structured result")
	assert.Equal(t, "0", result.Secret.String(), "failure reports a zero secret")
	assert.Empty(t, result.OutlierIndices)
	assert.Equal(t, 0, result.MaxConsistent)
}

func TestReconstruct_InvalidThreshold(t *testing.T) {
	shares := []interfaces.Share{share(1, 3), share(2, 5)}

	_, err := interfaces.NewShareSet(shares, 3)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameters, "k > n rejected at the boundary")

	_, err = interfaces.NewShareSet(shares, 0)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameters, "k < 1 rejected at the boundary")
}

func TestReconstruct_Deterministic(t *testing.T) {
	set := newTestSet(t, 2, share(1, 3), share(2, 5), share(3, 99), share(4, 9))

	r := NewReconstructor(nil)
	first, err := r.Reconstruct(context.Background(), set)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := r.Reconstruct(context.Background(), set)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical inputs yield identical results")
	}
}

func TestReconstruct_ParallelMatchesSequential(t *testing.T) {
	// y = 3x^2 - 2x + 77 at x = 1..9 with two corrupted shares.
	eval := func(x int64) *big.Int {
		return big.NewInt(3*x*x - 2*x + 77)
	}
	shares := make([]interfaces.Share, 0, 9)
	for x := int64(1); x <= 9; x++ {
		shares = append(shares, interfaces.Share{X: int(x), Y: eval(x)})
	}
	shares[2].Y = big.NewInt(-1)
	shares[6].Y = big.NewInt(0)

	set := newTestSet(t, 3, shares...)

	sequential, err := NewReconstructor(nil).Reconstruct(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "77", sequential.Secret.String())
	assert.Equal(t, 7, sequential.MaxConsistent)
	assert.Equal(t, []int{3, 7}, sequential.OutlierIndices)

	for _, workers := range []int{2, 3, 8, 200} {
		parallel, err := NewReconstructor(nil).SetWorkers(workers).Reconstruct(context.Background(), set)
		require.NoError(t, err, "parallel reconstruction with %d workers", workers)
		assert.Equal(t, sequential, parallel,
			"parallel search must match the sequential result exactly (%d workers)", workers)
	}
}

func TestReconstruct_ContextCancellation(t *testing.T) {
	set := newTestSet(t, 2, share(1, 3), share(2, 5), share(3, 7))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReconstructor(nil).Reconstruct(ctx, set)
	assert.ErrorIs(t, err, context.Canceled, "cancellation is honored between subset evaluations")

	_, err = NewReconstructor(nil).SetWorkers(4).Reconstruct(ctx, set)
	assert.ErrorIs(t, err, context.Canceled, "parallel search honors cancellation too")
}
