package interfaces

import (
	"errors"
	"fmt"
	"math/big"
)

// Reconstruction error kinds. Callers are expected to match these with
// errors.Is; the packages producing them wrap them with additional context.
var (
	// ErrInvalidParameters indicates a threshold or share index that violates
	// the scheme's preconditions (k < 1, k > n, non-positive or duplicate x).
	ErrInvalidParameters = errors.New("invalid reconstruction parameters")

	// ErrDuplicateAbscissa indicates two interpolation points sharing an x
	// value. This is a data integrity violation that should have been
	// rejected at parse time; the core reports it instead of dividing by zero.
	ErrDuplicateAbscissa = errors.New("duplicate abscissa in interpolation points")

	// ErrInsufficientConsistency indicates that no threshold-sized subset of
	// shares reached a consensus of at least threshold agreeing shares.
	ErrInsufficientConsistency = errors.New("no consistent share subset found")

	// ErrMalformedDocument indicates a share-set document that could not be
	// decoded into a valid ShareSet.
	ErrMalformedDocument = errors.New("malformed share-set document")
)

// Share is one sample of the secret polynomial: the value Y the polynomial
// takes at the positive abscissa X. X doubles as the share's 1-based index
// within its set.
type Share struct {
	X int
	Y *big.Int
}

// ShareSet is an immutable, ordered collection of shares together with the
// reconstruction threshold K. Any K genuine shares determine the secret
// polynomial; the set may additionally contain corrupted shares.
type ShareSet struct {
	shares    []Share
	threshold int
}

// NewShareSet validates and builds a share set. It enforces the scheme's
// preconditions: 1 <= k <= n, every x positive, all x pairwise distinct,
// every y present. The input slice is copied; the caller may reuse it.
func NewShareSet(shares []Share, threshold int) (*ShareSet, error) {
	n := len(shares)
	if threshold < 1 || threshold > n {
		return nil, fmt.Errorf("%w: threshold %d out of range for %d shares", ErrInvalidParameters, threshold, n)
	}

	seen := make(map[int]struct{}, n)
	for _, share := range shares {
		if share.X < 1 {
			return nil, fmt.Errorf("%w: share index %d is not positive", ErrInvalidParameters, share.X)
		}
		if share.Y == nil {
			return nil, fmt.Errorf("%w: share %d has no value", ErrInvalidParameters, share.X)
		}
		if _, dup := seen[share.X]; dup {
			return nil, fmt.Errorf("%w: duplicate share index %d", ErrInvalidParameters, share.X)
		}
		seen[share.X] = struct{}{}
	}

	copied := make([]Share, n)
	for i, share := range shares {
		copied[i] = Share{X: share.X, Y: new(big.Int).Set(share.Y)}
	}

	return &ShareSet{shares: copied, threshold: threshold}, nil
}

// Shares returns the shares in document order. The returned slice is shared;
// callers must not modify it.
func (s *ShareSet) Shares() []Share {
	return s.shares
}

// Count returns the number of shares in the set.
func (s *ShareSet) Count() int {
	return len(s.shares)
}

// Threshold returns the minimum number of genuine shares required to
// determine the secret polynomial.
func (s *ShareSet) Threshold() int {
	return s.threshold
}

// Result is the outcome of a reconstruction run.
type Result struct {
	// Secret is the recovered constant term of the secret polynomial, or
	// zero when reconstruction failed.
	Secret *big.Int

	// OutlierIndices lists, in ascending order, the 1-based indices of
	// shares that disagree with the consensus polynomial. Empty when every
	// share is consistent or when reconstruction failed.
	OutlierIndices []int

	// MaxConsistent is the highest number of shares found to lie on any
	// single candidate polynomial, over all evaluated subsets.
	MaxConsistent int

	// SubsetsEvaluated counts the candidate subsets that were scored.
	SubsetsEvaluated uint64
}
