package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// Reconstructor drives the exhaustive subset search over a share set.
//
// The reconstructor itself is stateless between runs; the same instance may
// be reused for any number of share sets. Progress events (new best subset,
// canonical subset found, skipped subsets) are emitted at debug level on the
// configured logger, so callers that want an event stream attach a handler
// and callers that don't pay nothing.
type Reconstructor struct {
	log     *slog.Logger
	workers int
}

// NewReconstructor creates a reconstructor logging to the provided logger.
// A nil logger falls back to slog.Default.
func NewReconstructor(log *slog.Logger) *Reconstructor {
	if log == nil {
		log = slog.Default()
	}
	return &Reconstructor{log: log, workers: 1}
}

// SetWorkers configures how many goroutines evaluate subsets. Values below 2
// select the sequential search. The parallel search returns results
// bit-identical to the sequential one.
func (r *Reconstructor) SetWorkers(workers int) *Reconstructor {
	if workers < 1 {
		workers = 1
	}
	r.workers = workers
	return r
}

// Reconstruct recovers the secret protected by the share set.
//
// Every size-k subset of shares is interpolated and scored by how many of
// the n shares lie exactly on its polynomial. The first subset found to
// agree with all n shares becomes canonical and its constant term is the
// reported secret; if no subset agrees with everything, the secret and
// outliers of the highest-scoring subset are reported instead. Subsets
// containing duplicate x values are skipped.
//
// On success the result carries the secret, the ascending 1-based indices of
// disagreeing shares, and the size of the largest consensus. When no subset
// reaches a consensus of at least k shares, Reconstruct returns a zero-secret
// result together with an error wrapping ErrInsufficientConsistency.
//
// The context is checked between subset evaluations; reconstruction is
// otherwise deterministic, identical inputs always produce identical results.
func (r *Reconstructor) Reconstruct(ctx context.Context, set *interfaces.ShareSet) (*interfaces.Result, error) {
	shares := set.Shares()
	n := len(shares)
	k := set.Threshold()
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: threshold %d out of range for %d shares", interfaces.ErrInvalidParameters, k, n)
	}

	r.log.Debug("Starting reconstruction",
		slog.Int("shares", n),
		slog.Int("threshold", k),
		slog.String("subsets", CombinationCount(n, k).String()),
		slog.Int("workers", r.workers))

	if r.workers > 1 {
		return r.reconstructParallel(ctx, shares, k)
	}
	return r.reconstructSequential(ctx, shares, k)
}

func (r *Reconstructor) reconstructSequential(ctx context.Context, shares []interfaces.Share, k int) (*interfaces.Result, error) {
	n := len(shares)
	gen, err := NewCombinationGenerator(n, k)
	if err != nil {
		return nil, err
	}

	var (
		evaluated       uint64
		bestCount       = -1
		bestSecret      *big.Int
		bestOutliers    []int
		canonical       []int
		canonicalSecret *big.Int
		flipOutliers    bool
	)

	buf := make([]interfaces.Share, k)
	for {
		subset, ok := gen.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, idx := range subset {
			buf[i] = shares[idx]
		}

		report, err := evaluateConsistency(buf, shares)
		if err != nil {
			if errors.Is(err, interfaces.ErrDuplicateAbscissa) {
				// Distinct share indices with colliding x values; rejected
				// upstream normally, skipped here.
				r.log.Debug("Skipping subset with duplicate abscissa", slog.Any("subset", subset))
				continue
			}
			return nil, err
		}
		evaluated++

		if report.SecretAt0 == nil {
			r.log.Debug("Subset constant term not integral", slog.Any("subset", subset))
			continue
		}

		if report.ConsistentCount > bestCount {
			bestCount = report.ConsistentCount
			bestSecret = report.SecretAt0
			bestOutliers = report.OutlierIndices
			r.log.Debug("New best subset",
				slog.Any("subset", subset),
				slog.Int("consistent", report.ConsistentCount))
		}

		if canonical == nil {
			if report.ConsistentCount == n {
				canonical = subset
				canonicalSecret = report.SecretAt0
				r.log.Debug("Canonical subset found", slog.Any("subset", subset))
			}
		} else if report.SecretAt0.Cmp(canonicalSecret) != 0 {
			// A subset disagreeing with a full consensus marks everything
			// outside the canonical subset as suspect.
			flipOutliers = true
		}
	}

	return r.finishReconstruction(shares, k, evaluated, bestCount, bestSecret, bestOutliers, canonical, canonicalSecret, flipOutliers)
}

// finishReconstruction turns the search bookkeeping into a Result, shared by
// the sequential and parallel paths.
func (r *Reconstructor) finishReconstruction(shares []interfaces.Share, k int, evaluated uint64, bestCount int, bestSecret *big.Int, bestOutliers []int, canonical []int, canonicalSecret *big.Int, flipOutliers bool) (*interfaces.Result, error) {
	if bestCount < k || bestSecret == nil {
		if bestCount < 0 {
			bestCount = 0
		}
		result := &interfaces.Result{
			Secret:           new(big.Int),
			MaxConsistent:    bestCount,
			SubsetsEvaluated: evaluated,
		}
		return result, fmt.Errorf("%w: best consensus %d below threshold %d", interfaces.ErrInsufficientConsistency, bestCount, k)
	}

	secret := bestSecret
	outliers := bestOutliers
	if canonical != nil {
		secret = canonicalSecret
		outliers = nil
		if flipOutliers {
			outliers = complementIndices(shares, canonical)
		}
	}

	sorted := append([]int{}, outliers...)
	sort.Ints(sorted)

	r.log.Info("Reconstruction complete",
		slog.Int("maxConsistent", bestCount),
		slog.Int("outliers", len(sorted)),
		slog.Uint64("subsetsEvaluated", evaluated))

	return &interfaces.Result{
		Secret:           new(big.Int).Set(secret),
		OutlierIndices:   sorted,
		MaxConsistent:    bestCount,
		SubsetsEvaluated: evaluated,
	}, nil
}

// complementIndices returns the x values of every share whose position is
// not in the subset.
func complementIndices(shares []interfaces.Share, subset []int) []int {
	member := make(map[int]struct{}, len(subset))
	for _, idx := range subset {
		member[idx] = struct{}{}
	}
	var out []int
	for i, share := range shares {
		if _, ok := member[i]; !ok {
			out = append(out, share.X)
		}
	}
	return out
}
