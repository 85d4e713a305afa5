package recovery

import (
	"context"
	"errors"
	"log/slog"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// shardOutcome is one worker's view of its contiguous slice of the
// lexicographic rank space.
type shardOutcome struct {
	evaluated     uint64
	bestCount     int
	bestRank      *big.Int
	bestSecret    *big.Int
	bestOutliers  []int
	canonicalRank *big.Int
	canonical     []int
	canonicalSec  *big.Int
}

// reconstructParallel shards the subset enumeration across workers and
// merges their local bests deterministically: highest consistent count wins,
// ties broken by the lower lexicographic rank, which reproduces the
// sequential search's first-strict-maximum behavior exactly.
func (r *Reconstructor) reconstructParallel(ctx context.Context, shares []interfaces.Share, k int) (*interfaces.Result, error) {
	n := len(shares)
	total := CombinationCount(n, k)

	workers := r.workers
	if total.IsInt64() && total.Int64() < int64(workers) {
		workers = int(total.Int64())
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]shardOutcome, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		start, count := shardRange(total, workers, w)
		g.Go(func() error {
			outcome, err := r.evaluateShard(gctx, shares, k, start, count)
			if err != nil {
				return err
			}
			outcomes[w] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := shardOutcome{bestCount: -1}
	for _, o := range outcomes {
		merged.evaluated += o.evaluated
		if o.bestCount > merged.bestCount ||
			(o.bestCount == merged.bestCount && o.bestRank != nil && (merged.bestRank == nil || o.bestRank.Cmp(merged.bestRank) < 0)) {
			merged.bestCount = o.bestCount
			merged.bestRank = o.bestRank
			merged.bestSecret = o.bestSecret
			merged.bestOutliers = o.bestOutliers
		}
		if o.canonicalRank != nil && (merged.canonicalRank == nil || o.canonicalRank.Cmp(merged.canonicalRank) < 0) {
			merged.canonicalRank = o.canonicalRank
			merged.canonical = o.canonical
			merged.canonicalSec = o.canonicalSec
		}
	}

	// A full-consensus polynomial passes through every share, so every other
	// valid subset interpolates the same polynomial; no later subset can
	// disagree with the canonical secret under exact arithmetic.
	return r.finishReconstruction(shares, k, merged.evaluated, merged.bestCount, merged.bestSecret, merged.bestOutliers, merged.canonical, merged.canonicalSec, false)
}

// evaluateShard walks count subsets starting at the given lexicographic rank.
func (r *Reconstructor) evaluateShard(ctx context.Context, shares []interfaces.Share, k int, start, count *big.Int) (shardOutcome, error) {
	n := len(shares)
	outcome := shardOutcome{bestCount: -1}
	if count.Sign() <= 0 {
		return outcome, nil
	}

	gen := newCombinationGeneratorAt(n, k, combinationAtRank(n, k, start))
	rank := new(big.Int).Set(start)
	remaining := new(big.Int).Set(count)
	one := big.NewInt(1)

	buf := make([]interfaces.Share, k)
	for remaining.Sign() > 0 {
		subset, ok := gen.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		for i, idx := range subset {
			buf[i] = shares[idx]
		}

		report, err := evaluateConsistency(buf, shares)
		if err != nil {
			if errors.Is(err, interfaces.ErrDuplicateAbscissa) {
				r.log.Debug("Skipping subset with duplicate abscissa", slog.Any("subset", subset))
				rank = new(big.Int).Add(rank, one)
				remaining.Sub(remaining, one)
				continue
			}
			return outcome, err
		}
		outcome.evaluated++

		if report.SecretAt0 != nil {
			if report.ConsistentCount > outcome.bestCount {
				outcome.bestCount = report.ConsistentCount
				outcome.bestRank = rank
				outcome.bestSecret = report.SecretAt0
				outcome.bestOutliers = report.OutlierIndices
			}
			if outcome.canonicalRank == nil && report.ConsistentCount == n {
				outcome.canonicalRank = rank
				outcome.canonical = subset
				outcome.canonicalSec = report.SecretAt0
			}
		}

		rank = new(big.Int).Add(rank, one)
		remaining.Sub(remaining, one)
	}

	return outcome, nil
}

// shardRange splits the rank space [0, total) into `workers` contiguous
// ranges, distributing the remainder to the lowest-numbered shards.
func shardRange(total *big.Int, workers, w int) (start, count *big.Int) {
	wBig := big.NewInt(int64(workers))
	base, rem := new(big.Int).DivMod(total, wBig, new(big.Int))

	idx := big.NewInt(int64(w))
	extra := new(big.Int).Set(idx)
	if extra.Cmp(rem) > 0 {
		extra.Set(rem)
	}

	start = new(big.Int).Mul(base, idx)
	start.Add(start, extra)

	count = new(big.Int).Set(base)
	if idx.Cmp(rem) < 0 {
		count.Add(count, big.NewInt(1))
	}
	return start, count
}
