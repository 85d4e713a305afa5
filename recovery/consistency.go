package recovery

import (
	"math/big"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// ConsistencyReport scores one candidate subset against the full share set.
type ConsistencyReport struct {
	// SecretAt0 is the candidate polynomial's value at x=0, or nil when that
	// value is not an integer (such a polynomial cannot be the secret
	// polynomial, whose constant term is the integer secret).
	SecretAt0 *big.Int

	// ConsistentCount is the number of shares, subset members included, that
	// lie exactly on the candidate polynomial.
	ConsistentCount int

	// OutlierIndices lists the x values of shares that do not lie on the
	// candidate polynomial, in share-set order.
	OutlierIndices []int
}

// evaluateConsistency interpolates the polynomial defined by subset and
// checks every share in all against it, using exact rational comparison.
// Pure function: neither slice is modified. Returns ErrDuplicateAbscissa if
// the subset contains two shares with the same x.
func evaluateConsistency(subset []interfaces.Share, all []interfaces.Share) (*ConsistencyReport, error) {
	report := &ConsistencyReport{}

	secret, err := lagrangeAt(subset, 0)
	if err != nil {
		return nil, err
	}
	if secret.IsInt() {
		report.SecretAt0 = new(big.Int).Set(secret.Num())
	}

	for _, share := range all {
		value, err := lagrangeAt(subset, int64(share.X))
		if err != nil {
			return nil, err
		}
		if value.IsInt() && value.Num().Cmp(share.Y) == 0 {
			report.ConsistentCount++
		} else {
			report.OutlierIndices = append(report.OutlierIndices, share.X)
		}
	}

	return report, nil
}
