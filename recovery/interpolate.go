package recovery

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// ErrNonIntegerResult indicates an interpolated value whose exact rational
// form has a denominator greater than one. Points sampled from an
// integer-coefficient polynomial never produce it; arbitrary point subsets
// can.
var ErrNonIntegerResult = errors.New("interpolated value is not an integer")

// lagrangeAt evaluates the unique degree-(len(points)-1) polynomial through
// the given points at x = atX, exactly.
//
// The Lagrange sum is accumulated as a big.Rat: each basis term contributes
// y_j * prod(atX - x_i) / prod(x_j - x_i) over i != j, and the terms are
// combined over a common denominator rather than divided individually.
// Returns ErrDuplicateAbscissa when two points share an x value.
func lagrangeAt(points []interfaces.Share, atX int64) (*big.Rat, error) {
	at := big.NewInt(atX)
	sum := new(big.Rat)

	for j, pj := range points {
		num := big.NewInt(1)
		den := big.NewInt(1)
		xj := big.NewInt(int64(pj.X))

		for i, pi := range points {
			if i == j {
				continue
			}
			if pi.X == pj.X {
				return nil, fmt.Errorf("%w: x=%d", interfaces.ErrDuplicateAbscissa, pi.X)
			}
			xi := big.NewInt(int64(pi.X))
			num.Mul(num, new(big.Int).Sub(at, xi))
			den.Mul(den, new(big.Int).Sub(xj, xi))
		}

		num.Mul(num, pj.Y)
		sum.Add(sum, new(big.Rat).SetFrac(num, den))
	}

	return sum, nil
}

// InterpolateAt evaluates the polynomial defined by the given points at
// x = atX and reduces the exact rational result to an integer. For any k
// points lying on one degree-(k-1) integer-coefficient polynomial this
// returns the exact value that polynomial takes at atX; at atX = 0 that is
// the scheme's secret. Returns ErrNonIntegerResult when the value is not an
// integer and ErrDuplicateAbscissa when two points share an x.
func InterpolateAt(points []interfaces.Share, atX int64) (*big.Int, error) {
	value, err := lagrangeAt(points, atX)
	if err != nil {
		return nil, err
	}
	if !value.IsInt() {
		return nil, fmt.Errorf("%w: %s at x=%d", ErrNonIntegerResult, value.RatString(), atX)
	}
	return new(big.Int).Set(value.Num()), nil
}
