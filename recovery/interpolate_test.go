package recovery

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

func share(x int, y int64) interfaces.Share {
	return interfaces.Share{X: x, Y: big.NewInt(y)}
}

func shareStr(t *testing.T, x int, y string) interfaces.Share {
	t.Helper()
	v, ok := new(big.Int).SetString(y, 10)
	require.True(t, ok, "test value %q should parse", y)
	return interfaces.Share{X: x, Y: v}
}

func TestInterpolateAt_Line(t *testing.T) {
	// y = 2x + 1
	points := []interfaces.Share{share(1, 3), share(2, 5)}

	secret, err := InterpolateAt(points, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), secret.Int64(), "constant term of y=2x+1")

	value, err := InterpolateAt(points, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), value.Int64(), "y=2x+1 at x=5")
}

func TestInterpolateAt_SinglePoint(t *testing.T) {
	// A single point defines a degree-0 polynomial.
	points := []interfaces.Share{share(7, 42)}

	for _, atX := range []int64{0, 1, 100} {
		value, err := InterpolateAt(points, atX)
		require.NoError(t, err)
		assert.Equal(t, int64(42), value.Int64(), "degree-0 polynomial is constant at x=%d", atX)
	}
}

func TestInterpolateAt_LargeCoefficients(t *testing.T) {
	// y = a*x^2 + b*x + c with coefficients far beyond 64 bits.
	a, _ := new(big.Int).SetString("987654321098765432109876543210", 10)
	b, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	c, _ := new(big.Int).SetString("31415926535897932384626433832795028841971", 10)

	eval := func(x int64) *big.Int {
		xb := big.NewInt(x)
		v := new(big.Int).Mul(a, new(big.Int).Mul(xb, xb))
		v.Add(v, new(big.Int).Mul(b, xb))
		return v.Add(v, c)
	}

	points := []interfaces.Share{
		{X: 1, Y: eval(1)},
		{X: 2, Y: eval(2)},
		{X: 5, Y: eval(5)},
	}

	secret, err := InterpolateAt(points, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, secret.Cmp(c), "constant term should be recovered exactly")

	value, err := InterpolateAt(points, 11)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Cmp(eval(11)), "interpolation is exact at any abscissa")
}

func TestInterpolateAt_DuplicateAbscissa(t *testing.T) {
	points := []interfaces.Share{share(1, 3), share(1, 5), share(2, 7)}

	_, err := InterpolateAt(points, 0)
	assert.ErrorIs(t, err, interfaces.ErrDuplicateAbscissa,
		"shared x must surface as a structured error, not a division fault")
}

func TestInterpolateAt_NonIntegerValue(t *testing.T) {
	// The polynomial through (1,1), (2,2), (4,5) takes the value 1/3 at x=0.
	// Per-term truncating division would silently return a wrong integer
	// here; the exact accumulator refuses instead.
	points := []interfaces.Share{share(1, 1), share(2, 2), share(4, 5)}

	_, err := InterpolateAt(points, 0)
	assert.ErrorIs(t, err, ErrNonIntegerResult)

	value, err := lagrangeAt(points, 0)
	require.NoError(t, err)
	assert.Equal(t, "1/3", value.RatString(), "exact rational value is preserved internally")
}

func TestEvaluateConsistency(t *testing.T) {
	// y = 2x + 1 with the third share corrupted.
	all := []interfaces.Share{share(1, 3), share(2, 5), share(3, 99)}
	subset := []interfaces.Share{all[0], all[1]}

	report, err := evaluateConsistency(subset, all)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.SecretAt0.Int64())
	assert.Equal(t, 2, report.ConsistentCount, "subset members lie on their own polynomial")
	assert.Equal(t, []int{3}, report.OutlierIndices, "the corrupted share disagrees")
}

func TestEvaluateConsistency_BigValues(t *testing.T) {
	y1 := shareStr(t, 1, "340282366920938463463374607431768211457")
	y2 := shareStr(t, 2, "680564733841876926926749214863536422913")
	// Both on y = 340282366920938463463374607431768211456*x + 1.
	all := []interfaces.Share{y1, y2}

	report, err := evaluateConsistency(all, all)
	require.NoError(t, err)
	assert.Equal(t, "1", report.SecretAt0.String())
	assert.Equal(t, 2, report.ConsistentCount)
	assert.Empty(t, report.OutlierIndices)
}
