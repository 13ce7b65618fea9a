package yield

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlend/rate-engine/internal/raymath"
)

func TestFutureValueZeroPeriods(t *testing.T) {
	principal := ray("100000000000000000000000000000") // 100.0
	rate := ray("100000000000000000000000000")         // 10%

	fv, err := FutureValue(principal, rate, 0)
	require.NoError(t, err)
	assert.True(t, fv.Eq(principal))
	assert.NotSame(t, principal, fv, "result must be a copy, not the caller's value")
}

func TestFutureValueExact(t *testing.T) {
	// 100 at 10% for 2 periods: 121 exactly.
	principal := ray("100000000000000000000000000000")
	rate := ray("100000000000000000000000000")

	fv, err := FutureValue(principal, rate, 2)
	require.NoError(t, err)
	assert.Equal(t, "121000000000000000000000000000", fv.Dec())
}

func TestPresentValueZeroPeriods(t *testing.T) {
	future := ray("121000000000000000000000000000")
	pv, err := PresentValue(future, ray("100000000000000000000000000"), 0)
	require.NoError(t, err)
	assert.True(t, pv.Eq(future))
}

func TestPresentValueInvertsFutureValue(t *testing.T) {
	principal := ray("100000000000000000000000000000")
	rate := ray("3000000000000000000000000") // 0.3% per period

	for _, periods := range []uint64{1, 12, 30, 180, 365} {
		fv, err := FutureValue(principal, rate, periods)
		require.NoError(t, err)

		pv, err := PresentValue(fv, rate, periods)
		require.NoError(t, err)

		diff := new(uint256.Int)
		if pv.Lt(principal) {
			diff.Sub(principal, pv)
		} else {
			diff.Sub(pv, principal)
		}
		assert.True(t, diff.LtUint64(3),
			"round-trip drift at %d periods: %s units", periods, diff.Dec())
	}
}

func TestTimeValuePeriodCap(t *testing.T) {
	principal := ray("100000000000000000000000000000")
	rate := ray("3000000000000000000000000")

	_, err := FutureValue(principal, rate, 366)
	assert.ErrorIs(t, err, raymath.ErrPeriodsTooHigh)

	_, err = PresentValue(principal, rate, 366)
	assert.ErrorIs(t, err, raymath.ErrPeriodsTooHigh)
}
