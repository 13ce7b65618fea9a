package yield

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlend/rate-engine/internal/raymath"
)

func ray(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func TestPerSecondToAPR(t *testing.T) {
	rate := ray("1584407172113525096151")

	apr, err := PerSecondToAPR(rate)
	require.NoError(t, err)

	// Annualization is a plain integer scale-up by 31,557,600.
	expected := new(uint256.Int).Mul(rate, uint256.NewInt(31_557_600))
	assert.True(t, apr.Eq(expected), "apr %s, want %s", apr.Dec(), expected.Dec())
}

func TestPerSecondToAPRZero(t *testing.T) {
	apr, err := PerSecondToAPR(new(uint256.Int))
	require.NoError(t, err)
	assert.True(t, apr.IsZero())
}

func TestAPRToAPYZeroPeriodsFails(t *testing.T) {
	_, err := APRToAPY(ray("50000000000000000000000000"), 0)
	assert.ErrorIs(t, err, raymath.ErrDivideByZero)
}

func TestAPRToAPYPeriodsCapFails(t *testing.T) {
	_, err := APRToAPY(ray("50000000000000000000000000"), 400)
	assert.ErrorIs(t, err, raymath.ErrPeriodsTooHigh)
}

func TestAPRToAPYZeroRate(t *testing.T) {
	for _, periods := range []uint64{1, 12, 52, 365} {
		apy, err := APRToAPY(new(uint256.Int), periods)
		require.NoError(t, err)
		assert.True(t, apy.IsZero(), "apy for 0 apr at %d periods: %s", periods, apy.Dec())
	}
}

func TestAPRToAPYSinglePeriod(t *testing.T) {
	// Compounding once a year is no compounding at all: APY == APR.
	apr := ray("50000000000000000000000000") // 5%
	apy, err := APRToAPY(apr, 1)
	require.NoError(t, err)
	assert.True(t, apy.Eq(apr))
}

func TestAPRToAPYExceedsAPR(t *testing.T) {
	apr := ray("50000000000000000000000000") // 5%

	monthly, err := APRToAPY(apr, 12)
	require.NoError(t, err)
	assert.True(t, monthly.Gt(apr), "monthly compounding must beat simple interest")

	daily, err := APRToAPY(apr, 365)
	require.NoError(t, err)
	assert.True(t, daily.Gt(monthly), "finer compounding must yield more")
}

func TestAPRToAPYTinyRateNeverNegative(t *testing.T) {
	// A one-unit APR divided across 365 periods truncates to a zero
	// per-period rate; the floor keeps the result at exactly zero rather
	// than wrapping below it.
	apy, err := APRToAPY(uint256.NewInt(1), 365)
	require.NoError(t, err)
	assert.True(t, apy.IsZero())
}
