package engine

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlend/rate-engine/internal/config"
	"github.com/openlend/rate-engine/internal/raymath"
	"github.com/openlend/rate-engine/internal/utils"
)

func ray(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func TestQuotePipeline(t *testing.T) {
	curve := config.DefaultCurveParameterSet.Curve.Clone()

	// 2e27 borrowed against 8e27 cash: 20% utilization, a quarter of the
	// way to the default 80% kink.
	quote, err := Quote(
		ray("8000000000000000000000000000"),
		ray("2000000000000000000000000000"),
		curve,
		config.DefaultCurveParameterSet.CompoundingPeriods,
	)
	require.NoError(t, err)

	assert.Equal(t, "200000000000000000000000000", quote.Utilization.Dec())

	// Default curve: 2% base + a quarter of the 4% slope = 3% annual,
	// within the truncation of the per-second representation.
	aprF, err := utils.RayToFloat64(quote.APR)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, aprF, 0.0001)

	// Daily compounding strictly beats simple interest at this rate.
	assert.True(t, quote.APY.Gt(quote.APR))
	assert.Equal(t, uint64(365), quote.CompoundingPeriods)
}

func TestQuoteIdlePool(t *testing.T) {
	curve := config.DefaultCurveParameterSet.Curve.Clone()

	quote, err := Quote(new(uint256.Int), new(uint256.Int), curve, 365)
	require.NoError(t, err)

	assert.True(t, quote.Utilization.IsZero())
	assert.True(t, quote.RatePerSecond.Eq(curve.BaseRatePerSecond))
}

func TestQuoteRejectsBadPeriods(t *testing.T) {
	curve := config.DefaultCurveParameterSet.Curve.Clone()
	cash := ray("8000000000000000000000000000")
	borrows := ray("2000000000000000000000000000")

	_, err := Quote(cash, borrows, curve, 0)
	assert.ErrorIs(t, err, raymath.ErrDivideByZero)

	_, err = Quote(cash, borrows, curve, 400)
	assert.ErrorIs(t, err, raymath.ErrPeriodsTooHigh)
}
