package utils

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayFromDecimal(t *testing.T) {
	v, err := RayFromDecimal("1000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000000", v.Dec())

	v, err = RayFromDecimal("  42 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Uint64())
}

func TestRayFromDecimalRejectsBadInput(t *testing.T) {
	_, err := RayFromDecimal("")
	assert.ErrorIs(t, err, ErrValueEmpty)

	_, err = RayFromDecimal("-5")
	assert.ErrorIs(t, err, ErrValueNegative)

	_, err = RayFromDecimal("12.5")
	assert.ErrorIs(t, err, ErrConversionFailed)

	_, err = RayFromDecimal("0x10")
	assert.ErrorIs(t, err, ErrConversionFailed)

	// One above 2^256-1.
	_, err = RayFromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	assert.ErrorIs(t, err, ErrConversionFailed)
}

func TestRayToDecimalStringRoundTrip(t *testing.T) {
	original := "340001584407172113525096151"
	v, err := RayFromDecimal(original)
	require.NoError(t, err)

	s, err := RayToDecimalString(v)
	require.NoError(t, err)
	assert.Equal(t, original, s)

	_, err = RayToDecimalString(nil)
	assert.ErrorIs(t, err, ErrValueNil)
}

func TestRayToFloat64(t *testing.T) {
	one, err := RayFromDecimal("1000000000000000000000000000")
	require.NoError(t, err)

	f, err := RayToFloat64(one)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 1e-12)

	fivePct, err := RayFromDecimal("50000000000000000000000000")
	require.NoError(t, err)
	f, err = RayToFloat64(fivePct)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, f, 1e-12)

	_, err = RayToFloat64(nil)
	assert.ErrorIs(t, err, ErrValueNil)
}

func TestRayToDecTruncatesBelowDecPrecision(t *testing.T) {
	// Anything under 1e9 ray units is below LegacyDec's 18 decimal
	// places and truncates away.
	v := uint256.NewInt(999_999_999)
	dec, err := RayToDec(v)
	require.NoError(t, err)
	assert.True(t, dec.IsZero())

	// Exactly 1e9 ray units is the smallest representable LegacyDec step.
	v = uint256.NewInt(1_000_000_000)
	dec, err = RayToDec(v)
	require.NoError(t, err)
	assert.Equal(t, "0.000000000000000001", dec.String())
}
