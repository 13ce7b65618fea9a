package config

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlend/rate-engine/internal/raymath"
	"github.com/openlend/rate-engine/internal/types"
)

func TestDefaultParameterSetIsValid(t *testing.T) {
	require.NoError(t, ValidateParameterSet(DefaultCurveParameterSet))
}

func TestDefaultCurveShape(t *testing.T) {
	curve := DefaultCurveParameterSet.Curve

	assert.Equal(t, "800000000000000000000000000", curve.KinkUtilization.Dec())
	assert.False(t, curve.BaseRatePerSecond.IsZero())
	assert.True(t, curve.SlopeAboveKink.Gt(curve.SlopeBelowKink),
		"the segment above the kink must be steeper")
}

func TestValidateRejectsKinkAboveFull(t *testing.T) {
	set := cloneDefault()
	set.Curve.KinkUtilization = new(uint256.Int).Add(raymath.Scale, uint256.NewInt(1))

	err := ValidateParameterSet(set)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidateRejectsBaseRateAboveCeiling(t *testing.T) {
	set := cloneDefault()
	set.Curve.BaseRatePerSecond = new(uint256.Int).Add(raymath.MaxRate, uint256.NewInt(1))

	err := ValidateParameterSet(set)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidateRejectsSlopesAboveCeiling(t *testing.T) {
	set := cloneDefault()
	set.Curve.SlopeBelowKink = new(uint256.Int).Add(raymath.MaxRate, uint256.NewInt(1))
	assert.ErrorIs(t, ValidateParameterSet(set), ErrOutOfRange)

	set = cloneDefault()
	set.Curve.SlopeAboveKink = new(uint256.Int).Add(raymath.MaxRate, uint256.NewInt(1))
	assert.ErrorIs(t, ValidateParameterSet(set), ErrOutOfRange)
}

func TestValidateRejectsFeeAboveMax(t *testing.T) {
	set := cloneDefault()
	set.FeeBasisPoints = MaxFeeBasisPoints + 1

	err := ValidateParameterSet(set)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidateRejectsBadCompoundingPeriods(t *testing.T) {
	set := cloneDefault()
	set.FeeBasisPoints = 0
	set.CompoundingPeriods = 0
	assert.ErrorIs(t, ValidateParameterSet(set), ErrOutOfRange)

	set = cloneDefault()
	set.CompoundingPeriods = raymath.MaxCompoundingPeriods + 1
	assert.ErrorIs(t, ValidateParameterSet(set), ErrOutOfRange)
}

func TestValidateRejectsNilCurveField(t *testing.T) {
	set := cloneDefault()
	set.Curve.SlopeAboveKink = nil

	err := ValidateParameterSet(set)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidateRejectsEmptyConfigName(t *testing.T) {
	set := cloneDefault()
	set.ConfigName = ""

	err := ValidateParameterSet(set)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

// cloneDefault deep-copies the default set so each test can mutate freely.
func cloneDefault() types.CurveParameterSet {
	set := DefaultCurveParameterSet
	set.Curve = DefaultCurveParameterSet.Curve.Clone()
	return set
}
