/*

This file contains the default curve parameters for the rate engine and the
validation the authority layer applies before any admin-supplied set is
persisted or handed to the math core.

These defaults are calibrated for a conservative stablecoin-style lending
market. Each value has a rationale; operators tune them per market through
the versioned parameter store.

*/

package config

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/raymath"
	"github.com/openlend/rate-engine/internal/types"
)

// ErrOutOfRange indicates an admin-supplied parameter outside its
// admissible bounds. The math core never sees such a value.
var ErrOutOfRange = errors.New("parameter out of range")

// MaxFeeBasisPoints is the protocol fee ceiling (10,000 bps = 100%).
const MaxFeeBasisPoints = 10_000

// rayPercent returns pct% expressed in ray scale.
func rayPercent(pct uint64) *uint256.Int {
	v := new(uint256.Int).Mul(uint256.NewInt(pct), raymath.Scale)
	return v.Div(v, uint256.NewInt(100))
}

// annualToPerSecond converts an annual ray rate to the per-second rate the
// curve operates on.
func annualToPerSecond(annual *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(annual, uint256.NewInt(raymath.SecondsPerYear))
}

// DefaultCurveParameterSet provides a baseline configuration used when no
// active parameter set is found in the database during initialization.
var DefaultCurveParameterSet = types.CurveParameterSet{
	Version:    1,
	ConfigName: "default",
	Curve: types.CurveParameters{
		KinkUtilization: rayPercent(80),
		// Rationale: 80% is the classic optimal-utilization point. Below
		// it the pool keeps a healthy withdrawal buffer; pushing the kink
		// higher leaves lenders exposed to liquidity crunches.

		SlopeBelowKink: annualToPerSecond(rayPercent(4)),
		// Rationale: a gentle 4%-per-year ramp at full kink utilization
		// keeps borrowing attractive while the pool has spare cash.

		SlopeAboveKink: annualToPerSecond(rayPercent(60)),
		// Rationale: the steep segment must bite hard. 60% per year at
		// full utilization makes sustained over-utilization expensive
		// enough that borrowers repay or lenders are drawn in.

		BaseRatePerSecond: annualToPerSecond(rayPercent(2)),
		// Rationale: a 2%-per-year floor means idle pools still cover
		// protocol overhead without deterring the first borrower.
	},

	FeeBasisPoints: 1_000,
	// Rationale: a 10% protocol share of interest is in line with
	// established lending markets; it funds reserves without making the
	// net lender rate uncompetitive.

	CompoundingPeriods: 365,
	// Rationale: daily compounding is the finest granularity the engine
	// permits and what most dashboards quote as APY.
}

// ValidateCurveParameters enforces the admissible ranges for a curve before
// it is persisted or evaluated. Slopes and the base rate share the global
// rate ceiling; the kink must be a valid utilization.
func ValidateCurveParameters(p types.CurveParameters) error {
	if p.KinkUtilization == nil || p.SlopeBelowKink == nil || p.SlopeAboveKink == nil || p.BaseRatePerSecond == nil {
		return fmt.Errorf("%w: curve field is nil", ErrOutOfRange)
	}
	if p.KinkUtilization.Gt(raymath.Scale) {
		return fmt.Errorf("%w: kink utilization %s exceeds full utilization", ErrOutOfRange, p.KinkUtilization.Dec())
	}
	if p.BaseRatePerSecond.Gt(raymath.MaxRate) {
		return fmt.Errorf("%w: base rate %s exceeds rate ceiling", ErrOutOfRange, p.BaseRatePerSecond.Dec())
	}
	if p.SlopeBelowKink.Gt(raymath.MaxRate) {
		return fmt.Errorf("%w: slope below kink %s exceeds rate ceiling", ErrOutOfRange, p.SlopeBelowKink.Dec())
	}
	if p.SlopeAboveKink.Gt(raymath.MaxRate) {
		return fmt.Errorf("%w: slope above kink %s exceeds rate ceiling", ErrOutOfRange, p.SlopeAboveKink.Dec())
	}
	return nil
}

// ValidateParameterSet validates a full configuration record, curve
// included.
func ValidateParameterSet(set types.CurveParameterSet) error {
	if set.ConfigName == "" {
		return fmt.Errorf("%w: config name is empty", ErrOutOfRange)
	}
	if err := ValidateCurveParameters(set.Curve); err != nil {
		return err
	}
	if set.FeeBasisPoints > MaxFeeBasisPoints {
		return fmt.Errorf("%w: fee %d bps exceeds %d", ErrOutOfRange, set.FeeBasisPoints, MaxFeeBasisPoints)
	}
	if set.CompoundingPeriods == 0 || set.CompoundingPeriods > raymath.MaxCompoundingPeriods {
		return fmt.Errorf("%w: compounding periods %d outside [1, %d]", ErrOutOfRange, set.CompoundingPeriods, raymath.MaxCompoundingPeriods)
	}
	return nil
}
