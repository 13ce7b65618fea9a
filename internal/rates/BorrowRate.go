/*

This file evaluates the kinked borrow-rate curve.

The curve is continuous, piecewise-linear, and non-decreasing in
utilization: a gentle ramp from the base rate up to the kink, then a much
steeper ramp above it to discourage pools from staying over-utilized.

*/

package rates

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/raymath"
	"github.com/openlend/rate-engine/internal/types"
)

// BorrowRatePerSecond maps a pool's state onto the curve described by
// params and returns the ray-scaled per-second borrow rate.
func BorrowRatePerSecond(cash, borrows *uint256.Int, params types.CurveParameters) (*uint256.Int, error) {
	u, err := Utilization(cash, borrows)
	if err != nil {
		return nil, err
	}
	return BorrowRateForUtilization(u, params)
}

// BorrowRateForUtilization evaluates the curve at an already-computed
// utilization. Callers that need both values compute utilization once and
// feed it here instead of going through BorrowRatePerSecond.
//
// At the kink the below-branch formula lands exactly on
// base + slopeBelowKink, so the two segments join without a jump. No upper
// bound is applied here; the config layer validates parameter magnitudes
// before they ever reach this function.
func BorrowRateForUtilization(u *uint256.Int, params types.CurveParameters) (*uint256.Int, error) {
	// Idle pool: base rate only. Skips the below-kink branch, which would
	// reach the same value through a pointless division.
	if u.IsZero() {
		return new(uint256.Int).Set(params.BaseRatePerSecond), nil
	}

	if !u.Gt(params.KinkUtilization) {
		// Linear ramp from base at u=0 to base+slopeBelow at u=kink.
		frac, err := raymath.Div(u, params.KinkUtilization)
		if err != nil {
			return nil, fmt.Errorf("below-kink ratio: %w", err)
		}
		ramp, err := raymath.Mul(params.SlopeBelowKink, frac)
		if err != nil {
			return nil, fmt.Errorf("below-kink ramp: %w", err)
		}
		rate, err := raymath.Add(params.BaseRatePerSecond, ramp)
		if err != nil {
			return nil, fmt.Errorf("below-kink rate: %w", err)
		}
		return rate, nil
	}

	atKink, err := raymath.Add(params.BaseRatePerSecond, params.SlopeBelowKink)
	if err != nil {
		return nil, fmt.Errorf("at-kink rate: %w", err)
	}

	// A kink at 100% utilization leaves no room above it; the steep
	// segment collapses to the at-kink value.
	denom, err := raymath.Sub(raymath.Scale, params.KinkUtilization)
	if err != nil {
		return nil, fmt.Errorf("kink above full utilization: %w", err)
	}
	if denom.IsZero() {
		return atKink, nil
	}

	excess := new(uint256.Int).Sub(u, params.KinkUtilization)
	frac, err := raymath.Div(excess, denom)
	if err != nil {
		return nil, fmt.Errorf("above-kink ratio: %w", err)
	}
	ramp, err := raymath.Mul(params.SlopeAboveKink, frac)
	if err != nil {
		return nil, fmt.Errorf("above-kink ramp: %w", err)
	}
	rate, err := raymath.Add(atKink, ramp)
	if err != nil {
		return nil, fmt.Errorf("above-kink rate: %w", err)
	}
	return rate, nil
}
