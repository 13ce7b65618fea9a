package yield

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/raymath"
)

// growthFactor computes (1 + ratePerPeriod)^periods in ray scale. The
// period cap keeps every time-value call O(365) like the APY path.
func growthFactor(ratePerPeriod *uint256.Int, periods uint64) (*uint256.Int, error) {
	if periods > raymath.MaxCompoundingPeriods {
		return nil, fmt.Errorf("periods %d exceeds %d: %w",
			periods, raymath.MaxCompoundingPeriods, raymath.ErrPeriodsTooHigh)
	}
	onePlusR, err := raymath.Add(raymath.Scale, ratePerPeriod)
	if err != nil {
		return nil, fmt.Errorf("growth factor base: %w", err)
	}
	factor, err := raymath.Pow(onePlusR, periods)
	if err != nil {
		return nil, fmt.Errorf("growth factor power: %w", err)
	}
	return factor, nil
}

// FutureValue compounds a principal forward: P * (1 + r)^k. Zero periods
// return the principal unchanged (as a copy, never an aliased pointer).
func FutureValue(principal, ratePerPeriod *uint256.Int, periods uint64) (*uint256.Int, error) {
	if periods == 0 {
		return new(uint256.Int).Set(principal), nil
	}
	factor, err := growthFactor(ratePerPeriod, periods)
	if err != nil {
		return nil, err
	}
	fv, err := raymath.Mul(principal, factor)
	if err != nil {
		return nil, fmt.Errorf("failed to compound principal: %w", err)
	}
	return fv, nil
}

// PresentValue discounts a future amount back: FV / (1 + r)^k. Inverse of
// FutureValue, with the same zero-period short-circuit.
func PresentValue(futureValue, ratePerPeriod *uint256.Int, periods uint64) (*uint256.Int, error) {
	if periods == 0 {
		return new(uint256.Int).Set(futureValue), nil
	}
	factor, err := growthFactor(ratePerPeriod, periods)
	if err != nil {
		return nil, err
	}
	pv, err := raymath.Div(futureValue, factor)
	if err != nil {
		return nil, fmt.Errorf("failed to discount future value: %w", err)
	}
	return pv, nil
}
