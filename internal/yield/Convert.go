/*

This file converts between per-second rates, simple annual rates (APR), and
compounded annual rates (APY).

*/

package yield

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/raymath"
)

// PerSecondToAPR annualizes a per-second rate without compounding. The year
// is 31,557,600 seconds (365.25 days) so that leap years do not drift the
// quoted rate.
func PerSecondToAPR(ratePerSecond *uint256.Int) (*uint256.Int, error) {
	apr, err := raymath.Mul(ratePerSecond, raymath.SecondsPerYearRay)
	if err != nil {
		return nil, fmt.Errorf("failed to annualize rate: %w", err)
	}
	return apr, nil
}

// APRToAPY converts a simple annual rate into the effective annual rate
// when interest compounds periodsPerYear times:
//
//	APY = (1 + APR/n)^n - 1
//
// periodsPerYear must be in [1, 365]. The result is floored at zero:
// repeated fixed-point truncation can make the compounded factor dip a few
// units below 1.0 for tiny rates, and a negative APY must never be
// reported.
func APRToAPY(apr *uint256.Int, periodsPerYear uint64) (*uint256.Int, error) {
	if periodsPerYear == 0 {
		return nil, fmt.Errorf("periods per year is zero: %w", raymath.ErrDivideByZero)
	}
	if periodsPerYear > raymath.MaxCompoundingPeriods {
		return nil, fmt.Errorf("periods per year %d exceeds %d: %w",
			periodsPerYear, raymath.MaxCompoundingPeriods, raymath.ErrPeriodsTooHigh)
	}

	periodsRay := new(uint256.Int).Mul(uint256.NewInt(periodsPerYear), raymath.Scale)
	ratePerPeriod, err := raymath.Div(apr, periodsRay)
	if err != nil {
		return nil, fmt.Errorf("failed to compute per-period rate: %w", err)
	}

	onePlusR, err := raymath.Add(raymath.Scale, ratePerPeriod)
	if err != nil {
		return nil, fmt.Errorf("per-period growth factor: %w", err)
	}

	compounded, err := raymath.Pow(onePlusR, periodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("failed to compound rate: %w", err)
	}

	if compounded.Lt(raymath.Scale) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(compounded, raymath.Scale), nil
}
