/*

This file composes the full rate pipeline: pool state in, annualized rate
quote out. The engine is stateless; curve parameters are passed by value on
every call and the result is a fresh RateQuote.

*/

package engine

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/rates"
	"github.com/openlend/rate-engine/internal/types"
	"github.com/openlend/rate-engine/internal/yield"
)

// Quote runs cash/borrows through utilization, the kinked curve, and the
// APR/APY conversions. compoundingPeriods is the periods-per-year used for
// the APY leg and must be in [1, 365].
func Quote(cash, borrows *uint256.Int, params types.CurveParameters, compoundingPeriods uint64) (types.RateQuote, error) {
	utilization, err := rates.Utilization(cash, borrows)
	if err != nil {
		return types.RateQuote{}, fmt.Errorf("utilization stage: %w", err)
	}

	ratePerSecond, err := rates.BorrowRateForUtilization(utilization, params)
	if err != nil {
		return types.RateQuote{}, fmt.Errorf("rate curve stage: %w", err)
	}

	apr, err := yield.PerSecondToAPR(ratePerSecond)
	if err != nil {
		return types.RateQuote{}, fmt.Errorf("apr stage: %w", err)
	}

	apy, err := yield.APRToAPY(apr, compoundingPeriods)
	if err != nil {
		return types.RateQuote{}, fmt.Errorf("apy stage: %w", err)
	}

	return types.RateQuote{
		Utilization:        utilization,
		RatePerSecond:      ratePerSecond,
		APR:                apr,
		APY:                apy,
		CompoundingPeriods: compoundingPeriods,
	}, nil
}
