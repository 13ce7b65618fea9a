/*

This file contains the ray (1e27 fixed-point) arithmetic primitives used by
every rate and yield calculation in the engine.

All values are unsigned 256-bit integers interpreted as real numbers scaled
by 1e27. Operations either return an exact (truncated toward zero) result or
fail with a sentinel error before producing a wrong one.

*/

package raymath

import (
	"errors"

	"github.com/holiman/uint256"
)

// Error definitions for zero-tolerance error handling
var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrOverflow       = errors.New("fixed-point overflow")
	ErrPeriodsTooHigh = errors.New("compounding periods exceed cap")
)

const (
	// RayDecimals is the number of decimal places in the ray representation.
	RayDecimals = 27

	// MaxCompoundingPeriods caps the exponent accepted by compounding
	// operations. Bounds both loop cost and precision loss in Pow.
	MaxCompoundingPeriods = 365

	// SecondsPerYear uses a 365.25-day year to absorb leap years.
	SecondsPerYear = 31_557_600
)

var (
	// Scale is 1e27, the ray representation of 1.0.
	Scale = uint256.MustFromDecimal("1000000000000000000000000000")

	// MaxRate is the sanity ceiling for any configured rate: 100x scale,
	// far above any plausible real rate. Enforced by the config layer,
	// not by the arithmetic itself.
	MaxRate = uint256.MustFromDecimal("100000000000000000000000000000")

	// SecondsPerYearRay is SecondsPerYear expressed in ray scale, so that
	// Mul(ratePerSecond, SecondsPerYearRay) annualizes a per-second rate.
	SecondsPerYearRay = new(uint256.Int).Mul(uint256.NewInt(SecondsPerYear), Scale)
)

// One returns a fresh copy of the ray representation of 1.0.
func One() *uint256.Int {
	return new(uint256.Int).Set(Scale)
}

// Mul computes a*b/Scale. The intermediate product is taken at full 512-bit
// width, so the only failure mode is a final result that does not fit in
// 256 bits. Zero operands short-circuit without touching the wide path.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	if a.IsZero() || b.IsZero() {
		return new(uint256.Int), nil
	}
	res, overflow := new(uint256.Int).MulDivOverflow(a, b, Scale)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Div computes a*Scale/b, truncating toward zero.
//
// The numerator is scaled before dividing to preserve precision; the scaled
// numerator itself cannot overflow because the intermediate is 512 bits
// wide. A quotient exceeding 256 bits (b much smaller than a) is reported
// as ErrOverflow rather than truncated.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivideByZero
	}
	res, overflow := new(uint256.Int).MulDivOverflow(a, Scale, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Add computes a+b with wraparound detection.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// Sub computes a-b, failing if the result would be negative. Ray values
// are unsigned; callers that need a floor at zero handle it themselves.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	if a.Lt(b) {
		return nil, ErrOverflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

// Pow raises a ray-scaled x to an integer power n by repeated Mul.
// Exponentiation by squaring is deliberately not used: exponents are capped
// at MaxCompoundingPeriods by callers, and the simple accumulation keeps
// rounding behavior identical for every step.
//
// Pow(x, 0) is Scale (fixed-point 1.0) for every x, including x == 0.
func Pow(x *uint256.Int, n uint64) (*uint256.Int, error) {
	if n == 0 {
		return One(), nil
	}
	result := new(uint256.Int).Set(x)
	for i := uint64(1); i < n; i++ {
		next, err := Mul(result, x)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}
