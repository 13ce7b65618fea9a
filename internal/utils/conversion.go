/*
This file contains common utility functions for converting ray-scaled values
to and from display representations, with precision handling via SDK math.
*/

package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Error definitions for zero-tolerance error handling
var (
	ErrValueNil         = errors.New("value is nil")
	ErrValueNegative    = errors.New("value is negative")
	ErrValueEmpty       = errors.New("value is empty")
	ErrNotFinite        = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// rayToDecShift drops the ray digits that do not fit LegacyDec's 18
// decimal places (ray carries 27).
var rayToDecShift = uint256.NewInt(1_000_000_000)

// RayFromDecimal parses a non-negative integer decimal string into a ray
// value. This is the only way raw API and database strings enter the
// engine, so it rejects everything that is not a plain unsigned integer.
func RayFromDecimal(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrValueEmpty
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: %s", ErrValueNegative, s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	return v, nil
}

// RayToDecimalString renders a ray value as a plain integer decimal string,
// the storage format for NUMERIC columns and JSON payloads.
func RayToDecimalString(v *uint256.Int) (string, error) {
	if v == nil {
		return "", ErrValueNil
	}
	return v.Dec(), nil
}

// RayToDec converts a ray value into an SDK LegacyDec for human-readable
// output. LegacyDec carries 18 decimal places, so the last 9 ray digits are
// truncated; display precision only, never fed back into the math core.
func RayToDec(v *uint256.Int) (sdkmath.LegacyDec, error) {
	if v == nil {
		return sdkmath.LegacyDec{}, ErrValueNil
	}
	shifted := new(uint256.Int).Div(v, rayToDecShift)
	return sdkmath.LegacyNewDecFromBigIntWithPrec(shifted.ToBig(), 18), nil
}

// RayToFloat64 converts a ray value to float64 for logging and dashboards.
func RayToFloat64(v *uint256.Int) (float64, error) {
	dec, err := RayToDec(v)
	if err != nil {
		return 0, err
	}
	f, err := dec.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, f)
	}
	return f, nil
}
