/*

This file contains the types for the interest-rate curve and its
configurable parameters.

*/

package types

import (
	"github.com/holiman/uint256"
)

// CurveParameters holds the four values that define the piecewise-linear
// kinked borrow-rate curve. All fields are ray-scaled (1e27). The math
// engine receives these by value and never mutates them; ownership of the
// live set sits with the authority/config layer.
type CurveParameters struct {
	// KinkUtilization is the utilization at which the curve switches from
	// the gentle to the steep slope. Must lie in [0, 1e27].
	KinkUtilization *uint256.Int

	// SlopeBelowKink is the total rate increase accumulated between zero
	// utilization and the kink.
	SlopeBelowKink *uint256.Int

	// SlopeAboveKink is the total rate increase accumulated between the
	// kink and full utilization. Typically much steeper than the slope
	// below, to push pools back under the kink.
	SlopeAboveKink *uint256.Int

	// BaseRatePerSecond is the per-second rate charged at zero utilization.
	BaseRatePerSecond *uint256.Int
}

// Clone returns a deep copy so that callers can hand the engine a value
// the authority layer is free to replace afterwards.
func (p CurveParameters) Clone() CurveParameters {
	return CurveParameters{
		KinkUtilization:   new(uint256.Int).Set(p.KinkUtilization),
		SlopeBelowKink:    new(uint256.Int).Set(p.SlopeBelowKink),
		SlopeAboveKink:    new(uint256.Int).Set(p.SlopeAboveKink),
		BaseRatePerSecond: new(uint256.Int).Set(p.BaseRatePerSecond),
	}
}

// CurveParameterSet is the persisted, versioned configuration record owned
// by the authority layer. Different sets can exist for different markets;
// exactly one set per config name is active at a time.
type CurveParameterSet struct {
	ParamsID   int64  `json:"params_id"`
	Version    int    `json:"version"`
	ConfigName string `json:"config_name"`
	Active     bool   `json:"active"`

	Curve CurveParameters `json:"-"`

	// FeeBasisPoints is the protocol fee share (10,000 bps = 100%). Not
	// consumed by the rate math itself; carried for downstream fee
	// calculation callers.
	FeeBasisPoints uint64 `json:"fee_basis_points"`

	// CompoundingPeriods is the periods-per-year used when deriving APY
	// from APR. Capped at 365.
	CompoundingPeriods uint64 `json:"compounding_periods"`
}
