package types

import (
	"time"

	"github.com/holiman/uint256"
)

// PoolID identifies a lending pool tracked by the engine.
type PoolID uint64

// PoolState is the externally observed balance sheet of a lending pool:
// the cash sitting idle and the amount out on loan. Both are ray-scaled
// token amounts. Pool states arrive through the intake API and are the
// only inputs the keeper feeds into the rate pipeline.
type PoolState struct {
	PoolID    PoolID       `json:"pool_id"`
	Cash      *uint256.Int `json:"-"`
	Borrows   *uint256.Int `json:"-"`
	UpdatedAt time.Time    `json:"updated_at"`
}
