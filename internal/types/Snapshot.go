package types

import (
	"time"

	"github.com/holiman/uint256"
)

// RateQuote is the result of running one pool state through the full
// pipeline: utilization, per-second borrow rate, and the annualized views
// of that rate. All values are ray-scaled. Quotes are transient function
// results; nothing in the engine holds on to one.
type RateQuote struct {
	Utilization        *uint256.Int
	RatePerSecond      *uint256.Int
	APR                *uint256.Int
	APY                *uint256.Int
	CompoundingPeriods uint64
}

// RateSnapshot is the persisted record of one keeper recomputation for one
// pool. Ray values are carried as decimal strings so the record survives
// JSON and NUMERIC columns without precision loss.
type RateSnapshot struct {
	SnapshotNumber int64     `json:"snapshot_number"`
	RunID          string    `json:"run_id"`
	PoolID         PoolID    `json:"pool_id"`
	Timestamp      time.Time `json:"timestamp"`
	ParamsID       int64     `json:"params_id"`

	Cash          string `json:"cash"`
	Borrows       string `json:"borrows"`
	Utilization   string `json:"utilization"`
	RatePerSecond string `json:"rate_per_second"`
	APR           string `json:"apr"`
	APY           string `json:"apy"`
}
