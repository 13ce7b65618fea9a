package rates

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/openlend/rate-engine/internal/raymath"
)

// Utilization computes the ray-scaled fraction of a pool's total funds that
// is currently borrowed: borrows / (cash + borrows).
//
// Degenerate cases are resolved before any division happens:
//   - an empty pool (no cash, no borrows) has zero utilization;
//   - a drained pool (no cash, outstanding borrows) is fully utilized,
//     which is what the ratio tends to and avoids a zero denominator.
func Utilization(cash, borrows *uint256.Int) (*uint256.Int, error) {
	if cash.IsZero() {
		if borrows.IsZero() {
			return new(uint256.Int), nil
		}
		return raymath.One(), nil
	}
	if borrows.IsZero() {
		return new(uint256.Int), nil
	}

	total, err := raymath.Add(cash, borrows)
	if err != nil {
		return nil, fmt.Errorf("pool total exceeds representable range: %w", err)
	}

	u, err := raymath.Div(borrows, total)
	if err != nil {
		return nil, fmt.Errorf("failed to compute utilization: %w", err)
	}
	return u, nil
}
