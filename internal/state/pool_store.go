// ./internal/state/pool_store.go
package state

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openlend/rate-engine/internal/types"
	"github.com/openlend/rate-engine/internal/utils"
)

// UpsertPoolState records the latest observed cash/borrows for a pool.
func UpsertPoolState(ps types.PoolState) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	cash, err := utils.RayToDecimalString(ps.Cash)
	if err != nil {
		return fmt.Errorf("pool cash: %w", err)
	}
	borrows, err := utils.RayToDecimalString(ps.Borrows)
	if err != nil {
		return fmt.Errorf("pool borrows: %w", err)
	}

	stmt := `
		INSERT INTO pool_states (pool_id, cash, borrows, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (pool_id) DO UPDATE
		SET cash = EXCLUDED.cash, borrows = EXCLUDED.borrows, updated_at = CURRENT_TIMESTAMP;`

	if _, err := DB.Exec(stmt, uint64(ps.PoolID), cash, borrows); err != nil {
		return fmt.Errorf("failed to upsert pool state for pool %d: %w", ps.PoolID, err)
	}

	log.Debug().Uint64("poolId", uint64(ps.PoolID)).Msg("Upserted pool state")
	return nil
}

// ListPoolStates returns the latest observed state for every tracked pool.
func ListPoolStates() ([]types.PoolState, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `SELECT pool_id, cash, borrows, updated_at FROM pool_states ORDER BY pool_id;`
	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool states: %w", err)
	}
	defer rows.Close()

	var states []types.PoolState
	for rows.Next() {
		var (
			ps            types.PoolState
			poolID        uint64
			cash, borrows string
		)
		if err := rows.Scan(&poolID, &cash, &borrows, &ps.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pool state: %w", err)
		}
		ps.PoolID = types.PoolID(poolID)
		if ps.Cash, err = utils.RayFromDecimal(cash); err != nil {
			return nil, fmt.Errorf("stored cash for pool %d: %w", poolID, err)
		}
		if ps.Borrows, err = utils.RayFromDecimal(borrows); err != nil {
			return nil, fmt.Errorf("stored borrows for pool %d: %w", poolID, err)
		}
		states = append(states, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool states: %w", err)
	}
	return states, nil
}
