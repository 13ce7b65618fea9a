// ./internal/state/snapshot_store.go
package state

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openlend/rate-engine/internal/types"
)

// SaveRateSnapshot persists one computed rate snapshot for one pool.
func SaveRateSnapshot(snapshot types.RateSnapshot) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	query := `
		INSERT INTO rate_snapshots (
			snapshot_number, run_id, pool_id, snapshot_timestamp, params_id,
			cash, borrows, utilization, rate_per_second, apr, apy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err := DB.QueryRow(
		query,
		snapshot.SnapshotNumber, snapshot.RunID, uint64(snapshot.PoolID), snapshot.Timestamp, snapshot.ParamsID,
		snapshot.Cash, snapshot.Borrows, snapshot.Utilization, snapshot.RatePerSecond, snapshot.APR, snapshot.APY,
	).Scan(&snapshotID)

	if err != nil {
		return 0, fmt.Errorf("failed to save rate snapshot: %w", err)
	}

	log.Info().
		Int64("snapshot_id", snapshotID).
		Int64("snapshot_number", snapshot.SnapshotNumber).
		Uint64("pool_id", uint64(snapshot.PoolID)).
		Str("rate_per_second", snapshot.RatePerSecond).
		Msg("Rate snapshot saved to database")

	return snapshotID, nil
}

// GetRecentRateSnapshots returns the most recent snapshots, newest first.
func GetRecentRateSnapshots(limit int) ([]types.RateSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT snapshot_number, run_id, pool_id, snapshot_timestamp, params_id,
		       cash, borrows, utilization, rate_per_second, apr, apy
		FROM rate_snapshots
		ORDER BY snapshot_number DESC, pool_id ASC
		LIMIT $1;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []types.RateSnapshot
	for rows.Next() {
		var (
			s      types.RateSnapshot
			poolID uint64
		)
		if err := rows.Scan(
			&s.SnapshotNumber, &s.RunID, &poolID, &s.Timestamp, &s.ParamsID,
			&s.Cash, &s.Borrows, &s.Utilization, &s.RatePerSecond, &s.APR, &s.APY,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rate snapshot: %w", err)
		}
		s.PoolID = types.PoolID(poolID)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate snapshots: %w", err)
	}
	return snapshots, nil
}

// GetLatestRateSnapshotForPool returns the newest snapshot for one pool, or
// nil if the pool has never been snapshotted.
func GetLatestRateSnapshotForPool(poolID types.PoolID) (*types.RateSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT snapshot_number, run_id, pool_id, snapshot_timestamp, params_id,
		       cash, borrows, utilization, rate_per_second, apr, apy
		FROM rate_snapshots
		WHERE pool_id = $1
		ORDER BY snapshot_number DESC
		LIMIT 1;`

	var (
		s  types.RateSnapshot
		id uint64
	)
	err := DB.QueryRow(query, uint64(poolID)).Scan(
		&s.SnapshotNumber, &s.RunID, &id, &s.Timestamp, &s.ParamsID,
		&s.Cash, &s.Borrows, &s.Utilization, &s.RatePerSecond, &s.APR, &s.APY,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug().Uint64("poolId", uint64(poolID)).Msg("No snapshots found for pool")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest snapshot for pool %d: %w", poolID, err)
	}
	s.PoolID = types.PoolID(id)
	return &s, nil
}
