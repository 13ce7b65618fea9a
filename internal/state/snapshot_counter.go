/*

This file manages the persistent snapshot marker for the rate engine.
The marker increases monotonically, is advanced by the keeper on each rate
recomputation, and survives restarts because it lives in the database.

*/

package state

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GetCurrentSnapshotNumber retrieves the current snapshot marker from the database
func GetCurrentSnapshotNumber() (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	query := `SELECT current_snapshot FROM snapshot_counter WHERE id = 1;`

	var current int64
	row := DB.QueryRow(query)
	err := row.Scan(&current)

	if err != nil {
		if err == sql.ErrNoRows {
			// Should not happen: EnsureSchema seeds the single row.
			log.Warn().Msg("No snapshot counter row found, treating as 0")
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current snapshot number: %w", err)
	}

	log.Debug().Int64("currentSnapshot", current).Msg("Retrieved current snapshot number")
	return current, nil
}

// AdvanceSnapshotNumber increments the snapshot marker and returns the new
// value. The single UPDATE ... RETURNING keeps concurrent keepers from ever
// observing or producing the same marker twice.
func AdvanceSnapshotNumber() (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	updateQuery := `
		UPDATE snapshot_counter
		SET current_snapshot = current_snapshot + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
		RETURNING current_snapshot;`

	var next int64
	row := DB.QueryRow(updateQuery)
	err := row.Scan(&next)

	if err != nil {
		return 0, fmt.Errorf("failed to advance snapshot number: %w", err)
	}

	log.Info().Int64("snapshotNumber", next).Msg("Advanced snapshot marker")
	return next, nil
}
