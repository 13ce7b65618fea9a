// ./internal/state/parameters_store.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openlend/rate-engine/internal/types"
	"github.com/openlend/rate-engine/internal/utils"
)

// SaveCurveParameterSet saves a new version of curve parameters. Activation
// is transactional: the previous active row for the config name is
// deactivated in the same transaction, so readers never observe two active
// sets. Callers are expected to have validated the set already.
func SaveCurveParameterSet(set types.CurveParameterSet, makeActive bool) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	kink, err := utils.RayToDecimalString(set.Curve.KinkUtilization)
	if err != nil {
		return 0, fmt.Errorf("kink utilization: %w", err)
	}
	slopeBelow, err := utils.RayToDecimalString(set.Curve.SlopeBelowKink)
	if err != nil {
		return 0, fmt.Errorf("slope below kink: %w", err)
	}
	slopeAbove, err := utils.RayToDecimalString(set.Curve.SlopeAboveKink)
	if err != nil {
		return 0, fmt.Errorf("slope above kink: %w", err)
	}
	baseRate, err := utils.RayToDecimalString(set.Curve.BaseRatePerSecond)
	if err != nil {
		return 0, fmt.Errorf("base rate: %w", err)
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-panic after rollback
		} else if err != nil {
			tx.Rollback() // Rollback if error occurred
		}
	}()

	if makeActive {
		stmtDeactivate := `UPDATE curve_parameters SET is_active = FALSE WHERE config_name = $1 AND is_active = TRUE;`
		_, err = tx.Exec(stmtDeactivate, set.ConfigName)
		if err != nil {
			return 0, fmt.Errorf("failed to deactivate existing active parameters for %s: %w", set.ConfigName, err)
		}
	}

	stmt := `
        INSERT INTO curve_parameters (
            version, config_name, is_active, activated_at, created_at,
            kink_utilization, slope_below_kink, slope_above_kink, base_rate_per_second,
            fee_basis_points, compounding_periods
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            $10, $11
        ) RETURNING params_id;`

	var paramsID int64
	currentTime := time.Now()
	err = tx.QueryRow(
		stmt,
		set.Version, set.ConfigName, makeActive, currentTime, currentTime,
		kink, slopeBelow, slopeAbove, baseRate,
		set.FeeBasisPoints, set.CompoundingPeriods,
	).Scan(&paramsID)

	if err != nil {
		return 0, fmt.Errorf("failed to insert curve parameters: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Int("version", set.Version).
		Str("config", set.ConfigName).
		Int64("params_id", paramsID).
		Bool("active", makeActive).
		Msg("Saved curve parameters")
	return paramsID, nil
}

// LoadActiveCurveParameterSet loads the currently active curve parameters
// for a config name.
func LoadActiveCurveParameterSet(configName string) (*types.CurveParameterSet, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT
            params_id, version,
            kink_utilization, slope_below_kink, slope_above_kink, base_rate_per_second,
            fee_basis_points, compounding_periods
        FROM curve_parameters
        WHERE config_name = $1 AND is_active = TRUE
        ORDER BY activated_at DESC
        LIMIT 1;`

	row := DB.QueryRow(query, configName)
	set, err := scanParameterSet(row, configName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no active curve parameters found for config '%s'", configName)
		}
		return nil, fmt.Errorf("failed to scan active curve parameters for config '%s': %w", configName, err)
	}
	log.Info().Str("config", configName).Msg("Loaded active curve parameters")
	return set, nil
}

// LoadLatestCurveParameterSet loads the most recently activated parameters
// for a config name, active or not.
func LoadLatestCurveParameterSet(configName string) (*types.CurveParameterSet, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT
            params_id, version,
            kink_utilization, slope_below_kink, slope_above_kink, base_rate_per_second,
            fee_basis_points, compounding_periods
        FROM curve_parameters
        WHERE config_name = $1
        ORDER BY activated_at DESC, created_at DESC
        LIMIT 1;`

	row := DB.QueryRow(query, configName)
	set, err := scanParameterSet(row, configName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no curve parameters found for config '%s'", configName)
		}
		return nil, fmt.Errorf("failed to scan latest curve parameters for config '%s': %w", configName, err)
	}
	log.Info().Str("config", configName).Msg("Loaded latest curve parameters")
	return set, nil
}

// scanParameterSet scans one parameter row and parses the NUMERIC columns
// back into ray values.
func scanParameterSet(row *sql.Row, configName string) (*types.CurveParameterSet, error) {
	var (
		set                                    types.CurveParameterSet
		kink, slopeBelow, slopeAbove, baseRate string
	)
	err := row.Scan(
		&set.ParamsID, &set.Version,
		&kink, &slopeBelow, &slopeAbove, &baseRate,
		&set.FeeBasisPoints, &set.CompoundingPeriods,
	)
	if err != nil {
		return nil, err
	}

	set.ConfigName = configName
	set.Active = true

	if set.Curve.KinkUtilization, err = utils.RayFromDecimal(kink); err != nil {
		return nil, fmt.Errorf("stored kink utilization: %w", err)
	}
	if set.Curve.SlopeBelowKink, err = utils.RayFromDecimal(slopeBelow); err != nil {
		return nil, fmt.Errorf("stored slope below kink: %w", err)
	}
	if set.Curve.SlopeAboveKink, err = utils.RayFromDecimal(slopeAbove); err != nil {
		return nil, fmt.Errorf("stored slope above kink: %w", err)
	}
	if set.Curve.BaseRatePerSecond, err = utils.RayFromDecimal(baseRate); err != nil {
		return nil, fmt.Errorf("stored base rate: %w", err)
	}
	return &set, nil
}

// GetActiveCurveParameterSetID returns the params_id of the currently
// active curve parameters, or nil if none is active.
func GetActiveCurveParameterSetID(configName string) (*int64, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT params_id
        FROM curve_parameters
        WHERE config_name = $1 AND is_active = TRUE
        ORDER BY activated_at DESC
        LIMIT 1;`

	var paramsID int64
	row := DB.QueryRow(query, configName)
	err := row.Scan(&paramsID)

	if err != nil {
		if err == sql.ErrNoRows {
			// No active parameters found - this is valid, return nil
			log.Debug().Str("config", configName).Msg("No active curve parameters found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active curve parameters ID for config '%s': %w", configName, err)
	}

	log.Debug().
		Str("config", configName).
		Int64("params_id", paramsID).
		Msg("Retrieved active curve parameters ID")

	return &paramsID, nil
}
