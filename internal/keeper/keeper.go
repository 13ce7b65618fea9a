/*

This file contains the keeper: the single authorized writer that
periodically recomputes borrow rates for every tracked pool, persists a
snapshot of each result, and advances the monotonic snapshot marker.

The keeper owns no math of its own. It reads pool states and the active
curve parameters, passes them by value into the engine, and records what
comes back.

*/

package keeper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openlend/rate-engine/internal/engine"
	"github.com/openlend/rate-engine/internal/logger"
	"github.com/openlend/rate-engine/internal/state"
	"github.com/openlend/rate-engine/internal/types"
	"github.com/openlend/rate-engine/internal/utils"
)

// DEFAULT_CONFIG_NAME is the parameter config name the service runs under
// unless told otherwise.
const DEFAULT_CONFIG_NAME = "default"

// Keeper drives the periodic recomputation cycle.
type Keeper struct {
	logger     zerolog.Logger
	params     *types.CurveParameterSet
	configName string

	// Runtime state
	runCount int
}

// Config holds the configuration for creating a new Keeper instance
type Config struct {
	Params     *types.CurveParameterSet
	ConfigName string
}

// NewKeeper creates a new Keeper instance with dependency injection
func NewKeeper(cfg Config) (*Keeper, error) {
	if cfg.Params == nil {
		return nil, fmt.Errorf("curve parameters cannot be nil")
	}
	if cfg.ConfigName == "" {
		return nil, fmt.Errorf("config name cannot be empty")
	}

	k := &Keeper{
		logger:     logger.GetForComponent("keeper"),
		params:     cfg.Params,
		configName: cfg.ConfigName,
	}

	k.logger.Info().
		Str("configName", k.configName).
		Int("configVersion", cfg.Params.Version).
		Msg("Keeper instance created")

	return k, nil
}

// RunLoop starts the main keeper loop with the specified interval.
func (k *Keeper) RunLoop(ctx context.Context, interval time.Duration) {
	k.logger.Info().
		Dur("interval", interval).
		Msg("Starting keeper main loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run first cycle immediately
	k.runCount++
	k.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			k.logger.Info().Msg("Keeper loop stopped due to context cancellation")
			return
		case <-ticker.C:
			k.runCount++
			k.RunCycle(ctx)
		}
	}
}

// RunCycle executes one complete recomputation pass over all tracked pools.
// A failure on one pool skips that pool's snapshot and moves on; the cycle
// itself only aborts when state access fails.
func (k *Keeper) RunCycle(ctx context.Context) {
	runStart := time.Now()

	// Unique run ID for tracing logs across the entire cycle
	runID := uuid.New().String()
	runLogger := k.logger.With().Str("run_id", runID).Int("run", k.runCount).Logger()

	runLogger.Info().Msg("--- Starting rate recomputation cycle ---")

	// Pick up parameter updates made through the authority API since the
	// last run. Keep the previous set when the load fails; a degraded
	// cycle on known-good parameters beats no cycle.
	if fresh, err := state.LoadActiveCurveParameterSet(k.configName); err != nil {
		runLogger.Warn().Err(err).Msg("Failed to reload active curve parameters, keeping current set")
	} else {
		k.params = fresh
	}

	pools, err := state.ListPoolStates()
	if err != nil {
		runLogger.Error().Err(err).Msg("Cycle aborted: failed to load pool states")
		return
	}
	if len(pools) == 0 {
		runLogger.Info().Msg("No tracked pools, nothing to recompute")
		return
	}

	snapshotNumber, err := state.AdvanceSnapshotNumber()
	if err != nil {
		runLogger.Error().Err(err).Msg("Cycle aborted: failed to advance snapshot marker")
		return
	}

	saved := 0
	for _, pool := range pools {
		if err := k.snapshotPool(pool, snapshotNumber, runID, runStart); err != nil {
			runLogger.Error().
				Err(err).
				Uint64("poolId", uint64(pool.PoolID)).
				Msg("Skipping pool snapshot")
			continue
		}
		saved++
	}

	runLogger.Info().
		Int64("snapshotNumber", snapshotNumber).
		Int("poolsTracked", len(pools)).
		Int("snapshotsSaved", saved).
		Dur("elapsed", time.Since(runStart)).
		Msg("--- Rate recomputation cycle completed ---")
}

// snapshotPool computes the quote for one pool and persists it.
func (k *Keeper) snapshotPool(pool types.PoolState, snapshotNumber int64, runID string, ts time.Time) error {
	quote, err := engine.Quote(pool.Cash, pool.Borrows, k.params.Curve.Clone(), k.params.CompoundingPeriods)
	if err != nil {
		return fmt.Errorf("quote failed: %w", err)
	}

	snapshot := types.RateSnapshot{
		SnapshotNumber: snapshotNumber,
		RunID:          runID,
		PoolID:         pool.PoolID,
		Timestamp:      ts,
		ParamsID:       k.params.ParamsID,
	}

	if snapshot.Cash, err = utils.RayToDecimalString(pool.Cash); err != nil {
		return fmt.Errorf("cash: %w", err)
	}
	if snapshot.Borrows, err = utils.RayToDecimalString(pool.Borrows); err != nil {
		return fmt.Errorf("borrows: %w", err)
	}
	if snapshot.Utilization, err = utils.RayToDecimalString(quote.Utilization); err != nil {
		return fmt.Errorf("utilization: %w", err)
	}
	if snapshot.RatePerSecond, err = utils.RayToDecimalString(quote.RatePerSecond); err != nil {
		return fmt.Errorf("rate per second: %w", err)
	}
	if snapshot.APR, err = utils.RayToDecimalString(quote.APR); err != nil {
		return fmt.Errorf("apr: %w", err)
	}
	if snapshot.APY, err = utils.RayToDecimalString(quote.APY); err != nil {
		return fmt.Errorf("apy: %w", err)
	}

	if _, err := state.SaveRateSnapshot(snapshot); err != nil {
		return err
	}
	return nil
}
