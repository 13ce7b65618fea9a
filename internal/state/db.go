// ./internal/state/db.go
package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
// Ray values are stored as NUMERIC(78, 0): wide enough for any 256-bit
// integer, exact, and comparable in SQL.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS curve_parameters (
			params_id SERIAL PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			config_name VARCHAR(255) NOT NULL DEFAULT 'default',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			activated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			kink_utilization NUMERIC(78, 0) NOT NULL,
			slope_below_kink NUMERIC(78, 0) NOT NULL,
			slope_above_kink NUMERIC(78, 0) NOT NULL,
			base_rate_per_second NUMERIC(78, 0) NOT NULL,
			fee_basis_points INTEGER NOT NULL,
			compounding_periods INTEGER NOT NULL,
			CONSTRAINT uq_curve_parameters_config_version UNIQUE (config_name, version)
		);
		CREATE INDEX IF NOT EXISTS idx_curve_parameters_config_active_timestamp ON curve_parameters(config_name, is_active, activated_at DESC);

		CREATE TABLE IF NOT EXISTS pool_states (
			pool_id BIGINT PRIMARY KEY,
			cash NUMERIC(78, 0) NOT NULL,
			borrows NUMERIC(78, 0) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS rate_snapshots (
			snapshot_id SERIAL PRIMARY KEY,
			snapshot_number BIGINT NOT NULL,
			run_id VARCHAR(36) NOT NULL,
			pool_id BIGINT NOT NULL,
			snapshot_timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			params_id INTEGER REFERENCES curve_parameters(params_id),
			cash NUMERIC(78, 0) NOT NULL,
			borrows NUMERIC(78, 0) NOT NULL,
			utilization NUMERIC(78, 0) NOT NULL,
			rate_per_second NUMERIC(78, 0) NOT NULL,
			apr NUMERIC(78, 0) NOT NULL,
			apy NUMERIC(78, 0) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rate_snapshots_timestamp ON rate_snapshots(snapshot_timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_rate_snapshots_number ON rate_snapshots(snapshot_number DESC);
		CREATE INDEX IF NOT EXISTS idx_rate_snapshots_pool_id ON rate_snapshots(pool_id);

		-- Snapshot counter table for the persistent, monotonically
		-- increasing marker the keeper advances on each recomputation.
		CREATE TABLE IF NOT EXISTS snapshot_counter (
			id INTEGER PRIMARY KEY DEFAULT 1,
			current_snapshot BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT single_row_check CHECK (id = 1)
		);

		-- Insert initial row if it doesn't exist
		INSERT INTO snapshot_counter (id, current_snapshot)
		VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err := DB.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}
	log.Info().Msg("Database schema ensured.")
	return nil
}

// TestDBConnection tests if the database connection is healthy
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Use a short timeout context for health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := DB.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
