package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/openlend/rate-engine/internal/config"
	"github.com/openlend/rate-engine/internal/keeper"
	"github.com/openlend/rate-engine/internal/logger"
	"github.com/openlend/rate-engine/internal/state"
	"github.com/openlend/rate-engine/internal/web"
)

// main is the entry point for the rate engine service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Rate engine starting...")

	// Initialize Database Connection
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Load Curve Parameters
	curveParams, err := state.LoadActiveCurveParameterSet(keeper.DEFAULT_CONFIG_NAME)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load active curve parameters, using defaults and saving.")
		defaultSet := config.DefaultCurveParameterSet
		if err := config.ValidateParameterSet(defaultSet); err != nil {
			log.Fatal().Err(err).Msg("Default curve parameters failed validation.")
		}
		if _, err := state.SaveCurveParameterSet(defaultSet, true); err != nil {
			log.Fatal().Err(err).Msg("Failed to save initial default curve parameters.")
		}
		curveParams = &defaultSet
	}
	log.Info().Msg("Curve parameters loaded successfully.")

	// --- 2. Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	if webPort == "" {
		webPort = "8080"
	}

	webServer := web.NewWebServer(webPort, keeper.DEFAULT_CONFIG_NAME)
	go func() {
		log.Info().Str("port", webPort).Str("url", "http://localhost:"+webPort).Msg("Starting rate engine API")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 3. Create Keeper Instance with Dependency Injection ---
	keeperInstance, err := keeper.NewKeeper(keeper.Config{
		Params:     curveParams,
		ConfigName: keeper.DEFAULT_CONFIG_NAME,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create keeper instance")
	}

	// --- 4. Start Keeper Main Loop ---
	interval := time.Duration(config.KeeperIntervalSeconds) * time.Second
	log.Info().Str("interval", interval.String()).Msg("Starting keeper main loop")

	ctx := context.Background()
	keeperInstance.RunLoop(ctx, interval)
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
