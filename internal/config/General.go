package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// AdminToken is the bearer token the authority layer requires before
	// accepting curve parameter updates over the API.
	AdminToken string

	// KeeperIntervalSeconds is how often the keeper recomputes and
	// snapshots rates for every tracked pool.
	KeeperIntervalSeconds uint64
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// All environment variables are required and must be set.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	AdminToken, err = getEnv("ADMIN_API_TOKEN")
	if err != nil {
		return err
	}

	KeeperIntervalSeconds, err = getEnvAsUint64("KEEPER_INTERVAL_SECONDS")
	if err != nil {
		return err
	}
	if KeeperIntervalSeconds == 0 {
		return errors.New("environment variable KEEPER_INTERVAL_SECONDS must be greater than zero")
	}

	log.Debug().
		Uint64("KeeperIntervalSeconds", KeeperIntervalSeconds).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvAsUint64 retrieves an environment variable as a uint64. Returns error if not set or invalid.
func getEnvAsUint64(key string) (uint64, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid uint64, got: " + valueStr)
	}
	return value, nil
}
