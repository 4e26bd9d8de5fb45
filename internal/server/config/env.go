package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays settings from environment variables. Unset or empty
// variables leave the current value alone.
//
//	FILMVAULT_ADDR            HTTP bind address
//	FILMVAULT_METRICS_ADDR    metrics bind address
//	DATABASE_DSN              PostgreSQL DSN
//	JWT_SECRET                session token signing secret
//	BCRYPT_COST               password hashing cost
//	FILMVAULT_ENV             "production" enables secure cookies
//	LOG_LEVEL                 log level
//	OMDB_API_KEY              OMDb API key
//	OMDB_BASE_URL             OMDb base URL
//	OMDB_TIMEOUT              OMDb request timeout, e.g. "5s"
func parseEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}

	str("FILMVAULT_ADDR", &cfg.EndpointAddr)
	str("FILMVAULT_METRICS_ADDR", &cfg.MetricsAddr)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("JWT_SECRET", &cfg.SecretKey)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("OMDB_API_KEY", &cfg.OMDbAPIKey)
	str("OMDB_BASE_URL", &cfg.OMDbBaseURL)

	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = cost
	}

	if v := getenv("FILMVAULT_ENV"); v != "" {
		cfg.Production = v == "production"
	}

	if v := getenv("OMDB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OMDB_TIMEOUT: %w", err)
		}
		cfg.OMDbTimeout = d
	}

	return nil
}
