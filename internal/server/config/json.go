package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filmvault/internal/flagx"
	"github.com/dmitrijs2005/filmvault/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer and
// zero-value fields that are absent from the file leave the defaults alone.
type JsonConfig struct {
	EndpointAddr    string          `json:"endpoint_addr"`
	MetricsAddr     *string         `json:"metrics_addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	BcryptCost      int             `json:"bcrypt_cost"`
	Production      *bool           `json:"production"`
	LogLevel        string          `json:"log_level"`
	OMDbAPIKey      string          `json:"omdb_api_key"`
	OMDbBaseURL     string          `json:"omdb_base_url"`
	OMDbTimeout     *timex.Duration `json:"omdb_timeout"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.Production != nil {
		config.Production = *c.Production
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.OMDbAPIKey != "" {
		config.OMDbAPIKey = c.OMDbAPIKey
	}
	if c.OMDbBaseURL != "" {
		config.OMDbBaseURL = c.OMDbBaseURL
	}
	if c.OMDbTimeout != nil {
		config.OMDbTimeout = c.OMDbTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
