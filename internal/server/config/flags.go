package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/filmvault/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":3000")
//	-m string        metrics bind address, empty to disable
//	-d string        PostgreSQL DSN
//	-s string        session token HMAC secret
//	-k int           bcrypt cost
//	-l string        log level
//	-o string        OMDb API key
//	-production      secure session cookies
//
// The arguments are filtered with flagx.FilterArgs first, so flags owned by
// other components (e.g. -c for the JSON file) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-s", "-k", "-l", "-o", "-production"})

	fs := flag.NewFlagSet("filmvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.OMDbAPIKey, "o", config.OMDbAPIKey, "OMDb API key")
	fs.BoolVar(&config.Production, "production", config.Production, "production mode (secure cookies)")

	return fs.Parse(args)
}
