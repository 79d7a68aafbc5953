package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
)

const (
	envServerAddr     = "TRIPSHARE_SERVER_ADDR"
	envRequestTimeout = "TRIPSHARE_REQUEST_TIMEOUT"
	envMaxPinAttempts = "TRIPSHARE_MAX_PIN_ATTEMPTS"
	envLogLevel       = "TRIPSHARE_LOG_LEVEL"
)

// parseEnv loads the dotenv file (-env, or ./.env) and overlays cfg with
// the TRIPSHARE_* variables that are set. Malformed values panic, like the
// other config stages.
func parseEnv(cfg *Config) {
	if err := flagx.LoadEnvFile(); err != nil {
		panic(err)
	}

	if v, ok := os.LookupEnv(envServerAddr); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := os.LookupEnv(envRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envMaxPinAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.MaxPinAttempts = n
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}
