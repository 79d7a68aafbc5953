package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
	"github.com/dmitrijs2005/tripshare/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	MaxPinAttempts     int            `json:"max_pin_attempts"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays cfg with the non-empty fields of the file given by
// -c/-config. It panics on read or decode errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxPinAttempts > 0 {
		cfg.MaxPinAttempts = jc.MaxPinAttempts
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
