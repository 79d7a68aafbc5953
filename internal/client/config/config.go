package config

import "time"

// Config holds runtime settings for the tripshare CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	MaxPinAttempts     int
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.MaxPinAttempts = 5
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the environment (including a dotenv
// file), then a JSON file, then command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
