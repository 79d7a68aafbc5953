package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
	"github.com/dmitrijs2005/tripshare/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations
// accept both "12h" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrREST            string         `json:"endpoint_addr_rest"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SecretKeyID                 string         `json:"secret_key_id"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	StalenessBackend            string         `json:"staleness_backend"`
	RedisAddr                   string         `json:"redis_addr"`
	ArchiveEnabled              *bool          `json:"archive_enabled"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	SeedFile                    string         `json:"seed_file"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays config with the fields present in the file given by
// -c/-config. Missing or empty fields keep their current values. It
// panics when the file cannot be read or decoded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.EndpointAddrREST, c.EndpointAddrREST)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.SecretKeyID, c.SecretKeyID)
	overlay(&config.StalenessBackend, c.StalenessBackend)
	overlay(&config.RedisAddr, c.RedisAddr)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.SeedFile, c.SeedFile)
	overlay(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ArchiveEnabled != nil {
		config.ArchiveEnabled = *c.ArchiveEnabled
	}
}
