package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
)

const (
	envGRPCAddr         = "TRIPSHARE_GRPC_ADDR"
	envRESTAddr         = "TRIPSHARE_REST_ADDR"
	envDatabaseDSN      = "TRIPSHARE_DATABASE_DSN"
	envSecretKey        = "TRIPSHARE_SECRET_KEY"
	envSecretKeyID      = "TRIPSHARE_SECRET_KEY_ID"
	envTokenTTL         = "TRIPSHARE_TOKEN_TTL"
	envStalenessBackend = "TRIPSHARE_STALENESS_BACKEND"
	envRedisAddr        = "TRIPSHARE_REDIS_ADDR"
	envArchiveEnabled   = "TRIPSHARE_ARCHIVE"
	envS3User           = "TRIPSHARE_S3_USER"
	envS3Password       = "TRIPSHARE_S3_PASSWORD"
	envS3Bucket         = "TRIPSHARE_S3_BUCKET"
	envS3Region         = "TRIPSHARE_S3_REGION"
	envS3Endpoint       = "TRIPSHARE_S3_ENDPOINT"
	envSeedFile         = "TRIPSHARE_SEED_FILE"
	envLogLevel         = "TRIPSHARE_LOG_LEVEL"
)

// parseEnv loads the dotenv file (-env, or ./.env) and overlays cfg with
// the TRIPSHARE_* variables that are set. Malformed values panic.
func parseEnv(cfg *Config) {
	if err := flagx.LoadEnvFile(); err != nil {
		panic(err)
	}

	strs := map[string]*string{
		envGRPCAddr:         &cfg.EndpointAddrGRPC,
		envRESTAddr:         &cfg.EndpointAddrREST,
		envDatabaseDSN:      &cfg.DatabaseDSN,
		envSecretKey:        &cfg.SecretKey,
		envSecretKeyID:      &cfg.SecretKeyID,
		envStalenessBackend: &cfg.StalenessBackend,
		envRedisAddr:        &cfg.RedisAddr,
		envS3User:           &cfg.S3RootUser,
		envS3Password:       &cfg.S3RootPassword,
		envS3Bucket:         &cfg.S3Bucket,
		envS3Region:         &cfg.S3Region,
		envS3Endpoint:       &cfg.S3BaseEndpoint,
		envSeedFile:         &cfg.SeedFile,
		envLogLevel:         &cfg.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envTokenTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	if v, ok := os.LookupEnv(envArchiveEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.ArchiveEnabled = b
	}
}
