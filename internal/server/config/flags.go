package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
)

// parseFlags overlays config with command-line flags (short forms):
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-w string   REST bind address, empty disables the gateway
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-k string   Secrets Manager id of the JWT secret
//	-t int      access token validity, minutes
//	-m string   staleness backend: postgres or redis
//	-x string   redis address
//	-z          archive generated schedules to S3
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-seed string YAML seed file
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-w", "-d", "-s", "-k", "-t", "-m", "-x", "-z",
		"-u", "-p", "-b", "-g", "-e", "-seed", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrREST, "w", config.EndpointAddrREST, "REST address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SecretKeyID, "k", config.SecretKeyID, "secret key id in AWS Secrets Manager")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.StalenessBackend, "m", config.StalenessBackend, "staleness backend (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "redis address")
	fs.BoolVar(&config.ArchiveEnabled, "z", config.ArchiveEnabled, "archive schedules to S3")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SeedFile, "seed", config.SeedFile, "YAML seed file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
