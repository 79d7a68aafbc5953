// Package config loads runtime configuration for the tripshare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: TRIPSHARE_SERVER_ADDR, TRIPSHARE_REQUEST_TIMEOUT,
//     TRIPSHARE_MAX_PIN_ATTEMPTS, TRIPSHARE_LOG_LEVEL, optionally read from
//     a dotenv file given with -env (./.env by default).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "max_pin_attempts": 5,
//	  "log_level": "warn"
//	}
package config
