package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   address and port of the backend server
//	-t int      request timeout in seconds
//	-r int      failed PIN attempts before a profile is released
//	-l string   log level (debug, info, warn, error)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.MaxPinAttempts, "r", cfg.MaxPinAttempts, "failed PIN attempts before the profile is released")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
