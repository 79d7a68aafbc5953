// Package flagx holds the command-line helpers shared by both binaries:
// argument filtering, so each config stage parses only its own flags, and
// lookup of the config and .env file paths.
package flagx

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FilterArgs keeps only the flags named in allowedFlags, with their values.
// Both "-f value" and "-f=value" forms are recognised; a following token
// that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

func stringFlag(short, long, usage string) string {
	var v string
	allowed := []string{"-" + short}
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&v, short, "", usage)
	if long != short {
		allowed = append(allowed, "-"+long)
		fs.StringVar(&v, long, "", usage)
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))
	return v
}

// JsonConfigFlags returns the JSON config path given with -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return stringFlag("c", "config", "path to JSON config file")
}

// EnvFileFlag returns the dotenv path given with -env.
func EnvFileFlag() string {
	return stringFlag("env", "env", "path to .env file")
}

// LoadEnvFile loads the file named by -env into the process environment.
// Variables that are already set win over the file. Without -env it loads
// ./.env when present.
func LoadEnvFile() error {
	path := EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
