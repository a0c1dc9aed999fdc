package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
)

// ValueFlags lists every flag of the CLI that consumes the next argument.
// cmd/client uses it to find positional commands.
var ValueFlags = []string{"-a", "-d", "-t", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the API server
//	-d string   local session database path
//	-t int      request timeout in seconds
//
// Only the flags handled here are passed to the flag set; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local session database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
