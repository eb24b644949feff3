package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API
//	-d string   path of the sqlite session store
//	-u string   user interface: tui or repl
//	-l string   log level
//	-t int      request timeout in seconds
//	-insecure   skip TLS certificate verification
//
// Only these flags are taken from os.Args (see flagx.FilterArgs), so the
// config-file flags and anything else on the command line do not interfere.
// A malformed value panics.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"a", "d", "u", "l", "t"}, "insecure")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local session database")
	fs.StringVar(&cfg.UIMode, "u", cfg.UIMode, "user interface: tui or repl")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Insecure, "insecure", cfg.Insecure, "skip TLS certificate verification")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
