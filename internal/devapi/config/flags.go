package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/vid2blog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     listen address (e.g. ":8080")
//	-s string     JWT HMAC secret key
//	-l string     log level
//	-delay dur    artificial processing delay per conversion (e.g. "5s")
//	-m float      monthly limit in minutes
//	-dev          echo OTP codes in responses
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"a", "s", "l", "delay", "m"}, "dev")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.ProcessingDelay, "delay", cfg.ProcessingDelay, "artificial processing delay per conversion")
	fs.Float64Var(&cfg.MonthlyLimitMinutes, "m", cfg.MonthlyLimitMinutes, "monthly limit (in minutes)")
	fs.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "echo OTP codes in send-otp responses")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
