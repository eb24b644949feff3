package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is read, when present, before the process environment is
// consulted. Variables already set in the environment are not overridden.
var dotenvFile = ".env"

// parseEnv overlays Config with VID2BLOG_* environment variables.
//
// Supported variables:
//
//	VID2BLOG_API_URL          base URL of the backend
//	VID2BLOG_REQUEST_TIMEOUT  duration, e.g. "15s"
//	VID2BLOG_UPLOAD_TIMEOUT   duration, e.g. "5m"
//	VID2BLOG_INSECURE         bool, skip TLS verification
//	VID2BLOG_DB               path of the sqlite session store
//	VID2BLOG_UI               tui | repl
//	VID2BLOG_LOG_LEVEL        debug | info | warn | error
//	VID2BLOG_LOG_FORMAT       text | json | zerolog
//	VID2BLOG_LOG_FILE         log destination ("" for stderr)
//
// Malformed durations and booleans panic, matching the JSON and flag loaders.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv("VID2BLOG_API_URL"); ok {
		cfg.APIURL = v
	}
	if v, ok := os.LookupEnv("VID2BLOG_REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration(v)
	}
	if v, ok := os.LookupEnv("VID2BLOG_UPLOAD_TIMEOUT"); ok {
		cfg.UploadTimeout = mustDuration(v)
	}
	if v, ok := os.LookupEnv("VID2BLOG_INSECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.Insecure = b
	}
	if v, ok := os.LookupEnv("VID2BLOG_DB"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("VID2BLOG_UI"); ok {
		cfg.UIMode = v
	}
	if v, ok := os.LookupEnv("VID2BLOG_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("VID2BLOG_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := os.LookupEnv("VID2BLOG_LOG_FILE"); ok {
		cfg.LogFile = v
	}
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
