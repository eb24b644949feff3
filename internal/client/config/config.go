package config

import "time"

// UI modes accepted by -u / ui_mode.
const (
	UIModeTUI  = "tui"
	UIModeREPL = "repl"
)

// Config holds runtime settings for the vid2blog client.
//
// Fields:
//   - APIURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-request timeout for JSON calls.
//   - UploadTimeout: timeout for the multipart /convert call.
//   - DatabasePath: sqlite file holding the durable session.
//   - UIMode: "tui" (full screen) or "repl" (line oriented).
//   - ProgressInterval: how often the simulated upload progress advances.
//   - OTPCooldown: wait before another OTP may be requested.
//   - SignupRedirectDelay: pause between signup verification and the login screen.
//   - NoticeTTL: how long a dashboard notice stays on screen.
type Config struct {
	APIURL              string
	RequestTimeout      time.Duration
	UploadTimeout       time.Duration
	Insecure            bool
	DatabasePath        string
	UIMode              string
	ProgressInterval    time.Duration
	OTPCooldown         time.Duration
	SignupRedirectDelay time.Duration
	NoticeTTL           time.Duration
	LogLevel            string
	LogFormat           string
	LogFile             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 20 * time.Second
	c.UploadTimeout = 10 * time.Minute
	c.Insecure = false
	c.DatabasePath = "vid2blog.db"
	c.UIMode = UIModeTUI
	c.ProgressInterval = 3 * time.Second
	c.OTPCooldown = 60 * time.Second
	c.SignupRedirectDelay = 2 * time.Second
	c.NoticeTTL = 4 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = "vid2blog.log"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), a JSON file and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
