// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the vid2blog development backend.
//
// Fields:
//   - Addr: HTTP listen address.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Development only.
//   - TokenValidity: lifetime of a session token.
//   - OTPValidity: lifetime of an issued passcode.
//   - OTPMaxAttempts: wrong guesses tolerated before a passcode is burnt.
//   - DevMode: echo passcodes in the send-otp response.
//   - VaultPassphrase: passphrase the credential vault key is derived from.
//   - MonthlyLimitMinutes: minutes of video each user may convert per month.
//   - ConversionsPerHour: per-user conversion rate limit.
//   - ProcessingDelay: artificial delay added to every conversion.
type Config struct {
	Addr                string
	SecretKey           string
	TokenValidity       time.Duration
	OTPValidity         time.Duration
	OTPMaxAttempts      int
	DevMode             bool
	VaultPassphrase     string
	MonthlyLimitMinutes float64
	ConversionsPerHour  int
	ProcessingDelay     time.Duration
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are fixed and only suitable for local use.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "dev-secret-key"
	c.TokenValidity = 24 * time.Hour
	c.OTPValidity = 10 * time.Minute
	c.OTPMaxAttempts = 5
	c.DevMode = true
	c.VaultPassphrase = "dev-vault-passphrase"
	c.MonthlyLimitMinutes = 120
	c.ConversionsPerHour = 5
	c.ProcessingDelay = 8 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
