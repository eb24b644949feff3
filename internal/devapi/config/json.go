package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vid2blog/internal/flagx"
	"github.com/dmitrijs2005/vid2blog/internal/timex"
)

// JsonConfig is a DTO used only for reading JSON configuration files.
// Durations accept "10m" strings or integer nanoseconds.
type JsonConfig struct {
	Addr                string         `json:"addr"`
	SecretKey           string         `json:"secret_key"`
	TokenValidity       timex.Duration `json:"token_validity"`
	OTPValidity         timex.Duration `json:"otp_validity"`
	OTPMaxAttempts      int            `json:"otp_max_attempts"`
	DevMode             *bool          `json:"dev_mode"`
	VaultPassphrase     string         `json:"vault_passphrase"`
	MonthlyLimitMinutes float64        `json:"monthly_limit_minutes"`
	ConversionsPerHour  int            `json:"conversions_per_hour"`
	ProcessingDelay     timex.Duration `json:"processing_delay"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson loads the file named by -c or -config, if any, over cfg.
// Unset keys keep their current value. Read or decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.TokenValidity.IsSet() {
		cfg.TokenValidity = c.TokenValidity.Duration
	}
	if c.OTPValidity.IsSet() {
		cfg.OTPValidity = c.OTPValidity.Duration
	}
	if c.OTPMaxAttempts > 0 {
		cfg.OTPMaxAttempts = c.OTPMaxAttempts
	}
	if c.DevMode != nil {
		cfg.DevMode = *c.DevMode
	}
	if c.VaultPassphrase != "" {
		cfg.VaultPassphrase = c.VaultPassphrase
	}
	if c.MonthlyLimitMinutes > 0 {
		cfg.MonthlyLimitMinutes = c.MonthlyLimitMinutes
	}
	if c.ConversionsPerHour > 0 {
		cfg.ConversionsPerHour = c.ConversionsPerHour
	}
	if c.ProcessingDelay.IsSet() {
		cfg.ProcessingDelay = c.ProcessingDelay.Duration
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
}
