package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/flagx"
	"github.com/dmitrijs2005/vid2blog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer and timex.Duration fields let parseJson tell "absent" from
// "zero", so a partial file only overrides the keys it mentions.
type JsonConfig struct {
	APIURL              string         `json:"api_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	UploadTimeout       timex.Duration `json:"upload_timeout"`
	Insecure            *bool          `json:"insecure"`
	DatabasePath        string         `json:"database_path"`
	UIMode              string         `json:"ui_mode"`
	ProgressInterval    timex.Duration `json:"progress_interval"`
	OTPCooldown         timex.Duration `json:"otp_cooldown"`
	SignupRedirectDelay timex.Duration `json:"signup_redirect_delay"`
	NoticeTTL           timex.Duration `json:"notice_ttl"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	LogFile             *string        `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and unmarshal
// errors panic; the caller asked for that file explicitly.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.UIMode, jc.UIMode)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.Insecure != nil {
		cfg.Insecure = *jc.Insecure
	}

	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.UploadTimeout, jc.UploadTimeout)
	setDuration(&cfg.ProgressInterval, jc.ProgressInterval)
	setDuration(&cfg.OTPCooldown, jc.OTPCooldown)
	setDuration(&cfg.SignupRedirectDelay, jc.SignupRedirectDelay)
	setDuration(&cfg.NoticeTTL, jc.NoticeTTL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.IsSet() {
		*dst = v.Duration
	}
}
