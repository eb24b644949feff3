package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.APIURL)
	assert.Equal(t, 20*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Minute, c.UploadTimeout)
	assert.Equal(t, UIModeTUI, c.UIMode)
	assert.Equal(t, 3*time.Second, c.ProgressInterval)
	assert.Equal(t, 60*time.Second, c.OTPCooldown)
	assert.Equal(t, 2*time.Second, c.SignupRedirectDelay)
	assert.Equal(t, 4*time.Second, c.NoticeTTL)
	assert.False(t, c.Insecure)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIURL)
	assert.Equal(t, "vid2blog.db", cfg.DatabasePath)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_url":  "http://from-json:1",
		"ui_mode":  "repl",
		"log_file": "",
	})
	t.Setenv("VID2BLOG_API_URL", "http://from-env:1")
	t.Setenv("VID2BLOG_DB", "env.db")
	os.Args = []string{"testbin", "-c", path, "-a", "http://from-flag:1"}

	cfg := LoadConfig()

	assert.Equal(t, "http://from-flag:1", cfg.APIURL)
	assert.Equal(t, "env.db", cfg.DatabasePath)
	assert.Equal(t, UIModeREPL, cfg.UIMode)
	assert.Empty(t, cfg.LogFile)
}
