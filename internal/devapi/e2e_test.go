package devapi_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/devapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClientAgainstDevBackend walks the client through a complete session:
// passcode sign-in, credential setup, a conversion and the history listing.
func TestClientAgainstDevBackend(t *testing.T) {
	store := devapi.NewStore(devapi.StoreOptions{
		VaultKey:           make([]byte, 32),
		OTPValidity:        time.Minute,
		MonthlyLimit:       120,
		ConversionsPerHour: 5,
	})
	srv := httptest.NewServer(devapi.NewServer(store, devapi.Options{
		SecretKey: []byte("e2e"),
		DevMode:   true,
	}).Handler())
	t.Cleanup(srv.Close)

	var token string
	c, err := api.New(api.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Token:   func() string { return token },
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Me(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	sent, err := c.SendOTP(ctx, "writer@example.com")
	require.NoError(t, err)
	require.Len(t, sent.OTP, 6)

	_, err = c.VerifyOTP(ctx, "writer@example.com", "12345")
	require.Error(t, err)
	assert.False(t, errors.Is(err, api.ErrUnauthorized), "anonymous failures are not session expiry")

	v, err := c.VerifyOTP(ctx, "writer@example.com", sent.OTP)
	require.NoError(t, err)
	require.NotEmpty(t, v.Token)
	assert.False(t, v.HasHashnode)
	token = v.Token

	require.NoError(t, c.SaveHashnodeToken(ctx, "hn-token"))
	require.NoError(t, c.SaveGroqAPIKey(ctx, "gsk_key"))

	p, err := c.Me(ctx)
	require.NoError(t, err)
	assert.True(t, p.HasHashnode)
	assert.True(t, p.HasGroqAPIKey)
	assert.EqualValues(t, 120, p.MonthlyLimit)

	video := filepath.Join(t.TempDir(), "launch-day.mp4")
	require.NoError(t, os.WriteFile(video, make([]byte, 4096), 0o600))

	res, err := c.Convert(ctx, api.Upload{Path: video, Name: "launch-day.mp4", ContentType: "video/mp4", Size: 4096})
	require.NoError(t, err)
	assert.Equal(t, "Launch Day", res.ArticleTitle)
	assert.NotEmpty(t, res.DraftURL)

	hist, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, res.ID, hist[0].ID)
	assert.Equal(t, "launch-day.mp4", hist[0].VideoName)

	p, err = c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.DailyCount)
	assert.Greater(t, p.MonthlyMinutesUsed, 0.0)

	token = "not-a-jwt"
	_, err = c.History(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestClientAgainstDevBackend_PasswordFlow(t *testing.T) {
	store := devapi.NewStore(devapi.StoreOptions{VaultKey: make([]byte, 32)})
	srv := httptest.NewServer(devapi.NewServer(store, devapi.Options{SecretKey: []byte("e2e")}).Handler())
	t.Cleanup(srv.Close)

	c, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Signup(ctx, "pw@example.com", "secret"))

	err = c.Signup(ctx, "pw@example.com", "secret")
	require.Error(t, err)
	assert.Equal(t, "User already exists", api.Message(err, "Signup failed"))

	_, err = c.Login(ctx, "pw@example.com", "wrong")
	require.Error(t, err)

	tok, err := c.Login(ctx, "pw@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}
