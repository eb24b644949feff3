// Package services contains application services for the vid2blog client.
// They perform the backend calls behind each screen and keep the session in
// step with the results, while the screen state machines stay network-free.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/otp"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

const (
	MsgPasswordMismatch  = "Passwords do not match"
	MsgSignupFailed      = "Signup failed"
	MsgLoginFailed       = "Invalid email or password"
	MsgSessionExpired    = "Your session has expired. Please log in again."
	MsgSessionSaveFailed = "Could not store your session. Please try again."
)

var ErrPasswordMismatch = errors.New(MsgPasswordMismatch)

// AuthService defines authentication operations for both front ends.
//
// Contract:
//   - SendOTP: request a passcode; in login mode also remember or forget the
//     email according to remember, before the request is made.
//   - VerifyOTP: check a passcode and return the issued session, if any.
//   - CompleteLogin: persist a session and switch to the dashboard.
//   - Register / PasswordLogin: legacy email and password flow.
//   - Logout: drop the session, keeping a remembered email.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SendOTP(ctx context.Context, mode otp.Mode, email string, remember bool) (api.SendOTPResult, error)
	VerifyOTP(ctx context.Context, email, code string) (api.VerifyResult, error)
	CompleteLogin(ctx context.Context, token string, flags session.Flags) error
	Register(ctx context.Context, email string, password, confirm []byte) error
	PasswordLogin(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	RememberedEmail() string
}

type authService struct {
	client api.Client
	router *router.Router
	log    logging.Logger
}

func NewAuthService(client api.Client, r *router.Router, log logging.Logger) AuthService {
	return &authService{client: client, router: r, log: log}
}

func (a *authService) SendOTP(ctx context.Context, mode otp.Mode, email string, remember bool) (api.SendOTPResult, error) {
	if mode == otp.ModeLogin {
		// a failed write only costs the prefill next time
		if err := a.router.Session().SetRememberedEmail(ctx, email, remember); err != nil {
			a.log.Warn(ctx, "could not update remembered email", "error", err)
		}
	}

	res, err := a.client.SendOTP(ctx, email)
	if err != nil {
		a.log.Info(ctx, "send otp failed", "mode", mode.String(), "error", err)
		return api.SendOTPResult{}, err
	}
	a.log.Info(ctx, "otp requested", "mode", mode.String())
	return res, nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) (api.VerifyResult, error) {
	res, err := a.client.VerifyOTP(ctx, email, code)
	if err != nil {
		a.log.Info(ctx, "verify otp failed", "error", err)
		return api.VerifyResult{}, err
	}
	return res, nil
}

func (a *authService) CompleteLogin(ctx context.Context, token string, flags session.Flags) error {
	if token == "" {
		return errors.New("empty session token")
	}
	if err := a.router.Login(ctx, token, flags); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	a.log.Info(ctx, "signed in", "has_hashnode", flags.HasHashnode, "has_groq", flags.HasGroqAPIKey)
	return nil
}

// Register creates an account with the legacy password endpoint.
// Password buffers are wiped before returning.
func (a *authService) Register(ctx context.Context, email string, password, confirm []byte) error {
	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}
	if err := a.client.Signup(ctx, strings.TrimSpace(email), string(password)); err != nil {
		return err
	}
	return nil
}

// PasswordLogin signs in with the legacy endpoint, which returns only a
// token; credential flags are then read from the profile.
func (a *authService) PasswordLogin(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, strings.TrimSpace(email), string(password))
	if err != nil {
		return err
	}
	if err := a.CompleteLogin(ctx, token, session.Flags{}); err != nil {
		return err
	}

	p, err := a.client.Me(ctx)
	if err != nil {
		a.log.Warn(ctx, "profile fetch after login failed", "error", err)
		return nil
	}
	flags := session.Flags{HasHashnode: p.HasHashnode, HasGroqAPIKey: p.HasGroqAPIKey}
	if err := a.router.Session().SetFlags(ctx, flags); err != nil {
		a.log.Warn(ctx, "could not store credential flags", "error", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	err := a.router.Logout(ctx)
	if err != nil {
		a.log.Error(ctx, "logout could not clear stored session", "error", err)
		return err
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) RememberedEmail() string {
	return a.router.Session().RememberedEmail()
}
