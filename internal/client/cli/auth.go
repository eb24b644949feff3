package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/otp"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
)

// readLine and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var readLine = ReadLine
var getSecret = GetSecret

var (
	errNoFlow      = errors.New("no signup or login in progress")
	errNotSignedIn = errors.New("not signed in")
)

func (a *App) startFlow(mode otp.Mode) {
	a.flow = otp.NewFlow(mode, otp.NewCooldown(a.deps.Options.OTPCooldown, a.deps.Now))

	if mode == otp.ModeLogin {
		a.println("Log in to vid2blog")
		if remembered := a.deps.Services.Auth.RememberedEmail(); remembered != "" {
			a.flow.Prefill(remembered)
			a.printf("Remembered email: %s (type 'send' to use it)\n", remembered)
		}
	} else {
		a.println("Create your vid2blog account")
	}
	a.println("Type 'email <address>' then 'send' to receive a 6-digit passcode.")
}

// report prints the flow's error, or otherwise its info line.
func (a *App) report() {
	snap := a.flow.Snapshot()
	switch {
	case snap.Error != "":
		a.println("Error:", snap.Error)
		return
	case snap.Info != "":
		a.println(snap.Info)
	}
	if snap.DevCode != "" {
		a.println("Development passcode:", snap.DevCode)
	}
}

// Email sets the address to send a passcode to.
func (a *App) Email(ctx context.Context, arg string) error {
	if a.flow == nil {
		return errNoFlow
	}
	email, err := a.prompt(arg, "Enter email")
	if err != nil {
		return err
	}
	if !a.flow.SetEmail(email) {
		a.println("A passcode was already sent. Type 'back' to change the email.")
		return otp.ErrWrongState
	}
	return nil
}

// Send requests a passcode for the current email, asking for one first if
// none was given yet.
func (a *App) Send(ctx context.Context) error {
	if a.flow == nil {
		return errNoFlow
	}
	if snap := a.flow.Snapshot(); snap.State == otp.EmailEntry && snap.Email == "" {
		if err := a.Email(ctx, ""); err != nil {
			return err
		}
	}

	email, err := a.flow.BeginSend()
	if err != nil {
		a.failFlow(err)
		return err
	}
	a.println("Sending passcode...")
	res, err := a.deps.Services.Auth.SendOTP(ctx, a.flow.Mode(), email, a.flow.Remember())
	a.flow.ApplySent(res, err)
	a.report()
	if err == nil {
		a.println("Type 'code <digits>' then 'verify'. 'resend' asks for a new code.")
	}
	return err
}

// Code stores the digits of the passcode.
func (a *App) Code(ctx context.Context, arg string) error {
	if a.flow == nil {
		return errNoFlow
	}
	if a.flow.State() != otp.OTPSent {
		a.println("Send a passcode first.")
		return otp.ErrWrongState
	}
	code, err := a.prompt(arg, "Enter the 6-digit passcode")
	if err != nil {
		return err
	}
	a.flow.SetCode(code)
	return nil
}

// Verify checks the passcode. A verified signup moves on to login after a
// short pause; a verified login opens the dashboard.
func (a *App) Verify(ctx context.Context) error {
	if a.flow == nil {
		return errNoFlow
	}
	if snap := a.flow.Snapshot(); snap.State == otp.OTPSent && snap.Code == "" {
		if err := a.Code(ctx, ""); err != nil {
			return err
		}
	}

	email, code, err := a.flow.BeginVerify()
	if err != nil {
		a.failFlow(err)
		return err
	}
	res, err := a.deps.Services.Auth.VerifyOTP(ctx, email, code)
	a.flow.ApplyVerified(err)
	if err != nil {
		a.report()
		return err
	}

	if a.flow.Mode() == otp.ModeSignup {
		a.report()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.deps.Options.SignupRedirectDelay):
		}
		a.enter(ctx, router.Login)
		return nil
	}

	flags := session.Flags{HasHashnode: res.HasHashnode, HasGroqAPIKey: res.HasGroqAPIKey}
	if err := a.deps.Services.Auth.CompleteLogin(ctx, res.Token, flags); err != nil {
		a.deps.Logger.Error(ctx, "storing session failed", "error", err)
		a.flow.Fail(services.MsgSessionSaveFailed)
		a.report()
		return err
	}
	a.enter(ctx, router.Dashboard)
	return nil
}

// Resend asks for a new passcode once the cooldown has run out.
func (a *App) Resend(ctx context.Context) error {
	if a.flow == nil {
		return errNoFlow
	}
	email, err := a.flow.BeginResend()
	if err != nil {
		a.failFlow(err)
		return err
	}
	res, err := a.deps.Services.Auth.SendOTP(ctx, a.flow.Mode(), email, a.flow.Remember())
	a.flow.ApplyResent(res, err)
	a.report()
	return err
}

// Remember sets, or with no argument toggles, "remember my email".
func (a *App) Remember(ctx context.Context, arg string) error {
	if a.flow == nil || a.flow.Mode() != otp.ModeLogin {
		return errNoFlow
	}
	on := !a.flow.Remember()
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
	case "on", "yes", "true":
		on = true
	case "off", "no", "false":
		on = false
	default:
		return fmt.Errorf("remember: expected on or off, got %q", arg)
	}
	a.flow.SetRemember(on)
	if on {
		a.println("Your email will be remembered on this device.")
	} else {
		a.println("Your email will not be remembered.")
	}
	return nil
}

// Back leaves passcode entry, or the whole flow.
func (a *App) Back(ctx context.Context) error {
	if a.flow == nil {
		return errNoFlow
	}
	if a.flow.Back() == otp.BackToEmail {
		a.println("Enter a different email with 'email <address>'.")
		return nil
	}
	a.enter(ctx, router.Landing)
	return nil
}

func (a *App) failFlow(err error) {
	switch {
	case errors.Is(err, otp.ErrCooldownActive):
		a.printf("You can request a new passcode in %ds.\n", a.flow.Snapshot().Cooldown)
	case errors.Is(err, otp.ErrWrongState):
		a.println("That command is not available right now.")
	default:
		a.report()
	}
}

// Register creates an account with email and password.
func (a *App) Register(ctx context.Context) error {
	email, err := readLine(a.reader, a.out, "Enter email")
	if err != nil {
		return err
	}
	password, err := getSecret(a.out, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getSecret(a.out, "Confirm password")
	if err != nil {
		return err
	}

	if err := a.deps.Services.Auth.Register(ctx, email, password, confirm); err != nil {
		if errors.Is(err, services.ErrPasswordMismatch) {
			a.println("Error:", services.MsgPasswordMismatch)
		} else {
			a.println("Error:", api.Message(err, services.MsgSignupFailed))
		}
		return err
	}

	a.println("Account created. Type 'plogin' to sign in.")
	return nil
}

// PasswordLogin signs in with email and password.
func (a *App) PasswordLogin(ctx context.Context) error {
	email, err := readLine(a.reader, a.out, "Enter email")
	if err != nil {
		return err
	}
	password, err := getSecret(a.out, "Enter password")
	if err != nil {
		return err
	}

	if err := a.deps.Services.Auth.PasswordLogin(ctx, email, password); err != nil {
		a.println("Error:", api.Message(err, services.MsgLoginFailed))
		return err
	}
	a.enter(ctx, router.Dashboard)
	return nil
}

// Logout drops the session and returns to the landing screen.
func (a *App) Logout(ctx context.Context) error {
	err := a.deps.Services.Auth.Logout(ctx)
	if err != nil {
		a.println("Error: could not clear the stored session:", err)
	}
	a.enter(ctx, router.Landing)
	return err
}
