// Package otp implements the email one-time-passcode signup and login flow.
//
// The Flow is a plain state machine. Network calls are made elsewhere: the
// caller asks the Flow to Begin an action, which validates locally and marks
// the flow as loading, performs the request, then hands the outcome back
// through the matching Apply method.
package otp

import (
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/common"
)

type Mode int

const (
	ModeSignup Mode = iota
	ModeLogin
)

func (m Mode) String() string {
	if m == ModeLogin {
		return "login"
	}
	return "signup"
}

type State int

const (
	EmailEntry State = iota
	OTPSent
	Verified
)

func (s State) String() string {
	switch s {
	case OTPSent:
		return "otp-sent"
	case Verified:
		return "verified"
	}
	return "email-entry"
}

// BackTarget says where Back took the user.
type BackTarget int

const (
	BackToEmail BackTarget = iota
	BackToLanding
)

const (
	MsgInvalidEmail = "Please enter a valid email address"
	MsgInvalidCode  = "Please enter a valid 6-digit OTP"
	MsgSendFailed   = "Failed to send OTP. Please try again."
	MsgVerifyFailed = "Invalid OTP. Please try again."
	MsgResendFailed = "Failed to resend OTP"
	MsgSent         = "We've sent a 6-digit OTP to your email. It will expire in 10 minutes."
	MsgResent       = "A new OTP has been sent to your email."
	MsgVerified     = "Email Verified Successfully! Redirecting to login..."
)

var (
	ErrInvalidEmail   = errors.New(MsgInvalidEmail)
	ErrInvalidCode    = errors.New(MsgInvalidCode)
	ErrCooldownActive = errors.New("resend is not available yet")
	ErrBusy           = errors.New("a request is already in flight")
	ErrWrongState     = errors.New("action not available in the current state")
)

// Flow holds the transient state of one signup or login attempt.
type Flow struct {
	mu sync.Mutex

	mode     Mode
	state    State
	email    string
	code     string
	remember bool
	loading  bool
	errText  string
	info     string
	devCode  string
	cooldown *Cooldown
}

func NewFlow(mode Mode, cooldown *Cooldown) *Flow {
	return &Flow{mode: mode, cooldown: cooldown}
}

// Snapshot is a read-only copy of the flow for rendering.
type Snapshot struct {
	Mode     Mode
	State    State
	Email    string
	Code     string
	Remember bool
	Loading  bool
	Error    string
	Info     string
	// DevCode is the passcode echoed by a development backend.
	DevCode  string
	Cooldown int
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Mode:     f.mode,
		State:    f.state,
		Email:    f.email,
		Code:     f.code,
		Remember: f.remember,
		Loading:  f.loading,
		Error:    f.errText,
		Info:     f.info,
		DevCode:  f.devCode,
		Cooldown: f.cooldown.Remaining(),
	}
}

func (f *Flow) Mode() Mode { return f.mode }

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetEmail replaces the email unless a code has already been sent for it.
// It reports whether the value was accepted.
func (f *Flow) SetEmail(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != EmailEntry {
		return false
	}
	f.email = strings.TrimSpace(email)
	f.errText = ""
	return true
}

// SetCode stores only the digits of code, at most six of them.
func (f *Flow) SetCode(code string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = common.OnlyDigits(code, common.OTPLength)
	f.errText = ""
	return f.code
}

// SetRemember toggles "remember email". It has no effect in signup mode.
func (f *Flow) SetRemember(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeLogin {
		f.remember = on
	}
}

// BeginSend validates the email and marks the flow busy. The returned email
// is the one to request a code for.
func (f *Flow) BeginSend() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return "", ErrBusy
	}
	if f.state != EmailEntry {
		return "", ErrWrongState
	}
	if f.email == "" || !strings.Contains(f.email, "@") {
		f.errText = MsgInvalidEmail
		return "", ErrInvalidEmail
	}
	f.loading = true
	f.errText = ""
	f.info = ""
	return f.email, nil
}

// ApplySent records the outcome of the send-otp call.
func (f *Flow) ApplySent(res api.SendOTPResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loading = false
	if err != nil {
		f.errText = api.Message(err, MsgSendFailed)
		return
	}
	f.state = OTPSent
	f.errText = ""
	f.info = MsgSent
	f.devCode = res.OTP
	f.cooldown.Restart()
}

// BeginResend requires the cooldown to have run out.
func (f *Flow) BeginResend() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return "", ErrBusy
	}
	if f.state != OTPSent {
		return "", ErrWrongState
	}
	if f.cooldown.Active() {
		return "", ErrCooldownActive
	}
	f.loading = true
	return f.email, nil
}

func (f *Flow) ApplyResent(res api.SendOTPResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loading = false
	if err != nil {
		f.errText = api.Message(err, MsgResendFailed)
		return
	}
	f.errText = ""
	f.info = MsgResent
	f.devCode = res.OTP
	f.cooldown.Restart()
}

// BeginVerify requires exactly six digits. It returns the email and code to
// verify.
func (f *Flow) BeginVerify() (email, code string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return "", "", ErrBusy
	}
	if f.state != OTPSent {
		return "", "", ErrWrongState
	}
	if len(f.code) != common.OTPLength {
		f.errText = MsgInvalidCode
		return "", "", ErrInvalidCode
	}
	f.loading = true
	f.errText = ""
	return f.email, f.code, nil
}

// ApplyVerified records the outcome of verify-otp. In signup mode success
// moves to Verified; in login mode the caller hands the session to the
// router and the flow is discarded.
func (f *Flow) ApplyVerified(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loading = false
	if err != nil {
		f.errText = api.Message(err, MsgVerifyFailed)
		return
	}
	f.errText = ""
	if f.mode == ModeSignup {
		f.state = Verified
		f.info = MsgVerified
	}
}

// Back steps out of OTP entry, clearing the code, or leaves the flow.
func (f *Flow) Back() BackTarget {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == OTPSent {
		f.state = EmailEntry
		f.code = ""
		f.errText = ""
		f.info = ""
		f.devCode = ""
		return BackToEmail
	}
	return BackToLanding
}

// Prefill seeds the email and remember toggle from a remembered address.
func (f *Flow) Prefill(email string) {
	if email == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == EmailEntry && f.mode == ModeLogin {
		f.email = email
		f.remember = true
	}
}

// Remember reports whether the email should be persisted on send.
func (f *Flow) Remember() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remember
}

// Fail sets an error message without changing state; used for failures
// outside the flow such as persisting the session.
func (f *Flow) Fail(msg string) {
	f.mu.Lock()
	f.errText = msg
	f.loading = false
	f.mu.Unlock()
}
