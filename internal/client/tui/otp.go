package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/otp"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
)

type sentMsg struct {
	res    api.SendOTPResult
	err    error
	resend bool
}

type verifiedMsg struct {
	res api.VerifyResult
	err error
}

type redirectMsg struct{}

// otpScreen serves both the signup and the login screen.
type otpScreen struct {
	env  *env
	flow *otp.Flow

	email textinput.Model
	code  textinput.Model
	spin  spinner.Model
}

func newOTPScreen(e *env, login bool) *otpScreen {
	mode := otp.ModeSignup
	if login {
		mode = otp.ModeLogin
	}
	flow := otp.NewFlow(mode, otp.NewCooldown(e.deps.Options.OTPCooldown, e.deps.Now))

	email := textinput.New()
	email.Prompt = "Email: "
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	code := textinput.New()
	code.Prompt = "OTP: "
	code.Placeholder = "6-digit code"

	s := &otpScreen{
		env:   e,
		flow:  flow,
		email: email,
		code:  code,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	if login {
		if remembered := e.deps.Services.Auth.RememberedEmail(); remembered != "" {
			flow.Prefill(remembered)
			s.email.SetValue(remembered)
		}
	}
	return s
}

func (s *otpScreen) Init() tea.Cmd {
	return tea.Batch(s.email.Focus(), textinput.Blink, s.env.tick())
}

func (s *otpScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.env.tick()

	case spinner.TickMsg:
		if !s.flow.Snapshot().Loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case sentMsg:
		if msg.resend {
			s.flow.ApplyResent(msg.res, msg.err)
		} else {
			s.flow.ApplySent(msg.res, msg.err)
		}
		if msg.err == nil && !msg.resend {
			s.email.Blur()
			s.code.SetValue("")
			return s, s.code.Focus()
		}
		return s, nil

	case verifiedMsg:
		return s, s.verified(msg)

	case redirectMsg:
		return s, s.env.navigate(router.Login)

	case tea.KeyMsg:
		return s.key(msg)
	}

	return s, s.updateInputs(msg)
}

func (s *otpScreen) key(msg tea.KeyMsg) (screen, tea.Cmd) {
	snap := s.flow.Snapshot()

	switch msg.String() {
	case "esc":
		if s.flow.Back() == otp.BackToLanding {
			return s, s.env.navigate(router.Landing)
		}
		s.code.SetValue("")
		s.code.Blur()
		return s, s.email.Focus()

	case "enter":
		switch snap.State {
		case otp.EmailEntry:
			return s, s.send()
		case otp.OTPSent:
			return s, s.verify()
		}
		return s, nil

	case "ctrl+r":
		if snap.State == otp.OTPSent {
			return s, s.resend()
		}
		return s, nil

	case "tab":
		if snap.Mode == otp.ModeLogin && snap.State == otp.EmailEntry {
			s.flow.SetRemember(!snap.Remember)
		}
		return s, nil
	}

	return s, s.updateInputs(msg)
}

func (s *otpScreen) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case s.email.Focused():
		s.email, cmd = s.email.Update(msg)
		if !s.flow.SetEmail(s.email.Value()) {
			s.email.SetValue(s.flow.Snapshot().Email)
		}
	case s.code.Focused():
		s.code, cmd = s.code.Update(msg)
		// keep the field in step with the digits-only value of the flow
		if v := s.flow.SetCode(s.code.Value()); v != s.code.Value() {
			s.code.SetValue(v)
		}
	}
	return cmd
}

func (s *otpScreen) send() tea.Cmd {
	s.flow.SetEmail(s.email.Value())
	email, err := s.flow.BeginSend()
	if err != nil {
		return nil
	}

	auth, mode, remember := s.env.deps.Services.Auth, s.flow.Mode(), s.flow.Remember()
	return tea.Batch(s.spin.Tick, s.env.do(func(ctx context.Context) tea.Msg {
		res, err := auth.SendOTP(ctx, mode, email, remember)
		return sentMsg{res: res, err: err}
	}))
}

func (s *otpScreen) resend() tea.Cmd {
	email, err := s.flow.BeginResend()
	if err != nil {
		return nil
	}

	auth, mode, remember := s.env.deps.Services.Auth, s.flow.Mode(), s.flow.Remember()
	return tea.Batch(s.spin.Tick, s.env.do(func(ctx context.Context) tea.Msg {
		res, err := auth.SendOTP(ctx, mode, email, remember)
		return sentMsg{res: res, err: err, resend: true}
	}))
}

func (s *otpScreen) verify() tea.Cmd {
	email, code, err := s.flow.BeginVerify()
	if err != nil {
		return nil
	}

	auth := s.env.deps.Services.Auth
	return tea.Batch(s.spin.Tick, s.env.do(func(ctx context.Context) tea.Msg {
		res, err := auth.VerifyOTP(ctx, email, code)
		return verifiedMsg{res: res, err: err}
	}))
}

func (s *otpScreen) verified(msg verifiedMsg) tea.Cmd {
	s.flow.ApplyVerified(msg.err)
	if msg.err != nil {
		return nil
	}

	if s.flow.Mode() == otp.ModeSignup {
		s.code.Blur()
		return s.env.after(s.env.deps.Options.SignupRedirectDelay, redirectMsg{})
	}

	// The session is stored here, on the event loop, so that a login
	// answered after the user left the screen never signs them in.
	flags := session.Flags{HasHashnode: msg.res.HasHashnode, HasGroqAPIKey: msg.res.HasGroqAPIKey}
	if err := s.env.deps.Services.Auth.CompleteLogin(s.env.ctx, msg.res.Token, flags); err != nil {
		s.env.deps.Logger.Error(s.env.ctx, "storing session failed", "error", err)
		s.flow.Fail(services.MsgSessionSaveFailed)
		return nil
	}
	return s.env.emit(remountMsg{})
}

func (s *otpScreen) View() string {
	snap := s.flow.Snapshot()
	var b strings.Builder

	if snap.Mode == otp.ModeLogin {
		b.WriteString(titleStyle.Render("Log in to vid2blog"))
	} else {
		b.WriteString(titleStyle.Render("Create your vid2blog account"))
	}
	b.WriteString("\n\n")

	switch snap.State {
	case otp.EmailEntry:
		b.WriteString(s.email.View() + "\n")
		if snap.Mode == otp.ModeLogin {
			box := "[ ]"
			if snap.Remember {
				box = "[x]"
			}
			b.WriteString(mutedStyle.Render(box+" Remember me") + "\n")
		}

	case otp.OTPSent:
		b.WriteString(mutedStyle.Render("Email: "+snap.Email) + "\n")
		if snap.Info != "" {
			b.WriteString(infoStyle.Render(snap.Info) + "\n")
		}
		if snap.DevCode != "" {
			b.WriteString(warnStyle.Render("Development code: "+snap.DevCode) + "\n")
		}
		b.WriteString("\n" + s.code.View() + "\n")
		if snap.Cooldown > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("Resend OTP in %ds", snap.Cooldown)) + "\n")
		} else {
			b.WriteString(mutedStyle.Render("Didn't get a code? ctrl+r to resend") + "\n")
		}

	case otp.Verified:
		b.WriteString(okStyle.Render(snap.Info) + "\n")
	}

	if snap.Loading {
		b.WriteString("\n" + s.spin.View() + " Please wait...\n")
	}
	if snap.Error != "" {
		b.WriteString("\n" + errStyle.Render(snap.Error) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(s.help(snap)))
	return b.String()
}

func (s *otpScreen) help(snap otp.Snapshot) string {
	switch snap.State {
	case otp.EmailEntry:
		if snap.Mode == otp.ModeLogin {
			return "enter: send OTP • tab: toggle remember me • esc: back"
		}
		return "enter: send OTP • esc: back"
	case otp.OTPSent:
		return "enter: verify • ctrl+r: resend • esc: change email"
	}
	return "esc: back"
}
