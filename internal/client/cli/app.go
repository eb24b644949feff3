package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/landing"
	"github.com/dmitrijs2005/vid2blog/internal/client/otp"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// Options are the timings shared with the full-screen front end.
type Options struct {
	OTPCooldown         time.Duration
	SignupRedirectDelay time.Duration
	NoticeTTL           time.Duration
}

type Deps struct {
	Router   *router.Router
	Services *services.Set
	Options  Options
	Logger   logging.Logger
	Now      func() time.Time
}

// App is the REPL session. Exactly one of flow (signup, login) or dash
// (dashboard) is set while the matching screen is active.
type App struct {
	deps   Deps
	reader *bufio.Reader
	out    io.Writer

	active router.Screen
	flow   *otp.Flow
	dash   *dashboard.State
	shown  *dashboard.Notice
	flash  string
}

func NewApp(deps Deps, in io.Reader, out io.Writer) *App {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &App{deps: deps, reader: bufio.NewReader(in), out: out}
}

// Run mounts the screen the router starts on and reads commands until the
// user exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.enter(ctx, a.deps.Router.Current())
	runREPL(ctx, a, a.reader, a.out)
	return nil
}

func (a *App) Screen() router.Screen { return a.active }

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

type mounter struct {
	ctx context.Context
	a   *App
}

func (m mounter) Landing() (struct{}, error) {
	m.a.landing()
	return struct{}{}, nil
}

func (m mounter) Signup() (struct{}, error) {
	m.a.startFlow(otp.ModeSignup)
	return struct{}{}, nil
}

func (m mounter) Login() (struct{}, error) {
	m.a.startFlow(otp.ModeLogin)
	return struct{}{}, nil
}

func (m mounter) Dashboard() (struct{}, error) {
	m.a.startDashboard(m.ctx)
	return struct{}{}, nil
}

// enter navigates to s and mounts fresh state for whatever screen the
// router settles on.
func (a *App) enter(ctx context.Context, s router.Screen) {
	a.active = a.deps.Router.Navigate(s)
	a.flow, a.dash, a.shown = nil, nil, nil

	if _, err := router.Visit[struct{}](a.active, mounter{ctx: ctx, a: a}); err != nil {
		a.deps.Logger.Error(ctx, "cannot mount screen", "screen", a.active.String(), "error", err)
		a.active = a.deps.Router.Navigate(router.Landing)
		a.landing()
	}
	a.deps.Logger.Debug(ctx, "screen mounted", "screen", a.active.String())
}

func (a *App) landing() {
	a.println(landing.Banner())
	a.println()
	a.println(landing.Headline)
	a.println(landing.Tagline)
	a.println()
	for _, f := range landing.Features {
		a.printf("  * %s: %s\n", f.Title, f.Text)
	}
	a.println()
	a.println("How it works")
	for i, st := range landing.Steps {
		a.printf("  %d. %s: %s\n", i+1, st.Title, st.Text)
	}
	if a.flash != "" {
		a.println()
		a.println(a.flash)
		a.flash = ""
	}
	a.println()
	a.println("Type 'signup' to start converting videos, 'login' to sign in, 'help' for all commands.")
}

// expired ends the session when err reports a rejected token.
func (a *App) expired(ctx context.Context, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	if lerr := a.deps.Services.Auth.Logout(ctx); lerr != nil {
		a.deps.Logger.Warn(ctx, "logout after expiry failed", "error", lerr)
	}
	a.flash = services.MsgSessionExpired
	a.enter(ctx, router.Landing)
	return true
}

// prompt returns the argument if given, otherwise asks for it.
func (a *App) prompt(arg, question string) (string, error) {
	if arg = strings.TrimSpace(arg); arg != "" {
		return arg, nil
	}
	return readLine(a.reader, a.out, question)
}

// Signup opens the passcode signup screen.
func (a *App) Signup(ctx context.Context) error {
	a.enter(ctx, router.Signup)
	return nil
}

// Login opens the passcode login screen.
func (a *App) Login(ctx context.Context) error {
	a.enter(ctx, router.Login)
	return nil
}
