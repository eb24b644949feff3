// Package tui is the full-screen terminal front end built on Bubble Tea.
//
// The root Model owns the router and exactly one mounted screen. Mounting a
// screen bumps an epoch; every asynchronous result carries the epoch it was
// started under and is dropped if the screen it belongs to is gone.
package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// Options are the timings the screens need.
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
	// Now is the clock for cooldowns and notices; nil means time.Now.
	Now func() time.Time
}

// screen is one mounted view.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

type Model struct {
	deps Deps
	ctx  context.Context

	epoch  int
	active router.Screen
	screen screen
	flash  string
	boot   tea.Cmd

	width, height int
}

func New(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &Model{deps: deps, ctx: ctx}
	m.boot = m.mount()
	return m
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	_, err := tea.NewProgram(New(ctx, deps), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Active is the screen currently mounted.
func (m *Model) Active() router.Screen { return m.active }

type mounter struct{ env *env }

func (v mounter) Landing() (screen, error) { return newLandingScreen(v.env), nil }
func (v mounter) Signup() (screen, error)  { return newOTPScreen(v.env, false), nil }
func (v mounter) Login() (screen, error)   { return newOTPScreen(v.env, true), nil }
func (v mounter) Dashboard() (screen, error) {
	return newDashboardScreen(v.env), nil
}

func (m *Model) mount() tea.Cmd {
	m.epoch++
	m.active = m.deps.Router.Current()

	e := &env{deps: m.deps, ctx: m.ctx, epoch: m.epoch, flash: m.flash}
	m.flash = ""

	s, err := router.Visit[screen](m.active, mounter{env: e})
	if err != nil {
		m.deps.Logger.Error(m.ctx, "cannot mount screen", "screen", m.active.String(), "error", err)
		m.active = m.deps.Router.Navigate(router.Landing)
		s = newLandingScreen(e)
	}
	m.screen = s
	m.deps.Logger.Debug(m.ctx, "screen mounted", "screen", m.active.String(), "epoch", m.epoch)

	cmd := s.Init()
	if m.width > 0 {
		var sizeCmd tea.Cmd
		m.screen, sizeCmd = m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmd = tea.Batch(cmd, sizeCmd)
	}
	return cmd
}

func (m *Model) Init() tea.Cmd {
	return m.boot
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case scoped:
		if msg.epoch != m.epoch {
			return m, nil
		}
		return m.handle(msg.msg)
	}
	return m.forward(msg)
}

func (m *Model) handle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case navigateMsg:
		m.deps.Router.Navigate(msg.to)
		return m, m.mount()
	case remountMsg:
		return m, m.mount()
	case expiredMsg:
		if err := m.deps.Services.Auth.Logout(m.ctx); err != nil {
			m.deps.Logger.Warn(m.ctx, "logout after expiry failed", "error", err)
		}
		m.flash = services.MsgSessionExpired
		return m, m.mount()
	}
	return m.forward(msg)
}

func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	return m.screen.View()
}
