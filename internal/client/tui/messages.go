package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
)

// scoped wraps every message produced on behalf of a mounted screen. The
// root model drops it when the screen has been replaced in the meantime.
type scoped struct {
	epoch int
	msg   tea.Msg
}

type navigateMsg struct{ to router.Screen }

// remountMsg asks the root to mount whatever screen the router now reports,
// after a sign-in or sign-out.
type remountMsg struct{}

// expiredMsg reports that the backend rejected the stored session.
type expiredMsg struct{}

type tickMsg time.Time

// env is what a screen gets from the root at mount time.
type env struct {
	deps  Deps
	ctx   context.Context
	epoch int
	flash string
}

// do runs fn off the event loop and scopes its result to this mount.
func (e *env) do(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx, epoch := e.ctx, e.epoch
	return func() tea.Msg {
		return scoped{epoch: epoch, msg: fn(ctx)}
	}
}

// emit delivers msg to the root immediately, scoped to this mount.
func (e *env) emit(msg tea.Msg) tea.Cmd {
	epoch := e.epoch
	return func() tea.Msg { return scoped{epoch: epoch, msg: msg} }
}

// after delivers msg once d has elapsed, unless the screen is gone by then.
func (e *env) after(d time.Duration, msg tea.Msg) tea.Cmd {
	epoch := e.epoch
	return tea.Tick(d, func(time.Time) tea.Msg { return scoped{epoch: epoch, msg: msg} })
}

func (e *env) tick() tea.Cmd {
	epoch := e.epoch
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return scoped{epoch: epoch, msg: tickMsg(t)} })
}

func (e *env) navigate(to router.Screen) tea.Cmd {
	return e.emit(navigateMsg{to: to})
}
