// Package router tracks which screen is active and owns the transitions in
// and out of the authenticated area.
package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vid2blog/internal/client/session"
)

// Router is the single place where the session token is set or dropped.
// A present token always forces the Dashboard.
type Router struct {
	mu      sync.Mutex
	store   *session.Store
	current Screen
}

func New(store *session.Store) *Router {
	return &Router{store: store, current: Landing}
}

// Current returns the active screen.
func (r *Router) Current() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store.Token() != "" {
		r.current = Dashboard
	}
	return r.current
}

// Navigate switches to s. While signed in the Dashboard stays active.
func (r *Router) Navigate(s Screen) Screen {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return r.Current()
}

func (r *Router) Token() string { return r.store.Token() }

func (r *Router) Flags() session.Flags { return r.store.Flags() }

func (r *Router) Session() *session.Store { return r.store }

// Login stores the token and flags and moves to the Dashboard.
func (r *Router) Login(ctx context.Context, token string, flags session.Flags) error {
	if err := r.store.Save(ctx, token, flags); err != nil {
		return err
	}
	r.mu.Lock()
	r.current = Dashboard
	r.mu.Unlock()
	return nil
}

// Logout drops the session and returns to Landing. The screen changes even
// if the durable store could not be updated.
func (r *Router) Logout(ctx context.Context) error {
	err := r.store.Clear(ctx)
	r.mu.Lock()
	r.current = Landing
	r.mu.Unlock()
	return err
}
