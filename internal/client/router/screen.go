package router

import "fmt"

// Screen identifies a top-level view of the client.
type Screen int

const (
	Landing Screen = iota
	Signup
	Login
	Dashboard
)

func (s Screen) String() string {
	switch s {
	case Landing:
		return "landing"
	case Signup:
		return "signup"
	case Login:
		return "login"
	case Dashboard:
		return "dashboard"
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// ParseScreen maps a screen name back to its Screen.
func ParseScreen(name string) (Screen, error) {
	for _, s := range []Screen{Landing, Signup, Login, Dashboard} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// Visitor has one method per Screen. Adding a screen adds a method, so every
// front end that dispatches through Visit stops compiling until it handles
// the new variant.
type Visitor[T any] interface {
	Landing() (T, error)
	Signup() (T, error)
	Login() (T, error)
	Dashboard() (T, error)
}

// Visit calls the Visitor method matching s.
func Visit[T any](s Screen, v Visitor[T]) (T, error) {
	switch s {
	case Landing:
		return v.Landing()
	case Signup:
		return v.Signup()
	case Login:
		return v.Login()
	case Dashboard:
		return v.Dashboard()
	}
	var zero T
	return zero, fmt.Errorf("router: unhandled screen %v", s)
}
