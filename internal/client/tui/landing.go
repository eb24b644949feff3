package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/vid2blog/internal/client/landing"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
)

type landingScreen struct {
	env   *env
	width int
}

func newLandingScreen(e *env) *landingScreen {
	return &landingScreen{env: e}
}

func (s *landingScreen) Init() tea.Cmd { return nil }

func (s *landingScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "s", "enter":
			return s, s.env.navigate(router.Signup)
		case "l":
			return s, s.env.navigate(router.Login)
		case "q", "esc":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *landingScreen) View() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render(landing.Banner()))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(landing.Headline))
	b.WriteString("\n")
	b.WriteString(wrap(landing.Tagline, s.width))
	b.WriteString("\n\n")

	for _, f := range landing.Features {
		fmt.Fprintf(&b, "  • %s  %s\n", titleStyle.Render(f.Title), mutedStyle.Render(f.Text))
	}

	b.WriteString("\n" + titleStyle.Render("How it works") + "\n")
	for i, st := range landing.Steps {
		fmt.Fprintf(&b, "  %d. %s  %s\n", i+1, st.Title, mutedStyle.Render(st.Text))
	}

	if s.env.flash != "" {
		b.WriteString("\n" + warnStyle.Render(s.env.flash) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("s: start converting videos (sign up) • l: log in • q: quit"))
	return b.String()
}

// wrap breaks text on spaces so that no line is wider than width. A width
// of zero leaves the text alone.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var (
		b    strings.Builder
		line int
	)
	for i, w := range strings.Fields(text) {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
