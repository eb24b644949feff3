package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9400D3"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE80E9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#9400D3"))
	tabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245"))

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9400D3")).Padding(0, 1)
)

func noticeStyle(k dashboard.NoticeKind) lipgloss.Style {
	switch k {
	case dashboard.NoticeSuccess:
		return okStyle
	case dashboard.NoticeWarning:
		return warnStyle
	case dashboard.NoticeError:
		return errStyle
	}
	return infoStyle
}

func levelStyle(l dashboard.Level) lipgloss.Style {
	switch l {
	case dashboard.LevelWarning:
		return warnStyle
	case dashboard.LevelBlocked:
		return errStyle
	}
	return okStyle
}
