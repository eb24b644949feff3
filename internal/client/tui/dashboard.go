package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/progress"
	"github.com/dustin/go-humanize"
)

type profileMsg struct {
	p   api.Profile
	err error
}

type historyMsg struct {
	entries []api.HistoryEntry
	err     error
}

type credentialMsg struct {
	kind dashboard.Credential
	err  error
}

type convertedMsg struct {
	res api.ConversionResult
	err error
}

// editing says which input, if any, currently owns the keyboard.
type editing int

const (
	editNone editing = iota
	editFile
	editHashnode
	editGroq
)

type historyItem api.HistoryEntry

func (h historyItem) Title() string {
	if h.ArticleTitle == "" {
		return h.VideoName
	}
	return h.ArticleTitle
}

func (h historyItem) Description() string {
	parts := []string{h.VideoName}
	if !h.CreatedAt.IsZero() {
		parts = append(parts, h.CreatedAt.Local().Format("Jan 2, 2006"))
	}
	if h.HashnodeDraftID != "" {
		parts = append(parts, "draft "+h.HashnodeDraftID)
	}
	if h.DraftURL != "" {
		parts = append(parts, h.DraftURL)
	}
	return strings.Join(parts, " • ")
}

func (h historyItem) FilterValue() string { return h.Title() + " " + h.VideoName }

type dashboardScreen struct {
	env   *env
	state *dashboard.State

	editing editing
	path    textinput.Model
	secret  textinput.Model
	history list.Model
	usage   bar.Model
	spin    spinner.Model

	width int
}

func newDashboardScreen(e *env) *dashboardScreen {
	path := textinput.New()
	path.Prompt = "Video file: "
	path.Placeholder = "/path/to/tutorial.mp4"

	secret := textinput.New()
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'

	hl := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	hl.Title = "Conversion history"
	hl.SetShowHelp(false)
	hl.SetFilteringEnabled(false)

	return &dashboardScreen{
		env:     e,
		state:   dashboard.NewState(e.deps.Router.Flags(), e.deps.Now, e.deps.Options.NoticeTTL),
		path:    path,
		secret:  secret,
		history: hl,
		usage:   bar.New(bar.WithDefaultGradient(), bar.WithWidth(40)),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *dashboardScreen) Init() tea.Cmd {
	return tea.Batch(s.fetchProfile(), s.env.tick())
}

func (s *dashboardScreen) busy() bool {
	v := s.state.View()
	return v.Processing || v.HistoryLoading
}

// failed checks err for an expired session, which ends the dashboard.
func (s *dashboardScreen) failed(err error) (tea.Cmd, bool) {
	if errors.Is(err, api.ErrUnauthorized) {
		return s.env.emit(expiredMsg{}), true
	}
	return nil, false
}

func (s *dashboardScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.history.SetSize(msg.Width-4, max(msg.Height-14, 5))
		s.usage.Width = min(40, max(msg.Width-30, 10))
		return s, nil

	case tickMsg:
		return s, s.env.tick()

	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case profileMsg:
		if cmd, ok := s.failed(msg.err); ok {
			return s, cmd
		}
		s.state.ApplyProfile(msg.p, msg.err)
		return s, nil

	case historyMsg:
		if cmd, ok := s.failed(msg.err); ok {
			return s, cmd
		}
		s.state.ApplyHistory(msg.entries, msg.err)
		return s, s.syncHistory()

	case credentialMsg:
		if cmd, ok := s.failed(msg.err); ok {
			return s, cmd
		}
		refresh := s.state.ApplyCredentialSaved(msg.kind, msg.err)
		if msg.err == nil {
			s.stopEditing()
		}
		if refresh {
			return s, s.fetchProfile()
		}
		return s, nil

	case convertedMsg:
		if cmd, ok := s.failed(msg.err); ok {
			s.state.ApplyUploaded(msg.err)
			return s, cmd
		}
		if s.state.ApplyUploaded(msg.err) {
			return s, tea.Batch(s.fetchHistory(), s.fetchProfile())
		}
		return s, nil

	case tea.KeyMsg:
		if s.editing != editNone {
			return s, s.editKey(msg)
		}
		return s, s.key(msg)
	}

	if s.editing != editNone {
		return s, s.updateInput(msg)
	}
	return s, nil
}

func (s *dashboardScreen) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "o":
		if err := s.env.deps.Services.Auth.Logout(s.env.ctx); err != nil {
			s.env.deps.Logger.Warn(s.env.ctx, "logout did not clear stored session", "error", err)
		}
		return s.env.emit(remountMsg{})
	case "tab":
		return s.setTab(s.state.Tab().Next())
	case "1":
		return s.setTab(dashboard.TabUpload)
	case "2":
		return s.setTab(dashboard.TabHistory)
	case "3":
		return s.setTab(dashboard.TabSettings)
	}

	switch s.state.Tab() {
	case dashboard.TabUpload:
		switch msg.String() {
		case "f":
			return s.startEditing(editFile)
		case "c", "enter":
			return s.convert()
		case "x":
			s.state.ClearFile()
		}
	case dashboard.TabHistory:
		if msg.String() == "r" {
			return s.fetchHistory()
		}
		var cmd tea.Cmd
		s.history, cmd = s.history.Update(msg)
		return cmd
	case dashboard.TabSettings:
		switch msg.String() {
		case "h":
			s.state.Reconnect(dashboard.Hashnode)
			return s.startEditing(editHashnode)
		case "g":
			s.state.Reconnect(dashboard.Groq)
			return s.startEditing(editGroq)
		}
	}
	return nil
}

func (s *dashboardScreen) setTab(t dashboard.Tab) tea.Cmd {
	if s.state.SetTab(t) {
		return s.fetchHistory()
	}
	return nil
}

func (s *dashboardScreen) startEditing(e editing) tea.Cmd {
	s.editing = e
	switch e {
	case editFile:
		s.path.SetValue("")
		return s.path.Focus()
	case editHashnode:
		s.secret.Prompt = "Hashnode PAT: "
		s.secret.Placeholder = "paste your Personal Access Token"
	case editGroq:
		s.secret.Prompt = "GROQ API Key: "
		s.secret.Placeholder = "gsk_..."
	}
	s.secret.SetValue("")
	return s.secret.Focus()
}

func (s *dashboardScreen) stopEditing() {
	s.editing = editNone
	s.path.Blur()
	s.secret.Blur()
	s.secret.SetValue("")
}

func (s *dashboardScreen) editKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.stopEditing()
		return nil
	case "enter":
		switch s.editing {
		case editFile:
			if _, err := s.state.SelectFile(strings.TrimSpace(s.path.Value())); err == nil {
				s.stopEditing()
			}
			return nil
		case editHashnode:
			return s.saveCredential(dashboard.Hashnode)
		case editGroq:
			return s.saveCredential(dashboard.Groq)
		}
	}
	return s.updateInput(msg)
}

func (s *dashboardScreen) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.editing == editFile {
		s.path, cmd = s.path.Update(msg)
	} else {
		s.secret, cmd = s.secret.Update(msg)
	}
	return cmd
}

func (s *dashboardScreen) saveCredential(kind dashboard.Credential) tea.Cmd {
	value, err := s.state.BeginSaveCredential(kind, s.secret.Value())
	if err != nil {
		return nil
	}
	account := s.env.deps.Services.Account
	return s.env.do(func(ctx context.Context) tea.Msg {
		return credentialMsg{kind: kind, err: account.SaveCredential(ctx, kind, value)}
	})
}

func (s *dashboardScreen) convert() tea.Cmd {
	up, err := s.state.BeginUpload()
	if err != nil {
		return nil
	}

	conv, state := s.env.deps.Services.Conversion, s.state
	return tea.Batch(s.spin.Tick, s.env.do(func(ctx context.Context) tea.Msg {
		res, err := conv.Convert(ctx, up, func(st progress.Step) { state.SetStep(st.Index) })
		return convertedMsg{res: res, err: err}
	}))
}

func (s *dashboardScreen) fetchProfile() tea.Cmd {
	account := s.env.deps.Services.Account
	return s.env.do(func(ctx context.Context) tea.Msg {
		p, err := account.Profile(ctx)
		return profileMsg{p: p, err: err}
	})
}

func (s *dashboardScreen) fetchHistory() tea.Cmd {
	s.state.BeginHistory()
	account := s.env.deps.Services.Account
	return tea.Batch(s.spin.Tick, s.env.do(func(ctx context.Context) tea.Msg {
		entries, err := account.History(ctx)
		return historyMsg{entries: entries, err: err}
	}))
}

func (s *dashboardScreen) syncHistory() tea.Cmd {
	v := s.state.View()
	items := make([]list.Item, 0, len(v.History))
	for _, h := range v.History {
		items = append(items, historyItem(h))
	}
	return s.history.SetItems(items)
}

func (s *dashboardScreen) View() string {
	v := s.state.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("vid2blog dashboard") + "\n\n")
	b.WriteString(s.tabs(v.Tab) + "\n\n")
	b.WriteString(panelStyle.Render(s.usageView(v.Usage)) + "\n\n")

	switch v.Tab {
	case dashboard.TabUpload:
		b.WriteString(s.uploadView(v))
	case dashboard.TabHistory:
		b.WriteString(s.historyView(v))
	case dashboard.TabSettings:
		b.WriteString(s.settingsView(v))
	}

	if n := v.Notice; n != nil {
		b.WriteString("\n" + noticeStyle(n.Kind).Render(n.Text) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(s.help(v)))
	return b.String()
}

func (s *dashboardScreen) tabs(active dashboard.Tab) string {
	labels := []string{"1 Upload", "2 History", "3 Settings"}
	out := make([]string, len(labels))
	for i, l := range labels {
		if dashboard.Tab(i) == active {
			out[i] = activeTabStyle.Render(l)
		} else {
			out[i] = tabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (s *dashboardScreen) usageView(u dashboard.Usage) string {
	pct := u.Percent()
	st := levelStyle(u.Level())

	var b strings.Builder
	fmt.Fprintf(&b, "Monthly usage  %s %s\n", s.usage.ViewAs(min(pct/100, 1)), st.Render(fmt.Sprintf("%.0f%%", pct)))
	fmt.Fprintf(&b, "%.1f of %.0f minutes used • %.1f remaining • %d conversions today",
		u.MinutesUsed, u.MonthlyLimit, u.Remaining(), u.DailyCount)

	switch u.Level() {
	case dashboard.LevelWarning:
		b.WriteString("\n" + st.Render("You are approaching your monthly limit."))
	case dashboard.LevelBlocked:
		b.WriteString("\n" + st.Render(dashboard.MsgLimitReached))
	}
	return b.String()
}

func (s *dashboardScreen) uploadView(v dashboard.View) string {
	var b strings.Builder

	if !v.HashnodeSaved || !v.GroqSaved {
		b.WriteString(warnStyle.Render("Connect Hashnode and add your GROQ API Key in Settings (3) before uploading.") + "\n\n")
	}

	if v.Processing {
		step := min(v.Step, len(progress.Stages)-1)
		fmt.Fprintf(&b, "%s %s  (step %d of %d, about %ds left)\n",
			s.spin.View(), progress.Stages[step], step+1, len(progress.Stages), progress.EstimatedSeconds(step))
		for i, label := range progress.Stages {
			mark := mutedStyle.Render("○ " + label)
			if i < step {
				mark = okStyle.Render("✓ " + label)
			} else if i == step {
				mark = infoStyle.Render("● " + label)
			}
			b.WriteString("  " + mark + "\n")
		}
		return b.String()
	}

	if p := v.Pending; p != nil {
		fmt.Fprintf(&b, "Selected: %s  (%s, %s)\n", p.Name, humanize.IBytes(uint64(p.Size)), p.ContentType)
	} else {
		b.WriteString(mutedStyle.Render("No video selected. Max size 500MB.") + "\n")
	}

	if s.editing == editFile {
		b.WriteString("\n" + s.path.View() + "\n")
	}

	if v.CanUpload {
		b.WriteString("\n" + okStyle.Render("Ready: press c to convert and publish") + "\n")
	}
	return b.String()
}

func (s *dashboardScreen) historyView(v dashboard.View) string {
	if v.HistoryLoading {
		return s.spin.View() + " Loading history...\n"
	}
	if len(v.History) == 0 {
		return mutedStyle.Render("No conversions yet. Upload a video to get started.") + "\n"
	}
	return s.history.View() + "\n"
}

func (s *dashboardScreen) settingsView(v dashboard.View) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Hashnode") + "\n")
	switch {
	case s.editing == editHashnode:
		b.WriteString(s.secret.View() + "\n")
		if s.state.Saving(dashboard.Hashnode) {
			b.WriteString(s.spin.View() + " Saving...\n")
		}
	case v.HashnodeSaved:
		b.WriteString(okStyle.Render("✓ Connected") + mutedStyle.Render("  (h to reconnect)") + "\n")
	default:
		b.WriteString(warnStyle.Render("Not connected") + mutedStyle.Render("  (h to add your PAT)") + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("GROQ API Key") + "\n")
	switch {
	case s.editing == editGroq:
		b.WriteString(s.secret.View() + "\n")
		if s.state.Saving(dashboard.Groq) {
			b.WriteString(s.spin.View() + " Saving...\n")
		}
	case v.GroqSaved:
		b.WriteString(okStyle.Render("✓ Saved") + mutedStyle.Render("  (g to replace)") + "\n")
	default:
		b.WriteString(warnStyle.Render("Not set") + mutedStyle.Render("  (g to add your key)") + "\n")
	}
	return b.String()
}

func (s *dashboardScreen) help(v dashboard.View) string {
	if s.editing != editNone {
		return "enter: save • esc: cancel"
	}
	common := "tab/1/2/3: switch tab • o: log out • q: quit"
	switch v.Tab {
	case dashboard.TabUpload:
		return "f: choose file • c: convert • x: clear selection • " + common
	case dashboard.TabHistory:
		return "↑/↓: browse • r: refresh • " + common
	}
	return "h: Hashnode PAT • g: GROQ API Key • " + common
}
