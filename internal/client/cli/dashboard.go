package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/progress"
	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dustin/go-humanize"
)

func (a *App) startDashboard(ctx context.Context) {
	a.dash = dashboard.NewState(a.deps.Router.Flags(), a.deps.Now, a.deps.Options.NoticeTTL)
	a.println("Dashboard")
	if !a.refreshProfile(ctx) {
		return
	}
	a.printUsage()
	a.printCredentials()
}

// refreshProfile reports false when the session turned out to be expired.
func (a *App) refreshProfile(ctx context.Context) bool {
	p, err := a.deps.Services.Account.Profile(ctx)
	if a.expired(ctx, err) {
		return false
	}
	a.dash.ApplyProfile(p, err)
	return true
}

// flushNotice prints the dashboard notice unless it was printed already.
func (a *App) flushNotice() {
	if a.dash == nil {
		return
	}
	n := a.dash.Notice()
	if n == nil || n == a.shown {
		return
	}
	a.shown = n
	a.printf("[%s] %s\n", n.Kind, n.Text)
}

func (a *App) printUsage() {
	u := a.dash.View().Usage
	a.printf("Monthly usage: %s / %s min (%.0f%%), %d conversion(s) today\n",
		humanize.Ftoa(u.MinutesUsed), humanize.Ftoa(u.MonthlyLimit), u.Percent(), u.DailyCount)
	switch u.Level() {
	case dashboard.LevelWarning:
		a.printf("You are close to your monthly limit: %s min left.\n", humanize.Ftoa(u.Remaining()))
	case dashboard.LevelBlocked:
		a.println(dashboard.MsgLimitReached)
	}
}

func (a *App) printCredentials() {
	v := a.dash.View()
	if !v.HashnodeSaved {
		a.println("Hashnode is not connected. Type 'hashnode' to add your Personal Access Token.")
	}
	if !v.GroqSaved {
		a.println("No GROQ API Key saved. Type 'groq' to add one.")
	}
	if v.HashnodeSaved && v.GroqSaved {
		a.println("Type 'upload <path>' to convert a video.")
	}
}

// Select validates a local video and makes it the pending upload.
func (a *App) Select(ctx context.Context, arg string) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	path, err := a.prompt(arg, "Path to video file")
	if err != nil {
		return err
	}
	a.dash.SetTab(dashboard.TabUpload)
	pf, err := a.dash.SelectFile(path)
	a.flushNotice()
	if err != nil {
		return err
	}
	a.printf("%s, %s\n", pf.ContentType, humanize.IBytes(uint64(pf.Size)))
	return nil
}

// Clear drops the pending upload.
func (a *App) Clear(ctx context.Context) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	a.dash.ClearFile()
	a.println("Selection cleared.")
	return nil
}

// Convert uploads the pending video and waits for the draft. Stage lines
// are printed while the request runs.
func (a *App) Convert(ctx context.Context) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	a.dash.SetTab(dashboard.TabUpload)
	up, err := a.dash.BeginUpload()
	if err != nil {
		a.flushNotice()
		return err
	}

	a.printf("Converting %s (%s)...\n", up.Name, humanize.IBytes(uint64(up.Size)))
	state := a.dash
	res, err := a.deps.Services.Conversion.Convert(ctx, up, func(st progress.Step) {
		state.SetStep(st.Index)
		a.printf("[%d/%d] %s (about %ds left)\n", st.Index+1, st.Total, st.Label, progress.EstimatedSeconds(st.Index))
	})

	done := a.dash.ApplyUploaded(err)
	if a.expired(ctx, err) {
		return err
	}
	a.flushNotice()
	if !done {
		return err
	}

	a.printResult(res)
	if a.fetchHistory(ctx) {
		a.refreshProfile(ctx)
	}
	return nil
}

// Upload selects path and converts it in one step.
func (a *App) Upload(ctx context.Context, arg string) error {
	if err := a.Select(ctx, arg); err != nil {
		return err
	}
	return a.Convert(ctx)
}

func (a *App) printResult(res api.ConversionResult) {
	if res.ArticleTitle != "" {
		a.println("Article:", res.ArticleTitle)
	}
	if res.DraftURL != "" {
		a.println("Draft:", res.DraftURL)
	}
	if res.MinutesCharged > 0 {
		a.printf("Charged: %s min\n", humanize.Ftoa(res.MinutesCharged))
	}
}

// History shows previous conversions, newest first.
func (a *App) History(ctx context.Context) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	a.dash.SetTab(dashboard.TabHistory)
	a.fetchHistory(ctx)
	return nil
}

// fetchHistory reports false when the session turned out to be expired.
func (a *App) fetchHistory(ctx context.Context) bool {
	a.dash.BeginHistory()
	entries, err := a.deps.Services.Account.History(ctx)
	if a.expired(ctx, err) {
		return false
	}
	a.dash.ApplyHistory(entries, err)
	a.flushNotice()
	if err != nil {
		return true
	}

	history := a.dash.View().History
	if len(history) == 0 {
		a.println("No conversions yet.")
		return true
	}
	for i, h := range history {
		title := h.ArticleTitle
		if title == "" {
			title = h.VideoName
		}
		parts := []string{h.VideoName}
		if !h.CreatedAt.IsZero() {
			parts = append(parts, humanize.Time(h.CreatedAt))
		}
		a.printf("%3d. %s\n     %s\n", i+1, title, strings.Join(parts, ", "))
		if h.DraftURL != "" {
			a.printf("     %s\n", h.DraftURL)
		}
	}
	return true
}

// Usage refreshes and prints the monthly minutes.
func (a *App) Usage(ctx context.Context) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	if !a.refreshProfile(ctx) {
		return api.ErrUnauthorized
	}
	a.printUsage()
	return nil
}

// Settings shows which credentials are stored.
func (a *App) Settings(ctx context.Context) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	a.dash.SetTab(dashboard.TabSettings)
	v := a.dash.View()
	a.printf("Hashnode PAT: %s\n", connected(v.HashnodeSaved))
	a.printf("GROQ API Key: %s\n", connected(v.GroqSaved))
	a.println("Type 'reconnect hashnode' or 'reconnect groq' to replace a stored credential.")
	return nil
}

func connected(ok bool) string {
	if ok {
		return "connected"
	}
	return "not connected"
}

// SaveCredential reads a secret without echo and stores it.
func (a *App) SaveCredential(ctx context.Context, kind dashboard.Credential) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	prompt := "Enter your Hashnode Personal Access Token"
	if kind == dashboard.Groq {
		prompt = "Enter your GROQ API Key"
	}
	secret, err := getSecret(a.out, prompt)
	if err != nil {
		return err
	}
	value := string(secret)
	common.WipeByteArray(secret)

	value, err = a.dash.BeginSaveCredential(kind, value)
	if err != nil {
		a.flushNotice()
		return err
	}
	err = a.deps.Services.Account.SaveCredential(ctx, kind, value)
	if a.expired(ctx, err) {
		return err
	}
	refresh := a.dash.ApplyCredentialSaved(kind, err)
	a.flushNotice()
	if refresh {
		a.refreshProfile(ctx)
	}
	return err
}

// Reconnect replaces a stored credential.
func (a *App) Reconnect(ctx context.Context, arg string) error {
	if a.dash == nil {
		return errNotSignedIn
	}
	name, err := a.prompt(arg, "Which credential? (hashnode or groq)")
	if err != nil {
		return err
	}
	kind, err := dashboard.ParseCredential(name)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.dash.Reconnect(kind)
	return a.SaveCredential(ctx, kind)
}
