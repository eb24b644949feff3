package tui

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/client/storage"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	sendRes   api.SendOTPResult
	sendErr   error
	verifyRes api.VerifyResult
	verifyErr error
	profile   api.Profile
	meErr     error
	saveErr   error
	convRes   api.ConversionResult
	convErr   error
	history   []api.HistoryEntry
	histErr   error
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Signup(context.Context, string, string) error {
	f.record("Signup")
	return nil
}

func (f *fakeAPI) Login(context.Context, string, string) (string, error) {
	f.record("Login")
	return "", nil
}

func (f *fakeAPI) SendOTP(context.Context, string) (api.SendOTPResult, error) {
	f.record("SendOTP")
	return f.sendRes, f.sendErr
}

func (f *fakeAPI) VerifyOTP(context.Context, string, string) (api.VerifyResult, error) {
	f.record("VerifyOTP")
	return f.verifyRes, f.verifyErr
}

func (f *fakeAPI) Me(context.Context) (api.Profile, error) {
	f.record("Me")
	return f.profile, f.meErr
}

func (f *fakeAPI) SaveHashnodeToken(context.Context, string) error {
	f.record("SaveHashnodeToken")
	return f.saveErr
}

func (f *fakeAPI) SaveGroqAPIKey(context.Context, string) error {
	f.record("SaveGroqAPIKey")
	return f.saveErr
}

func (f *fakeAPI) Convert(context.Context, api.Upload) (api.ConversionResult, error) {
	f.record("Convert")
	return f.convRes, f.convErr
}

func (f *fakeAPI) History(context.Context) ([]api.HistoryEntry, error) {
	f.record("History")
	return f.history, f.histErr
}

type harness struct {
	model  *Model
	router *router.Router
	api    *fakeAPI
}

// newHarness builds the model over a fresh in-memory session store. When
// token is set the store starts signed in.
func newHarness(t *testing.T, fake *fakeAPI, token string, flags session.Flags) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := session.NewStore(db)
	if token != "" {
		require.NoError(t, store.Save(ctx, token, flags))
	}
	r := router.New(store)

	m := New(ctx, Deps{
		Router:   r,
		Services: services.New(fake, r, time.Hour, nil),
		Options: Options{
			OTPCooldown:         time.Minute,
			SignupRedirectDelay: 10 * time.Millisecond,
			NoticeTTL:           time.Minute,
		},
	})
	h := &harness{model: m, router: r, api: fake}
	h.pump(t, m.Init())
	return h
}

const settle = 100 * time.Millisecond

// pump runs cmd and feeds what it yields back into the model, round by
// round. Commands still running after the settle window (ticks, cursor
// blinks) are abandoned, and spinner frames are not fed back.
func (h *harness) pump(t *testing.T, cmd tea.Cmd) (quit bool) {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for round := 0; round < 20 && len(pending) > 0; round++ {
		var next []tea.Cmd
		for _, msg := range collect(pending) {
			switch msg := msg.(type) {
			case tea.BatchMsg:
				next = append(next, msg...)
			case tea.QuitMsg:
				quit = true
			case spinner.TickMsg:
			default:
				_, c := h.model.Update(msg)
				next = append(next, c)
			}
		}
		pending = next
	}
	return quit
}

func collect(cmds []tea.Cmd) []tea.Msg {
	type result struct {
		i   int
		msg tea.Msg
	}
	ch := make(chan result, len(cmds))
	n := 0
	for i, c := range cmds {
		if c == nil {
			continue
		}
		n++
		i, c := i, c
		go func() { ch <- result{i: i, msg: c()} }()
	}

	var got []result
	timeout := time.After(settle)
wait:
	for len(got) < n {
		select {
		case r := <-ch:
			got = append(got, r)
		case <-timeout:
			break wait
		}
	}

	sort.Slice(got, func(a, b int) bool { return got[a].i < got[b].i })
	out := make([]tea.Msg, 0, len(got))
	for _, r := range got {
		if r.msg != nil {
			out = append(out, r.msg)
		}
	}
	return out
}

func (h *harness) send(t *testing.T, msg tea.Msg) bool {
	t.Helper()
	_, cmd := h.model.Update(msg)
	return h.pump(t, cmd)
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(t *testing.T, k tea.KeyType) bool {
	t.Helper()
	return h.send(t, tea.KeyMsg{Type: k})
}

func (h *harness) key(t *testing.T, r rune) bool {
	t.Helper()
	return h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}
