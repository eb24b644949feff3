package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

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

	signupErr  error
	loginToken string
	loginErr   error
	sendRes    api.SendOTPResult
	sendErr    error
	verifyRes  api.VerifyResult
	verifyErr  error
	profile    api.Profile
	meErr      error
	saveErr    error
	convRes    api.ConversionResult
	convErr    error
	history    []api.HistoryEntry
	histErr    error
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
	return f.signupErr
}

func (f *fakeAPI) Login(context.Context, string, string) (string, error) {
	f.record("Login")
	return f.loginToken, f.loginErr
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
	app    *App
	router *router.Router
	store  *session.Store
	api    *fakeAPI
	out    *bytes.Buffer
}

// newHarness builds an App over a fresh in-memory session store that reads
// the given script. When token is set the store starts signed in.
func newHarness(t *testing.T, fake *fakeAPI, token string, flags session.Flags, script ...string) *harness {
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

	out := &bytes.Buffer{}
	in := strings.Join(script, "\n")
	if in != "" {
		in += "\n"
	}
	app := NewApp(Deps{
		Router:   r,
		Services: services.New(fake, r, time.Hour, nil),
		Options: Options{
			OTPCooldown:         time.Minute,
			SignupRedirectDelay: 10 * time.Millisecond,
			NoticeTTL:           time.Minute,
		},
	}, strings.NewReader(in), out)

	return &harness{app: app, router: r, store: store, api: fake, out: out}
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.app.Run(context.Background()))
	return h.out.String()
}

// stubSecrets answers secret prompts with values, in order.
func stubSecrets(t *testing.T, values ...string) {
	t.Helper()
	old := getSecret
	t.Cleanup(func() { getSecret = old })
	getSecret = func(w io.Writer, prompt string) ([]byte, error) {
		if len(values) == 0 {
			return nil, io.EOF
		}
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}
