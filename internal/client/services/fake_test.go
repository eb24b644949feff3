package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
)

// fakeClient implements api.Client for service unit tests.
type fakeClient struct {
	mu sync.Mutex

	SignupErr error
	LoginRet  string
	LoginErr  error

	SendOTPRet api.SendOTPResult
	SendOTPErr error
	VerifyRet  api.VerifyResult
	VerifyErr  error

	MeRet api.Profile
	MeErr error

	SaveHashnodeErr error
	SaveGroqErr     error

	ConvertRet   api.ConversionResult
	ConvertErr   error
	ConvertDelay time.Duration
	ConvertPanic bool

	HistoryRet []api.HistoryEntry
	HistoryErr error

	// call log
	Calls            []string
	LastSignupEmail  string
	LastSignupPass   string
	LastLoginPass    string
	LastHashnodeSave string
	LastGroqSave     string
	LastUpload       api.Upload
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *fakeClient) Signup(ctx context.Context, email, password string) error {
	f.record("signup")
	f.LastSignupEmail, f.LastSignupPass = email, password
	return f.SignupErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login")
	f.LastLoginPass = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) SendOTP(ctx context.Context, email string) (api.SendOTPResult, error) {
	f.record("send-otp")
	return f.SendOTPRet, f.SendOTPErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, code string) (api.VerifyResult, error) {
	f.record("verify-otp")
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) Me(ctx context.Context) (api.Profile, error) {
	f.record("me")
	return f.MeRet, f.MeErr
}

func (f *fakeClient) SaveHashnodeToken(ctx context.Context, token string) error {
	f.record("hashnode")
	f.LastHashnodeSave = token
	return f.SaveHashnodeErr
}

func (f *fakeClient) SaveGroqAPIKey(ctx context.Context, key string) error {
	f.record("groq")
	f.LastGroqSave = key
	return f.SaveGroqErr
}

func (f *fakeClient) Convert(ctx context.Context, up api.Upload) (api.ConversionResult, error) {
	f.record("convert")
	f.LastUpload = up
	if f.ConvertDelay > 0 {
		time.Sleep(f.ConvertDelay)
	}
	if f.ConvertPanic {
		panic("convert blew up")
	}
	return f.ConvertRet, f.ConvertErr
}

func (f *fakeClient) History(ctx context.Context) ([]api.HistoryEntry, error) {
	f.record("history")
	return f.HistoryRet, f.HistoryErr
}
