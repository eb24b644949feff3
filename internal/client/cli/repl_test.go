package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/stretchr/testify/assert"
)

// stubExec records calls and their arguments.
type stubExec struct {
	screen router.Screen
	calls  []string
}

func (s *stubExec) rec(name string, arg ...string) error {
	s.calls = append(s.calls, strings.TrimSpace(name+" "+strings.Join(arg, " ")))
	return nil
}

func (s *stubExec) Screen() router.Screen { return s.screen }

func (s *stubExec) Signup(context.Context) error        { return s.rec("signup") }
func (s *stubExec) Login(context.Context) error         { return s.rec("login") }
func (s *stubExec) Register(context.Context) error      { return s.rec("register") }
func (s *stubExec) PasswordLogin(context.Context) error { return s.rec("plogin") }

func (s *stubExec) Email(_ context.Context, arg string) error    { return s.rec("email", arg) }
func (s *stubExec) Send(context.Context) error                   { return s.rec("send") }
func (s *stubExec) Code(_ context.Context, arg string) error     { return s.rec("code", arg) }
func (s *stubExec) Verify(context.Context) error                 { return s.rec("verify") }
func (s *stubExec) Resend(context.Context) error                 { return s.rec("resend") }
func (s *stubExec) Remember(_ context.Context, arg string) error { return s.rec("remember", arg) }
func (s *stubExec) Back(context.Context) error                   { return s.rec("back") }

func (s *stubExec) Select(_ context.Context, arg string) error    { return s.rec("select", arg) }
func (s *stubExec) Clear(context.Context) error                   { return s.rec("clear") }
func (s *stubExec) Convert(context.Context) error                 { return s.rec("convert") }
func (s *stubExec) Upload(_ context.Context, arg string) error    { return s.rec("upload", arg) }
func (s *stubExec) History(context.Context) error                 { return s.rec("history") }
func (s *stubExec) Usage(context.Context) error                   { return s.rec("usage") }
func (s *stubExec) Settings(context.Context) error                { return s.rec("settings") }
func (s *stubExec) Reconnect(_ context.Context, arg string) error { return s.rec("reconnect", arg) }
func (s *stubExec) Logout(context.Context) error                  { return s.rec("logout") }

func (s *stubExec) SaveCredential(_ context.Context, kind dashboard.Credential) error {
	return s.rec("save", kind.String())
}

func repl(t *testing.T, s *stubExec, input string) string {
	t.Helper()
	var out bytes.Buffer
	runREPL(context.Background(), s, bufio.NewReader(strings.NewReader(input)), &out)
	return out.String()
}

func TestREPL_LandingCommands(t *testing.T) {
	s := &stubExec{screen: router.Landing}
	out := repl(t, s, "signup\nlogin\nregister\nplogin\nexit\n")

	assert.Equal(t, []string{"signup", "login", "register", "plogin"}, s.calls)
	assert.Contains(t, out, "v2b landing> ")
	assert.Contains(t, out, "Bye!")
}

func TestREPL_RejectsCommandsOfOtherScreens(t *testing.T) {
	s := &stubExec{screen: router.Landing}
	out := repl(t, s, "upload a.mp4\nverify\nquit\n")

	assert.Empty(t, s.calls)
	assert.Contains(t, out, "Unknown command: upload")
	assert.Contains(t, out, "Unknown command: verify")
}

func TestREPL_PassesRestOfLine(t *testing.T) {
	s := &stubExec{screen: router.Login}
	repl(t, s, "email   ada@example.com \ncode 12 34 56\nremember off\nsend\nverify\nback\n")

	assert.Equal(t, []string{
		"email ada@example.com",
		"code 12 34 56",
		"remember off",
		"send",
		"verify",
		"back",
	}, s.calls)
}

func TestREPL_DashboardCommands(t *testing.T) {
	s := &stubExec{screen: router.Dashboard}
	repl(t, s, "upload /tmp/my talk.mp4\nhistory\nusage\nsettings\nhashnode\ngroq\nreconnect groq\nclear\nlogout\n")

	assert.Equal(t, []string{
		"upload /tmp/my talk.mp4",
		"history",
		"usage",
		"settings",
		"save hashnode",
		"save groq",
		"reconnect groq",
		"clear",
		"logout",
	}, s.calls)
}

func TestREPL_Help(t *testing.T) {
	tests := []struct {
		screen router.Screen
		want   string
		absent string
	}{
		{router.Landing, "signup, login, register, plogin", "upload"},
		{router.Signup, "email, send, code, verify, resend, back", "remember"},
		{router.Login, "remember", "upload"},
		{router.Dashboard, "upload, select", "signup"},
	}
	for _, tt := range tests {
		t.Run(tt.screen.String(), func(t *testing.T) {
			out := repl(t, &stubExec{screen: tt.screen}, "help\n")
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, tt.absent)
		})
	}
}

func TestREPL_StopsOnEOFAndCancel(t *testing.T) {
	s := &stubExec{screen: router.Landing}
	repl(t, s, "\n\nsignup")
	assert.Equal(t, []string{"signup"}, s.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	runREPL(ctx, s, bufio.NewReader(strings.NewReader("login\n")), &out)
	assert.Equal(t, []string{"signup"}, s.calls)
	assert.Empty(t, out.String())
}
