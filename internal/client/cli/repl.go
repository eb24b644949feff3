package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Screen() router.Screen

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	PasswordLogin(ctx context.Context) error

	Email(ctx context.Context, arg string) error
	Send(ctx context.Context) error
	Code(ctx context.Context, arg string) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Remember(ctx context.Context, arg string) error
	Back(ctx context.Context) error

	Select(ctx context.Context, arg string) error
	Clear(ctx context.Context) error
	Convert(ctx context.Context) error
	Upload(ctx context.Context, arg string) error
	History(ctx context.Context) error
	Usage(ctx context.Context) error
	Settings(ctx context.Context) error
	SaveCredential(ctx context.Context, kind dashboard.Credential) error
	Reconnect(ctx context.Context, arg string) error
	Logout(ctx context.Context) error
}

// commands lists what can be typed on each screen, in help order.
var commands = map[router.Screen][]string{
	router.Landing:   {"signup", "login", "register", "plogin"},
	router.Signup:    {"email", "send", "code", "verify", "resend", "back"},
	router.Login:     {"email", "send", "code", "verify", "resend", "remember", "back"},
	router.Dashboard: {"upload", "select", "clear", "convert", "history", "usage", "settings", "hashnode", "groq", "reconnect", "logout"},
}

func allowed(s router.Screen, cmd string) bool {
	for _, c := range commands[s] {
		if c == cmd {
			return true
		}
	}
	return false
}

// runREPL starts a simple read–eval–print loop for the vid2blog CLI.
//
// It reads a line from reader, takes the first word as the command and the
// rest of the line as its argument, and dispatches to methods on a. Commands
// that do not belong to the active screen are rejected. The loop exits on
// EOF, when ctx is cancelled, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "v2b %s> ", a.Screen())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "help":
			fmt.Fprintf(out, "Available commands: %s, help, exit\n", strings.Join(commands[a.Screen()], ", "))
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		}

		if !allowed(a.Screen(), cmd) {
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}

		switch cmd {
		case "signup":
			_ = a.Signup(ctx)
		case "login":
			_ = a.Login(ctx)
		case "register":
			_ = a.Register(ctx)
		case "plogin":
			_ = a.PasswordLogin(ctx)

		case "email":
			_ = a.Email(ctx, arg)
		case "send":
			_ = a.Send(ctx)
		case "code":
			_ = a.Code(ctx, arg)
		case "verify":
			_ = a.Verify(ctx)
		case "resend":
			_ = a.Resend(ctx)
		case "remember":
			_ = a.Remember(ctx, arg)
		case "back":
			_ = a.Back(ctx)

		case "upload":
			_ = a.Upload(ctx, arg)
		case "select":
			_ = a.Select(ctx, arg)
		case "clear":
			_ = a.Clear(ctx)
		case "convert":
			_ = a.Convert(ctx)
		case "history":
			_ = a.History(ctx)
		case "usage":
			_ = a.Usage(ctx)
		case "settings":
			_ = a.Settings(ctx)
		case "hashnode":
			_ = a.SaveCredential(ctx, dashboard.Hashnode)
		case "groq":
			_ = a.SaveCredential(ctx, dashboard.Groq)
		case "reconnect":
			_ = a.Reconnect(ctx, arg)
		case "logout":
			_ = a.Logout(ctx)
		}
	}
}
