package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options selects the logger implementation and its destination.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, zerolog
	File   string // empty means the fallback writer
}

// New builds a Logger from opts. When opts.File is set the log is appended
// to that file and the returned closer closes it; otherwise output goes to
// fallback and the closer is a no-op.
func New(opts Options, fallback io.Writer) (Logger, io.Closer, error) {
	var (
		w                = fallback
		closer io.Closer = io.NopCloser(nil)
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), closer, nil
	case "json":
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), closer, nil
	case "zerolog":
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil || opts.Level == "" {
			lvl = zerolog.InfoLevel
		}
		zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
		return NewZerologLogger(zl), closer, nil
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
