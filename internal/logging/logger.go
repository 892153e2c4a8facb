package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns the server and CLI logger at the given level. Records go to
// stderr so stdout stays free for command output.
func New(level slog.Level) *slog.Logger {
	return slog.New(textHandler(os.Stderr, level))
}

// NewNop is the logger a Controller gets when none is configured.
func NewNop() *slog.Logger {
	return slog.New(textHandler(io.Discard, slog.LevelError))
}

// textHandler shortens the "error" attribute to "err" on every record.
func textHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameErr,
	})
}

func renameErr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// ParseLevel maps debug, info, warn and error to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
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
