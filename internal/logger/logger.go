// Package logger
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"sysmon-agent/internal/config"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New logs to cfg.LogOutput so stdout stays free for the agent's JSON output.
func New(cfg *config.Config) Logger {
	return NewWithWriter(output(cfg.LogOutput), cfg.LogLevel, cfg.LogFormat)
}

// output resolves stdout, stderr or a file path. A file that cannot be opened
// falls back to stderr.
func output(dest string) io.Writer {
	switch strings.ToLower(strings.TrimSpace(dest)) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	}

	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s, logging to stderr: %v\n", dest, err)
		return os.Stderr
	}
	return file
}

func NewWithWriter(w io.Writer, level, format string) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Nop discards everything.
func Nop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(s string) slog.Level {
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
