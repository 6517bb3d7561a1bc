package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"paxmatch/internal/config"
)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "paxmatch.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives console output; nil means stderr.
	Writer io.Writer
	// FilePath, when set, receives JSON lines at debug level regardless of Level.
	FilePath string
}

// New constructs a slog logger using the provided options. The returned
// close function syncs and closes the log file; it is a no-op without one.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := parseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	addSource := level <= slog.LevelDebug

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		handler = newPrettyHandler(w, level, addSource)
	case "json":
		handler = newJSONHandler(w, level, addSource)
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, nil, err
		}
		handler = tee(handler, newJSONHandler(file, slog.LevelDebug, true))
		closeFn = func() error {
			return errors.Join(file.Sync(), file.Close())
		}
	}
	return slog.New(handler), closeFn, nil
}

// NewFromConfig builds the logger described by cfg's logging section with
// console output on w (stderr when nil), plus the JSON run log when
// paths.log_dir is set.
func NewFromConfig(cfg *config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Writer: w})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: w}
	if cfg.Paths.LogDir != "" {
		opts.FilePath = filepath.Join(cfg.Paths.LogDir, LogFileName)
	}
	return New(opts)
}

// parseLevel maps a config string to a level; unknown values mean info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
