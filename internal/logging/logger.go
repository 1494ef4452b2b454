package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"par/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives output. When nil, Path is opened for appending, and
	// without a Path records go to stderr.
	Writer    io.Writer
	Path      string
	SessionID string
}

// New builds a logger from opts. Debug level adds source locations.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		var err error
		if w, err = openLogFile(opts.Path); err != nil {
			return nil, err
		}
	}
	withSource := level <= slog.LevelDebug

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handler = newConsoleHandler(w, level, withSource)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   withSource,
			ReplaceAttr: renameJSONKeys,
		})
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	if opts.SessionID != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String(FieldSessionID, opts.SessionID)})
	}
	return slog.New(handler), nil
}

// NewFromConfig creates a logger appending to the configured log file, so
// command output on stdout stays clean. The file is rotated once it passes
// maxLogBytes and rotated files older than the retention window are pruned.
// Without a config it logs to stderr.
func NewFromConfig(cfg *config.Config, sessionID string) (*slog.Logger, error) {
	if cfg == nil || cfg.Paths.LogDir == "" {
		return New(Options{SessionID: sessionID})
	}

	logPath := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	rotated, err := RotateIfLarge(logPath, maxLogBytes, time.Now())
	if err != nil {
		return nil, err
	}
	logger, err := New(Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Path:      logPath,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}
	if rotated != "" {
		logger.Info("log rotated", String("previous", rotated))
		PruneRotated(logger, logPath, cfg.Logging.RetentionDays, time.Now())
	}
	return logger, nil
}

// NewConsoleHandler returns a console handler writing records at or above
// level to w. Pair it with TeeLogger to mirror a file logger on a terminal.
func NewConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return newConsoleHandler(w, level, false)
}

func openLogFile(path string) (io.Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// renameJSONKeys shortens the built-in keys and trims source paths so JSON
// lines line up with the console format.
func renameJSONKeys(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339))
	case slog.LevelKey:
		return slog.String("level", strings.ToLower(a.Value.String()))
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return a
}
