package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2024-01-02T15:04:05Z INFO component: message [file.go:12] key=value
//
// Attributes bound through WithAttrs are rendered once and reused.
type consoleHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	level      slog.Level
	withSource bool
	component  string
	prefix     string
	bound      []byte
}

func newConsoleHandler(w io.Writer, level slog.Level, withSource bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: level, withSource: withSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	component := h.component
	var attrs []byte
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == FieldComponent {
			component = a.Value.Resolve().String()
			return true
		}
		attrs = appendAttr(attrs, h.prefix, a)
		return true
	})

	buf := make([]byte, 0, 96+len(h.bound)+len(attrs))
	buf = ts.UTC().AppendFormat(buf, time.RFC3339)
	buf = append(buf, ' ')
	buf = append(buf, levelLabel(r.Level)...)
	buf = append(buf, ' ')
	if component != "" {
		buf = append(buf, component...)
		buf = append(buf, ": "...)
	}
	if r.Message == "" {
		buf = append(buf, "(no message)"...)
	} else {
		buf = append(buf, r.Message...)
	}
	if h.withSource {
		if src := r.Source(); src != nil {
			buf = append(buf, " ["...)
			buf = append(buf, filepath.Base(src.File)...)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, int64(src.Line), 10)
			buf = append(buf, ']')
		}
	}
	buf = append(buf, h.bound...)
	buf = append(buf, attrs...)
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = append([]byte(nil), h.bound...)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == FieldComponent {
			next.component = a.Value.Resolve().String()
			continue
		}
		next.bound = appendAttr(next.bound, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			buf = appendAttr(buf, prefix, member)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return append(buf, quoteIfNeeded(valueText(a.Value))...)
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
