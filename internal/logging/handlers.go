package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends each record to every wrapped handler that wants it.
type teeHandler []slog.Handler

func newTeeHandler(handlers ...slog.Handler) slog.Handler {
	var live teeHandler
	for _, h := range handlers {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return NoopHandler{}
	case 1:
		return live[0]
	}
	return live
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}

// TeeLogger returns a logger writing to base's handler and to every extra
// handler, e.g. the log file plus a terminal.
func TeeLogger(base *slog.Logger, extra ...slog.Handler) *slog.Logger {
	if base == nil {
		return slog.New(newTeeHandler(extra...))
	}
	return slog.New(newTeeHandler(append([]slog.Handler{base.Handler()}, extra...)...))
}

// minLevelHandler drops records below min before they reach next.
type minLevelHandler struct {
	next slog.Handler
	min  slog.Level
}

func (h minLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.next.Enabled(ctx, level)
}

func (h minLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.min {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h minLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return minLevelHandler{next: h.next.WithAttrs(attrs), min: h.min}
}

func (h minLevelHandler) WithGroup(name string) slog.Handler {
	return minLevelHandler{next: h.next.WithGroup(name), min: h.min}
}

// WithMinLevel returns a logger that drops records below min. Raising the
// floor of an already filtered logger replaces the old floor rather than
// stacking another wrapper.
func WithMinLevel(logger *slog.Logger, min slog.Level) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	next := logger.Handler()
	if existing, ok := next.(minLevelHandler); ok {
		next = existing.next
	}
	return slog.New(minLevelHandler{next: next, min: min})
}
