package logging

import (
	"context"
	"log/slog"

	"par/internal/services"
)

// Standard attribute keys. Console and JSON output use the same names so
// `par logs --artist` can filter either format.
const (
	FieldComponent     = "component"
	FieldSessionID     = "session_id"
	FieldArtistID      = "artist_id"
	FieldQueueIndex    = "queue_index"
	FieldQueueTotal    = "queue_total"
	FieldCorrelationID = "correlation_id"
	// FieldEventType names the kind of event a WARN/ERROR line reports.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for whoever reads the line.
	FieldErrorHint = "error_hint"
	// FieldImpact states what the user loses because of a warning.
	FieldImpact = "impact"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Uint64(key string, value uint64) Attr { return slog.Uint64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error wraps err under the "error" key.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func toArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return args
}

// NoopHandler discards everything.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NoopHandler{} }
func (NoopHandler) WithGroup(string) slog.Handler             { return NoopHandler{} }

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger yields
// a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// ContextFields returns the artist and correlation attributes carried by ctx.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var fields []Attr
	if id, ok := services.ArtistIDFromContext(ctx); ok {
		fields = append(fields, Uint64(FieldArtistID, uint64(id)))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext adds ContextFields(ctx) to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}

// WarnWithContext logs a warning that always carries event_type, error_hint,
// and impact. Missing fields get generic values.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check logs for details")
	attrs = withDefault(attrs, FieldImpact, "operation completed with warnings")
	logger.Warn(msg, toArgs(attrs)...)
}

// ErrorWithContext logs an error that always carries event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check logs for details")
	logger.Error(msg, toArgs(attrs)...)
}

func withDefault(attrs []Attr, key, value string) []Attr {
	for _, a := range attrs {
		if a.Key == key {
			return attrs
		}
	}
	return append(attrs, String(key, value))
}
