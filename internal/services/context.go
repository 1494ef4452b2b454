package services

import "context"

type contextKey string

const (
	artistIDKey  contextKey = "artist_id"
	requestIDKey contextKey = "request_id"
)

// WithArtistID annotates context with the artist being worked on.
func WithArtistID(ctx context.Context, id uint32) context.Context {
	return context.WithValue(ctx, artistIDKey, id)
}

// ArtistIDFromContext extracts the artist identifier if present.
func ArtistIDFromContext(ctx context.Context) (uint32, bool) {
	v, ok := ctx.Value(artistIDKey).(uint32)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// WithRequestID annotates context with a correlation identifier, such as
// the review shell command that triggered the work.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
