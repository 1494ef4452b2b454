package services_test

import (
	"context"
	"testing"

	"par/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithArtistID(ctx, 42)
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ArtistIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected artist id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithArtistID(ctx, 0)
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.ArtistIDFromContext(ctx); ok {
		t.Fatal("expected zero artist id to be treated as absent")
	}
}
