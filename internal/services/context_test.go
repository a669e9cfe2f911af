package services_test

import (
	"context"
	"testing"

	"lookout/internal/services"
)

func TestFrameContextRoundTrip(t *testing.T) {
	ctx := services.WithFrame(context.Background(), 42)
	seq, ok := services.FrameFromContext(ctx)
	if !ok {
		t.Fatal("expected frame sequence in context")
	}
	if seq != 42 {
		t.Fatalf("expected sequence 42, got %d", seq)
	}

	if _, ok := services.FrameFromContext(context.Background()); ok {
		t.Fatal("expected no frame sequence in empty context")
	}
}

func TestComponentContextSkipsEmpty(t *testing.T) {
	ctx := services.WithComponent(context.Background(), "")
	if _, ok := services.ComponentFromContext(ctx); ok {
		t.Fatal("empty component must not be stored")
	}

	ctx = services.WithComponent(ctx, "throttle")
	name, ok := services.ComponentFromContext(ctx)
	if !ok || name != "throttle" {
		t.Fatalf("expected component throttle, got %q (ok=%v)", name, ok)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "req-123")
	id, ok := services.RequestIDFromContext(ctx)
	if !ok || id != "req-123" {
		t.Fatalf("expected request id req-123, got %q (ok=%v)", id, ok)
	}
}
