package services_test

import (
	"context"
	"testing"

	"alphamastery/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithRoute(ctx, "/rotation/next")
	ctx = services.WithRotationKey(ctx, "myth")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if route, ok := services.RouteFromContext(ctx); !ok || route != "/rotation/next" {
		t.Fatalf("unexpected route: %v %v", route, ok)
	}
	if key, ok := services.RotationKeyFromContext(ctx); !ok || key != "myth" {
		t.Fatalf("unexpected rotation key: %v %v", key, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithRotationKey(ctx, "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.RotationKeyFromContext(ctx); ok {
		t.Fatal("expected no rotation key")
	}
}
