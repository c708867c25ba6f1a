package services_test

import (
	"context"
	"testing"

	"archivist/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithGroupKey(ctx, "PSC_1975_03_01")
	ctx = services.WithOperation(ctx, "publish")
	ctx = services.WithSessionID(ctx, "sess-123")

	if key, ok := services.GroupKeyFromContext(ctx); !ok || key != "PSC_1975_03_01" {
		t.Fatalf("unexpected group key: %v %v", key, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "publish" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
	if sid, ok := services.SessionIDFromContext(ctx); !ok || sid != "sess-123" {
		t.Fatalf("unexpected session id: %v %v", sid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOperation(ctx, "")
	ctx = services.WithGroupKey(ctx, "")
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected no operation value")
	}
	if _, ok := services.GroupKeyFromContext(ctx); ok {
		t.Fatal("expected no group key value")
	}
}
