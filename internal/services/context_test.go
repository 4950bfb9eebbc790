package services_test

import (
	"context"
	"testing"

	"snapsort/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "b-123")
	ctx = services.WithChatID(ctx, -100456)

	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "b-123" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if chat, ok := services.ChatIDFromContext(ctx); !ok || chat != -100456 {
		t.Fatalf("unexpected chat id: %v %v", chat, ok)
	}
}

func TestBatchIDBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "")
	if _, ok := services.BatchIDFromContext(ctx); ok {
		t.Fatal("expected no batch id value")
	}
}

func TestChatIDAbsent(t *testing.T) {
	if _, ok := services.ChatIDFromContext(context.Background()); ok {
		t.Fatal("expected no chat id value")
	}
}
