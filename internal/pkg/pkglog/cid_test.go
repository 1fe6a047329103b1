package pkglog

import (
	"context"
	"testing"
	"time"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelationID(ctx); got != "[invalid_chain_id]" {
		t.Fatalf("expected invalid chain id, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "cid-123")
	if got := GetCorrelationID(ctx); got != "cid-123" {
		t.Fatalf("expected cid-123, got %q", got)
	}
}

func TestDetachedContextKeepsCorrelationID(t *testing.T) {
	parent, cancel := context.WithTimeout(SetCorrelationID(context.Background(), "cid-456"), time.Millisecond)
	cancel()

	ctx := DetachedContext(parent)
	if ctx.Err() != nil {
		t.Fatalf("expected detached context to ignore parent cancellation, got %v", ctx.Err())
	}
	if got := GetCorrelationID(ctx); got != "cid-456" {
		t.Fatalf("expected cid-456, got %q", got)
	}

	if got := GetCorrelationID(DetachedContext(context.Background())); got != "[invalid_chain_id]" {
		t.Fatalf("expected invalid chain id for bare parent, got %q", got)
	}
}
