package pkglog

import (
	"context"
	"testing"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := SetCorrelationID(context.Background(), "cid-1")
	if got := GetCorrelationID(ctx); got != "cid-1" {
		t.Fatalf("expected cid-1, got %q", got)
	}
}

func TestCorrelationIDMissing(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "[invalid_chain_id]" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}
