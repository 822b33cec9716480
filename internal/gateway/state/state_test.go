package state

import (
	"errors"
	"testing"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
)

func TestStoreStartsDisconnected(t *testing.T) {
	store := New("http://127.0.0.1:8765")

	snap := store.Snapshot()
	if snap.Connected {
		t.Fatalf("expected disconnected at start")
	}
	if snap.BaseURL != "http://127.0.0.1:8765" {
		t.Fatalf("unexpected base url: %q", snap.BaseURL)
	}
}

func TestStoreMarkConnected(t *testing.T) {
	store := New("http://127.0.0.1:8765")

	store.MarkConnected("http://127.0.0.1:8770", entity.ProxyHealth{
		Service: entity.ServiceSignature,
		Project: "demo",
	})

	snap := store.Snapshot()
	if !snap.Connected {
		t.Fatalf("expected connected")
	}
	if snap.BaseURL != "http://127.0.0.1:8770" {
		t.Fatalf("unexpected base url: %q", snap.BaseURL)
	}
	if snap.Health.Project != "demo" {
		t.Fatalf("unexpected project: %q", snap.Health.Project)
	}
	if snap.CheckedAt.IsZero() {
		t.Fatalf("expected checked timestamp")
	}
}

func TestStoreMarkDisconnectedKeepsBaseURL(t *testing.T) {
	store := New("http://127.0.0.1:8765")
	store.MarkConnected("http://127.0.0.1:8770", entity.ProxyHealth{Service: entity.ServiceSignature})

	store.MarkDisconnected(errors.New("connection refused"))

	snap := store.Snapshot()
	if snap.Connected {
		t.Fatalf("expected disconnected")
	}
	if snap.BaseURL != "http://127.0.0.1:8770" {
		t.Fatalf("expected last known base url, got %q", snap.BaseURL)
	}
	if snap.LastErr != "connection refused" {
		t.Fatalf("unexpected last error: %q", snap.LastErr)
	}
	if snap.Health.Service != "" {
		t.Fatalf("expected health cleared")
	}
}
