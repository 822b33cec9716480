// Package state keeps the last known agent proxy connection state. It is the
// only mutable state in the gateway and is shared by the monitor, the
// usecase, and the health endpoint.
package state

import (
	"sync"
	"time"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
)

// Store is a mutex-guarded record of the proxy connection.
type Store struct {
	mu  sync.RWMutex
	cur entity.ProxyStatus
}

// New creates a Store pointing at the fallback base URL, marked disconnected
// until a probe succeeds. Requests are still attempted against the fallback
// so a proxy that comes up later is reached without waiting for the monitor.
func New(fallbackBaseURL string) *Store {
	return &Store{
		cur: entity.ProxyStatus{BaseURL: fallbackBaseURL},
	}
}

// MarkConnected records a successful probe of the proxy at baseURL.
func (s *Store) MarkConnected(baseURL string, health entity.ProxyHealth) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = entity.ProxyStatus{
		BaseURL:   baseURL,
		Connected: true,
		Health:    health,
		CheckedAt: time.Now(),
	}
}

// MarkDisconnected records a failed probe. The base URL is kept so requests
// keep targeting the last known location.
func (s *Store) MarkDisconnected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur.Connected = false
	s.cur.Health = entity.ProxyHealth{}
	s.cur.CheckedAt = time.Now()
	if err != nil {
		s.cur.LastErr = err.Error()
	}
}

// Snapshot returns a copy of the current connection state.
func (s *Store) Snapshot() entity.ProxyStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cur
}
