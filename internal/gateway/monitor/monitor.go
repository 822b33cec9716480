// Package monitor keeps the agent proxy connection state fresh. The original
// gateway only probed at startup; the monitor re-checks in the background so
// the health endpoint reflects a proxy that restarted or moved ports.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
)

// Prober is the discovery surface of the proxy client.
type Prober interface {
	Health(ctx context.Context, baseURL string) (entity.ProxyHealth, error)
	Discover(ctx context.Context) (string, entity.ProxyHealth, error)
}

// States is the connection state store updated by the monitor.
type States interface {
	Snapshot() entity.ProxyStatus
	MarkConnected(baseURL string, health entity.ProxyHealth)
	MarkDisconnected(err error)
}

// Config tunes the monitor loop.
type Config struct {
	// Interval between checks while the proxy is reachable.
	Interval time.Duration
	// BaseBackoff is the first retry delay after the proxy goes away; it
	// doubles per failed check up to MaxBackoff.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// Rediscover re-probes the whole port range when the pinned base URL
	// stops answering. Disabled when the base URL is fixed by configuration.
	Rediscover bool
}

// Monitor runs a single background goroutine re-checking proxy health.
type Monitor struct {
	prober     Prober
	state      States
	interval   time.Duration
	base       time.Duration
	max        time.Duration
	rediscover bool
	done       chan struct{}
	wg         sync.WaitGroup
}

func New(prober Prober, state States, cfg Config) *Monitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	base := cfg.BaseBackoff
	if base <= 0 {
		base = time.Second
	}

	max := cfg.MaxBackoff
	if max < base {
		max = 5 * time.Minute
	}

	return &Monitor{
		prober:     prober,
		state:      state,
		interval:   interval,
		base:       base,
		max:        max,
		rediscover: cfg.Rediscover,
		done:       make(chan struct{}),
	}
}

// Start launches the monitor loop. ctx cancellation also stops the loop.
func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.loop(ctx)
}

// Stop halts the loop and waits for it to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	close(m.done)

	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	wait := m.interval

	for {
		timer := time.NewTimer(wait)
		select {
		case <-m.done:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if m.check(ctx) {
			wait = m.interval
			continue
		}

		if wait == m.interval {
			wait = m.base
		} else if wait < m.max {
			wait *= 2
			if wait > m.max {
				wait = m.max
			}
		}
	}
}

// check probes the current base URL and updates the state store. It returns
// true while the proxy stays reachable.
func (m *Monitor) check(ctx context.Context) bool {
	snap := m.state.Snapshot()

	health, err := m.prober.Health(ctx, snap.BaseURL)
	if err == nil && health.IsAgentProxy() {
		if !snap.Connected {
			slog.InfoContext(ctx, "agent proxy reachable", "base_url", snap.BaseURL, "project", health.Project)
		}
		m.state.MarkConnected(snap.BaseURL, health)
		return true
	}
	if err == nil {
		err = errors.New("responder is not an agent proxy")
	}

	if m.rediscover {
		if baseURL, found, derr := m.prober.Discover(ctx); derr == nil {
			if !snap.Connected || baseURL != snap.BaseURL {
				slog.InfoContext(ctx, "agent proxy discovered", "base_url", baseURL, "project", found.Project)
			}
			m.state.MarkConnected(baseURL, found)
			return true
		}
	}

	if snap.Connected {
		slog.WarnContext(ctx, "agent proxy lost", "base_url", snap.BaseURL, "error", err)
	}
	m.state.MarkDisconnected(err)
	return false
}
