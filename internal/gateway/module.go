package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/inbound"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/monitor"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/proxyclient"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/state"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/usecase"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgconfig"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgrouter"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgroutine"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
}

// New wires the gateway module: outbound proxy client, connection state,
// background monitor, usecase, and HTTP routes. The returned closer stops
// the monitor.
func New(dep Dependency) (func(context.Context) error, error) {
	client := proxyclient.New(proxyclient.Config{
		ProbeHost:      dep.Config.GetString("proxy.probe.host"),
		ProbePortStart: int(dep.Config.GetInt("proxy.probe.start")),
		ProbePortEnd:   int(dep.Config.GetInt("proxy.probe.end")),
		ProbeTimeout:   dep.Config.GetDuration("proxy.probe.timeout"),
		RequestTimeout: dep.Config.GetDuration("proxy.request_timeout"),
	})

	// A base URL set in config pins the proxy location; otherwise the probe
	// range supplies the fallback target until discovery finds a responder.
	pinned := strings.TrimSpace(dep.Config.GetString("proxy.base_url"))
	states := state.New(fallbackBaseURL(pinned, dep.Config))

	// The first probe runs in the background so a missing proxy never blocks
	// startup; the gateway serves degraded health until one appears.
	dep.Goroutine.Go(dep.Context, func(ctx context.Context) error {
		probeOnce(ctx, client, states, pinned)
		return nil
	})

	mon := monitor.New(client, states, monitor.Config{
		Interval:   dep.Config.GetDuration("proxy.monitor.interval"),
		MaxBackoff: dep.Config.GetDuration("proxy.monitor.max_backoff"),
		Rediscover: pinned == "",
	})
	mon.Start(dep.Context)

	uc := usecase.New(usecase.Dependency{
		Backend: client,
		State:   states,
	})

	auth := pkgrouter.BearerAuth(func() string {
		return dep.Config.GetString("server.auth_token")
	})
	inbound.RegisterHTTPEndpoint(dep.Router, uc, auth)

	return mon.Stop, nil
}

func probeOnce(ctx context.Context, client *proxyclient.Client, states *state.Store, pinned string) {
	if pinned != "" {
		health, err := client.Health(ctx, pinned)
		if err == nil && health.IsAgentProxy() {
			states.MarkConnected(pinned, health)
			slog.InfoContext(ctx, "agent proxy reachable", "base_url", pinned, "project", health.Project)
			return
		}
		slog.WarnContext(ctx, "agent proxy not reachable yet", "base_url", pinned, "error", err)
		return
	}

	baseURL, health, err := client.Discover(ctx)
	if err != nil {
		slog.WarnContext(ctx, "no agent proxy found yet, continuing without it", "error", err)
		return
	}

	states.MarkConnected(baseURL, health)
	slog.InfoContext(ctx, "agent proxy discovered", "base_url", baseURL, "project", health.Project)
}

func fallbackBaseURL(pinned string, cfg pkgconfig.Config) string {
	if pinned != "" {
		return pinned
	}

	host := cfg.GetString("proxy.probe.host")
	if host == "" {
		host = proxyclient.DefaultProbeHost
	}

	port := int(cfg.GetInt("proxy.probe.start"))
	if port < 1 {
		port = proxyclient.DefaultProbePortStart
	}

	return fmt.Sprintf("http://%s:%d", host, port)
}
