package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/proxyclient"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgerror"
)

// Backend is the outbound surface of the proxy client used by the usecase.
type Backend interface {
	Health(ctx context.Context, baseURL string) (entity.ProxyHealth, error)
	Get(ctx context.Context, baseURL, endpoint string) (json.RawMessage, error)
	Post(ctx context.Context, baseURL, endpoint string, body any) (json.RawMessage, error)
}

// States exposes the current proxy connection state.
type States interface {
	Snapshot() entity.ProxyStatus
}

type Dependency struct {
	Backend Backend
	State   States
}

// Usecase validates inbound operations, translates convenience calls into
// generic tool invocations, and forwards everything to the agent proxy.
type Usecase struct {
	backend Backend
	state   States
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		backend: dep.Backend,
		state:   dep.State,
	}
}

// Health checks live proxy connectivity. The gateway itself is always
// healthy; an unreachable proxy only degrades the report.
func (u *Usecase) Health(ctx context.Context) HealthResult {
	if u.backend == nil {
		return HealthResult{}
	}

	health, err := u.backend.Health(ctx, u.baseURL())
	if err != nil {
		return HealthResult{}
	}

	return HealthResult{Connected: true, ProxyInfo: health.Raw}
}

// Explore forwards a natural language exploration query. Proxy failures are
// folded into the explore response shape, never surfaced as a fault.
func (u *Usecase) Explore(ctx context.Context, in ExploreInput) (any, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	body := map[string]any{
		"query":           in.Query,
		"generate_report": in.GenerateReport,
		"config":          in.Config,
	}

	raw, err := u.backend.Post(ctx, u.baseURL(), "/explore", body)
	if err != nil {
		if msg, ok := proxyMessage(err); ok {
			return ExploreFallback{Success: false, Summary: "", Error: msg}, nil
		}
		return nil, pkgerror.NewServer(err)
	}

	return raw, nil
}

// ExecuteTool invokes a named exploration tool with its parameter map.
func (u *Usecase) ExecuteTool(ctx context.Context, call entity.ToolCall) (any, error) {
	if strings.TrimSpace(call.Tool) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("tool is required"))
	}
	if call.Parameters == nil {
		call.Parameters = map[string]any{}
	}

	body := map[string]any{
		"tool":       call.Tool,
		"parameters": call.Parameters,
	}

	raw, err := u.backend.Post(ctx, u.baseURL(), "/execute-tool", body)
	if err != nil {
		if msg, ok := proxyMessage(err); ok {
			return ToolFallback{Success: false, Content: "", Error: msg}, nil
		}
		return nil, pkgerror.NewServer(err)
	}

	return raw, nil
}

// ListTools relays the proxy's tool catalog.
func (u *Usecase) ListTools(ctx context.Context) (any, error) {
	return u.relayGet(ctx, "/tools")
}

// Augment forwards a query to be enriched with code context.
func (u *Usecase) Augment(ctx context.Context, query string) (any, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	return u.relayPost(ctx, "/augment", map[string]any{"query": query})
}

// Status relays the proxy's current status.
func (u *Usecase) Status(ctx context.Context) (any, error) {
	return u.relayGet(ctx, "/status")
}

// GetConfig relays the proxy's current configuration.
func (u *Usecase) GetConfig(ctx context.Context) (any, error) {
	return u.relayGet(ctx, "/config")
}

// UpdateConfig forwards only the provided tunables to the proxy.
func (u *Usecase) UpdateConfig(ctx context.Context, update entity.TunableUpdate) (any, error) {
	return u.relayPost(ctx, "/config", update.Fields())
}

func (u *Usecase) relayGet(ctx context.Context, endpoint string) (any, error) {
	raw, err := u.backend.Get(ctx, u.baseURL(), endpoint)
	if err != nil {
		return nil, mapProxyErr(err)
	}
	return raw, nil
}

func (u *Usecase) relayPost(ctx context.Context, endpoint string, body any) (any, error) {
	raw, err := u.backend.Post(ctx, u.baseURL(), endpoint, body)
	if err != nil {
		return nil, mapProxyErr(err)
	}
	return raw, nil
}

func (u *Usecase) baseURL() string {
	return u.state.Snapshot().BaseURL
}

// proxyMessage extracts a caller-safe message from a proxy failure.
func proxyMessage(err error) (string, bool) {
	var perr *proxyclient.Error
	if errors.As(err, &perr) {
		return perr.Message, true
	}
	return "", false
}

// mapProxyErr converts proxy failures into structured errors for routes that
// relay payloads instead of folding failures into a response shape.
func mapProxyErr(err error) error {
	var perr *proxyclient.Error
	if errors.As(err, &perr) {
		if perr.Timeout {
			return pkgerror.NewUpstream(perr.Message, pkgerror.CodeTimeout)
		}
		return pkgerror.NewUpstream(perr.Message, pkgerror.CodeUnavailable)
	}
	return pkgerror.NewServer(err)
}
