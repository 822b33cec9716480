// Package proxyclient talks to the local Zest agent proxy over HTTP. It owns
// the shared outbound client, port-range discovery, and the translation of
// transport or status failures into structured errors.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
)

const (
	// DefaultProbePortStart..DefaultProbePortEnd is the port range an agent
	// proxy binds to, first free port wins.
	DefaultProbePortStart = 8765
	DefaultProbePortEnd   = 8775

	DefaultProbeHost      = "127.0.0.1"
	DefaultProbeTimeout   = 2 * time.Second
	DefaultRequestTimeout = time.Hour

	// maxResponseBytes caps how much of a proxy response is buffered. Large
	// enough for file contents and exploration reports.
	maxResponseBytes = 32 << 20
)

// ErrNoProxyFound indicates that no responder on the probe range identified
// itself as an agent proxy.
var ErrNoProxyFound = errors.New("no agent proxy found on the probe port range")

// Error is a structured failure from the agent proxy. Status is zero for
// transport-level failures. Message is always non-empty and safe to show to
// the caller.
type Error struct {
	Status  int
	Message string
	Timeout bool
	err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("agent proxy returned status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Config carries the tunables for the outbound client.
type Config struct {
	ProbeHost      string
	ProbePortStart int
	ProbePortEnd   int
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
}

// Client is the shared outbound HTTP client for the agent proxy. It is safe
// for concurrent use; each forwarded request rides its own context.
type Client struct {
	client       *http.Client
	probeHost    string
	portStart    int
	portEnd      int
	probeTimeout time.Duration
}

// New constructs a Client with connection pooling tuned for a long-lived
// local upstream. The overall request timeout is generous because some
// exploration operations run for many minutes.
func New(cfg Config) *Client {
	if cfg.ProbeHost == "" {
		cfg.ProbeHost = DefaultProbeHost
	}
	if cfg.ProbePortStart < 1 {
		cfg.ProbePortStart = DefaultProbePortStart
	}
	if cfg.ProbePortEnd < cfg.ProbePortStart {
		cfg.ProbePortEnd = DefaultProbePortEnd
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		probeHost:    cfg.ProbeHost,
		portStart:    cfg.ProbePortStart,
		portEnd:      cfg.ProbePortEnd,
		probeTimeout: cfg.ProbeTimeout,
	}
}

// Discover probes the configured port range and returns the base URL of the
// first responder whose health payload carries the agent-proxy signature.
// Ports that refuse the connection, time out, or answer with a different
// service are skipped.
func (c *Client) Discover(ctx context.Context) (string, entity.ProxyHealth, error) {
	for port := c.portStart; port <= c.portEnd; port++ {
		if ctx.Err() != nil {
			return "", entity.ProxyHealth{}, ctx.Err()
		}

		baseURL := fmt.Sprintf("http://%s:%d", c.probeHost, port)
		health, err := c.Health(ctx, baseURL)
		if err != nil {
			continue
		}
		if !health.IsAgentProxy() {
			continue
		}

		return baseURL, health, nil
	}

	return "", entity.ProxyHealth{}, ErrNoProxyFound
}

// Health fetches the proxy's health payload with the short probe timeout.
func (c *Client) Health(ctx context.Context, baseURL string) (entity.ProxyHealth, error) {
	hctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	raw, err := c.do(hctx, http.MethodGet, baseURL, "/health", nil)
	if err != nil {
		return entity.ProxyHealth{}, err
	}

	var decoded struct {
		Service string `json:"service"`
		Project string `json:"project"`
	}
	// A payload without the expected fields is simply not an agent proxy.
	_ = json.Unmarshal(raw, &decoded)

	return entity.ProxyHealth{
		Service: decoded.Service,
		Project: decoded.Project,
		Raw:     raw,
	}, nil
}

// Get forwards a GET to the proxy endpoint and returns the raw JSON payload.
func (c *Client) Get(ctx context.Context, baseURL, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, baseURL, endpoint, nil)
}

// Post forwards a POST with a JSON body and returns the raw JSON payload.
func (c *Client) Post(ctx context.Context, baseURL, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, baseURL, endpoint, body)
}

func (c *Client) do(ctx context.Context, method, baseURL, endpoint string, body any) (json.RawMessage, error) {
	target := strings.TrimRight(baseURL, "/") + endpoint

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build proxy request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Message: "failed to read agent proxy response: " + err.Error(), err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(payload, resp.Status),
		}
	}

	if !json.Valid(payload) {
		return nil, &Error{Message: "agent proxy returned a non-JSON response"}
	}

	return payload, nil
}

func classifyTransportErr(err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if !timeout && errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	msg := "agent proxy request failed: " + rootCause(err)
	if timeout {
		msg = "agent proxy request timed out: " + rootCause(err)
	}

	return &Error{Message: msg, Timeout: timeout, err: err}
}

// rootCause unwraps url.Error noise so the caller-facing message stays short.
func rootCause(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

// extractMessage pulls a human-readable message out of an error payload,
// falling back to the HTTP status line.
func extractMessage(payload []byte, fallback string) string {
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if value, ok := decoded[key].(string); ok && value != "" {
				return value
			}
		}
	}

	return fallback
}
