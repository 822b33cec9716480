package usecase

import "encoding/json"

// ExploreInput is a validated explore request.
type ExploreInput struct {
	Query          string
	GenerateReport bool
	Config         map[string]any
}

// HealthResult reports the gateway's own health plus proxy connectivity.
// ProxyInfo is the proxy's health payload, relayed verbatim, or nil when the
// proxy could not be reached.
type HealthResult struct {
	Connected bool
	ProxyInfo json.RawMessage
}

// ExploreFallback mirrors the proxy's explore response shape for the case
// where the proxy itself could not answer.
type ExploreFallback struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// ToolFallback mirrors the proxy's execute-tool response shape for the case
// where the proxy itself could not answer.
type ToolFallback struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error"`
}
