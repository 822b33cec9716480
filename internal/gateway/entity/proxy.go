package entity

import (
	"encoding/json"
	"time"
)

// ServiceSignature is the service name an agent proxy reports in its health
// payload. Port probing only accepts responders carrying this signature.
const ServiceSignature = "agent-proxy"

// ProxyHealth is the decoded health payload of an agent proxy. Raw keeps the
// full payload so the gateway can relay it verbatim.
type ProxyHealth struct {
	Service string
	Project string
	Raw     json.RawMessage
}

// IsAgentProxy reports whether the responder identified itself as an agent proxy.
func (h ProxyHealth) IsAgentProxy() bool {
	return h.Service == ServiceSignature
}

// ProxyStatus is the last known connection state for the agent proxy.
type ProxyStatus struct {
	BaseURL   string
	Connected bool
	Health    ProxyHealth
	LastErr   string
	CheckedAt time.Time
}
