package inbound

import "encoding/json"

// Request bodies mirror the agent proxy's operation parameters; field names
// must survive the trip to the generic invoke path unchanged.

type ExploreRequest struct {
	Query          string         `json:"query"`
	GenerateReport bool           `json:"generate_report"`
	Config         map[string]any `json:"config"`
}

type ExecuteToolRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results"`
}

type FindByNameRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ReadFileRequest struct {
	FilePath string `json:"file_path"`
}

type FindRelationshipsRequest struct {
	ElementID    string `json:"element_id"`
	RelationType string `json:"relation_type"`
}

type FindUsagesRequest struct {
	ElementID string `json:"element_id"`
}

type ClassInfoRequest struct {
	ClassName string `json:"class_name"`
}

type AugmentRequest struct {
	Query string `json:"query"`
}

type ConfigUpdateRequest struct {
	MaxToolCalls    *int  `json:"max_tool_calls"`
	MaxRounds       *int  `json:"max_rounds"`
	IncludeTests    *bool `json:"include_tests"`
	DeepExploration *bool `json:"deep_exploration"`
	TimeoutSeconds  *int  `json:"timeout_seconds"`
}

// HealthResponse is the gateway's own health report. ProxyInfo stays null
// while the agent proxy is unreachable.
type HealthResponse struct {
	Status         string          `json:"status"`
	ProxyConnected bool            `json:"proxy_connected"`
	ProxyInfo      json.RawMessage `json:"proxy_info"`
}
