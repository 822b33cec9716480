package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/usecase"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgerror"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Health(ctx context.Context, r *http.Request) (any, error) {
	result := h.uc.Health(ctx)

	return HealthResponse{
		Status:         "healthy",
		ProxyConnected: result.Connected,
		ProxyInfo:      result.ProxyInfo,
	}, nil
}

func (h *HTTPEndpoint) OpenAPI(ctx context.Context, r *http.Request) (any, error) {
	return openAPIDocument(), nil
}

func (h *HTTPEndpoint) Explore(ctx context.Context, r *http.Request) (any, error) {
	var req ExploreRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	return h.uc.Explore(ctx, usecase.ExploreInput{
		Query:          req.Query,
		GenerateReport: req.GenerateReport,
		Config:         req.Config,
	})
}

func (h *HTTPEndpoint) ExecuteTool(ctx context.Context, r *http.Request) (any, error) {
	var req ExecuteToolRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Tool) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("tool is required"))
	}
	if req.Parameters == nil {
		return nil, pkgerror.NewInvalidInput(errors.New("parameters is required"))
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool:       req.Tool,
		Parameters: req.Parameters,
	})
}

func (h *HTTPEndpoint) Tools(ctx context.Context, r *http.Request) (any, error) {
	return h.uc.ListTools(ctx)
}

func (h *HTTPEndpoint) Search(ctx context.Context, r *http.Request) (any, error) {
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	maxResults := 10
	if req.MaxResults != nil {
		if *req.MaxResults < 1 {
			return nil, pkgerror.NewInvalidInput(errors.New("max_results must be positive"))
		}
		maxResults = *req.MaxResults
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolSearchCode,
		Parameters: map[string]any{
			"query":       req.Query,
			"max_results": maxResults,
		},
	})
}

func (h *HTTPEndpoint) FindByName(ctx context.Context, r *http.Request) (any, error) {
	var req FindByNameRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("name is required"))
	}

	typ := req.Type
	if typ == "" {
		typ = "any"
	}
	switch typ {
	case "class", "method", "package", "any":
	default:
		return nil, pkgerror.NewInvalidInput(errors.New("type must be class, method, package, or any"))
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolFindByName,
		Parameters: map[string]any{
			"name": req.Name,
			"type": typ,
		},
	})
}

func (h *HTTPEndpoint) ReadFile(ctx context.Context, r *http.Request) (any, error) {
	var req ReadFileRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("file_path is required"))
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolReadFile,
		Parameters: map[string]any{
			"file_path": req.FilePath,
		},
	})
}

func (h *HTTPEndpoint) FindRelationships(ctx context.Context, r *http.Request) (any, error) {
	var req FindRelationshipsRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ElementID) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("element_id is required"))
	}

	// relation_type stays null when absent so the proxy applies its default.
	var relationType any
	if req.RelationType != "" {
		relationType = req.RelationType
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolFindRelationships,
		Parameters: map[string]any{
			"element_id":    req.ElementID,
			"relation_type": relationType,
		},
	})
}

func (h *HTTPEndpoint) FindUsages(ctx context.Context, r *http.Request) (any, error) {
	var req FindUsagesRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ElementID) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("element_id is required"))
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolFindUsages,
		Parameters: map[string]any{
			"element_id": req.ElementID,
		},
	})
}

func (h *HTTPEndpoint) ClassInfo(ctx context.Context, r *http.Request) (any, error) {
	var req ClassInfoRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ClassName) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("class_name is required"))
	}

	return h.uc.ExecuteTool(ctx, entity.ToolCall{
		Tool: entity.ToolGetClassInfo,
		Parameters: map[string]any{
			"class_name": req.ClassName,
		},
	})
}

func (h *HTTPEndpoint) Augment(ctx context.Context, r *http.Request) (any, error) {
	var req AugmentRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	return h.uc.Augment(ctx, req.Query)
}

func (h *HTTPEndpoint) Status(ctx context.Context, r *http.Request) (any, error) {
	return h.uc.Status(ctx)
}

func (h *HTTPEndpoint) GetConfig(ctx context.Context, r *http.Request) (any, error) {
	return h.uc.GetConfig(ctx)
}

func (h *HTTPEndpoint) UpdateConfig(ctx context.Context, r *http.Request) (any, error) {
	var req ConfigUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	return h.uc.UpdateConfig(ctx, entity.TunableUpdate{
		MaxToolCalls:    req.MaxToolCalls,
		MaxRounds:       req.MaxRounds,
		IncludeTests:    req.IncludeTests,
		DeepExploration: req.DeepExploration,
		TimeoutSeconds:  req.TimeoutSeconds,
	})
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return pkgerror.NewInvalidFormat()
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return pkgerror.NewInvalidFormat()
	}

	return nil
}
