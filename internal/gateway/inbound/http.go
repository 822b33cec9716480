package inbound

import (
	"context"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/entity"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/usecase"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgrouter"
)

type uc interface {
	Health(ctx context.Context) usecase.HealthResult
	Explore(ctx context.Context, in usecase.ExploreInput) (any, error)
	ExecuteTool(ctx context.Context, call entity.ToolCall) (any, error)
	ListTools(ctx context.Context) (any, error)
	Augment(ctx context.Context, query string) (any, error)
	Status(ctx context.Context) (any, error)
	GetConfig(ctx context.Context) (any, error)
	UpdateConfig(ctx context.Context, update entity.TunableUpdate) (any, error)
}

// RegisterHTTPEndpoint wires the gateway routes. The auth middleware guards
// every route except /health and /openapi.json, which stay open so clients
// can check connectivity and fetch tool definitions before authenticating.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, auth pkgrouter.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/health", end.Health)
	r.GET("/openapi.json", end.OpenAPI)

	r.POST("/explore", end.Explore, auth)
	r.POST("/execute-tool", end.ExecuteTool, auth)
	r.GET("/tools", end.Tools, auth)

	// Convenience routes for the common tools.
	r.POST("/search", end.Search, auth)
	r.POST("/find-by-name", end.FindByName, auth)
	r.POST("/read-file", end.ReadFile, auth)
	r.POST("/find-relationships", end.FindRelationships, auth)
	r.POST("/find-usages", end.FindUsages, auth)
	r.POST("/class-info", end.ClassInfo, auth)

	r.POST("/augment", end.Augment, auth)
	r.GET("/status", end.Status, auth)
	r.GET("/config", end.GetConfig, auth)
	r.POST("/config", end.UpdateConfig, auth)
}
