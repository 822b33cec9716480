package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/nmnhut-it/zest-gateway/internal/gateway"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.gateway.enabled") {
		closer, err := gateway.New(gateway.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
		})
		if err != nil {
			slog.Error("failed to init module gateway", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Gateway"] = closer
		}
	}
}
