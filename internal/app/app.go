package app

import (
	"context"
	"net/http"

	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgconfig"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkglog"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgrouter"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgroutine"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uid       pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
