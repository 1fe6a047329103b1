package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shandysiswandi/godash/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godash/internal/pkg/pkglog"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

type App struct {
	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router          *pkgrouter.Router
	httpServer      *http.Server
	shutdownTimeout time.Duration

	// closers run in reverse registration order on Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func New() *App {
	pkglog.InitLogging()

	app := &App{}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}
