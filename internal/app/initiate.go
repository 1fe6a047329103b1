package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/godash/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godash/internal/pkg/pkglog"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	if err := pkglog.SetLevel(cfg.GetString("log.level")); err != nil {
		slog.Warn("invalid log level, keeping info", "error", err)
	}

	a.config = cfg
	a.addCloser("Config", func(context.Context) error {
		return cfg.Close()
	})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()

	nodeID := int64(-1)
	if a.config.IsSet("snowflake.node") {
		nodeID = a.config.GetInt("snowflake.node")
	}

	sf, err := pkguid.NewSnowflake(nodeID)
	if err != nil {
		slog.Error("failed to init snowflake", "node", nodeID, "error", err)
		os.Exit(1)
	}
	a.snowflake = pkguid.NumberString{Number: sf}
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", pkgrouter.HeaderCorrelationID},
		AllowCredentials: true,
	})

	var handler http.Handler = a.router
	if limit := a.config.GetInt("server.max_body_bytes"); limit > 0 {
		handler = http.MaxBytesHandler(handler, limit)
	}

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.shutdownTimeout = 10 * time.Second
	if secs := a.config.GetInt("server.shutdown_timeout_seconds"); secs > 0 {
		a.shutdownTimeout = time.Duration(secs) * time.Second
	}
}
