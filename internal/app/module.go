package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/godash/internal/dashboard"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.dashboard.enabled") {
		closeFn, err := dashboard.New(dashboard.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			ID:        a.uuid,
			DatasetID: a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module dashboard", "error", err)
			os.Exit(1)
		}
		if closeFn != nil {
			a.addCloser("Dashboard", closeFn)
		}
	}
}
