package main

import (
	"context"

	"github.com/shandysiswandi/godash/internal/app"
)

func main() {
	application := app.New()
	<-application.Start()

	// Stop bounds itself by server.shutdown_timeout_seconds.
	application.Stop(context.Background())
}
