package inbound

import (
	"context"

	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadResult, error)
	Dataset(ctx context.Context, id string) (usecase.UploadResult, error)
	Charts(ctx context.Context, id string, selection []string) (usecase.ChartsResult, error)
	Stats(ctx context.Context, id string, selection []string) (usecase.StatsResult, error)
	Download(ctx context.Context, id string, format usecase.DownloadFormat) (usecase.DownloadResult, error)
	Delete(ctx context.Context, id string) error
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/datasets", end.Upload)

	r.GET("/datasets/:id", end.Dataset)
	r.GET("/datasets/:id/charts", end.Charts)     // ?columns=a,b
	r.GET("/datasets/:id/stats", end.Stats)       // ?columns=a,b
	r.GET("/datasets/:id/download", end.Download) // ?format=csv|xlsx

	r.DELETE("/datasets/:id", end.Delete)
}
