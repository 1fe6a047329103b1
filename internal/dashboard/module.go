package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/godash/internal/dashboard/event"
	"github.com/shandysiswandi/godash/internal/dashboard/inbound"
	"github.com/shandysiswandi/godash/internal/dashboard/pipeline"
	"github.com/shandysiswandi/godash/internal/dashboard/store"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

const redisPingTimeout = 5 * time.Second

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	ID        pkguid.StringID
	DatasetID pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config

	storage, closeStore, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(event.DefaultBuffer)
	consumer := event.NewReleaseConsumer(bus, event.StoreReleaser{Store: storage}, event.ConsumerConfig{
		Workers:      int(cfg.GetInt("dashboard.events.workers")),
		MaxRetries:   int(cfg.GetInt("dashboard.events.max_retries")),
		BaseBackoff:  time.Duration(cfg.GetInt("dashboard.events.backoff_ms")) * time.Millisecond,
		DedupeWindow: time.Duration(cfg.GetInt("dashboard.events.dedupe_window_seconds")) * time.Second,
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	ucDep := usecase.Dependency{
		Store:     storage,
		Events:    bus,
		ID:        dep.ID,
		DatasetID: dep.DatasetID,
		Limits: pipeline.Limits{
			MaxBytes:        cfg.GetInt("dashboard.upload.max_bytes"),
			StrictExtension: cfg.GetBool("dashboard.upload.strict_extension"),
		},
		PreviewRows: int(cfg.GetInt("dashboard.preview.rows")),
	}
	if dep.Goroutine != nil {
		ucDep.Runner = dep.Goroutine
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep))

	return func(ctx context.Context) error {
		// The consumer drains into the store, so it stops first.
		return errors.Join(consumer.Stop(ctx), closeStore())
	}, nil
}

func newStore(cfg pkgconfig.Config) (usecase.Store, func() error, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetString("dashboard.store.driver")))

	switch driver {
	case "", "memory":
		s := store.NewInMemoryStore(int(cfg.GetInt("dashboard.store.capacity")))
		return s, func() error { return nil }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetString("redis.address"),
			Password: cfg.GetString("redis.password"),
			DB:       int(cfg.GetInt("redis.db")),
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}

		s, err := store.NewRedisStore(client, store.RedisConfig{
			TTL:              time.Duration(cfg.GetInt("dashboard.store.ttl_seconds")) * time.Second,
			CompressionLevel: int(cfg.GetInt("dashboard.store.compression_level")),
		})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}

		return s, func() error { return errors.Join(s.Close(), client.Close()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown dataset store driver %q", driver)
	}
}
