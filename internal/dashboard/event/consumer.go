package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

type Handler interface {
	Handle(ctx context.Context, event entity.DatasetReleasedEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	// DedupeWindow is how long a handled event ID is remembered.
	DedupeWindow time.Duration
}

// DefaultDedupeWindow applies when ConsumerConfig.DedupeWindow is not set.
const DefaultDedupeWindow = 10 * time.Minute

// ReleaseConsumer drains the bus with a fixed set of workers. Failed events
// are retried with exponential backoff. An event ID is handled at most once
// within the dedupe window; older IDs are pruned so the set stays bounded.
type ReleaseConsumer struct {
	bus          *Bus
	handler      Handler
	workers      int
	maxRetries   int
	baseBackoff  time.Duration
	dedupeWindow time.Duration
	now          func() time.Time

	seen      sync.Map // event ID -> time.Time first seen
	pruneMu   sync.Mutex
	lastPrune time.Time

	wg sync.WaitGroup
}

func NewReleaseConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *ReleaseConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := max(cfg.MaxRetries, 0)

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	window := cfg.DedupeWindow
	if window <= 0 {
		window = DefaultDedupeWindow
	}

	return &ReleaseConsumer{
		bus:          bus,
		handler:      handler,
		workers:      workers,
		maxRetries:   maxRetries,
		baseBackoff:  baseBackoff,
		dedupeWindow: window,
		now:          time.Now,
	}
}

func (c *ReleaseConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to drain or ctx to end.
func (c *ReleaseConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ReleaseConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *ReleaseConsumer) processEvent(event entity.DatasetReleasedEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" {
		now := c.now()
		c.pruneSeen(now)
		if _, loaded := c.seen.LoadOrStore(event.EventID, now); loaded {
			slog.Info("skip duplicate release event", "event_id", event.EventID, "dataset_id", event.DatasetID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to release dataset after retries", "event_id", event.EventID, "dataset_id", event.DatasetID, "error", err)
			return
		}

		sleepBackoff(backoff)
		backoff *= 2
	}
}

// pruneSeen drops IDs older than the dedupe window. It scans at most once per
// window, so the set holds roughly two windows of events.
func (c *ReleaseConsumer) pruneSeen(now time.Time) {
	c.pruneMu.Lock()
	if now.Sub(c.lastPrune) < c.dedupeWindow {
		c.pruneMu.Unlock()
		return
	}
	c.lastPrune = now
	c.pruneMu.Unlock()

	c.seen.Range(func(key, value any) bool {
		if at, ok := value.(time.Time); !ok || now.Sub(at) >= c.dedupeWindow {
			c.seen.Delete(key)
		}
		return true
	})
}

func sleepBackoff(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
}

// Deleter is the part of the dataset store the releaser needs.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// StoreReleaser deletes released datasets. A dataset that is already gone
// (evicted or expired) counts as released.
type StoreReleaser struct {
	Store Deleter
}

func (r StoreReleaser) Handle(ctx context.Context, event entity.DatasetReleasedEvent) error {
	if event.DatasetID == "" {
		return errors.New("missing dataset id")
	}

	err := r.Store.Delete(ctx, event.DatasetID)
	if err != nil && !errors.Is(err, pkgerror.ErrNotFound) {
		return err
	}

	slog.InfoContext(ctx, "released dataset", "event_id", event.EventID, "dataset_id", event.DatasetID, "session_id", event.SessionID)
	return nil
}
