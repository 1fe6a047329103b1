package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// DefaultBuffer is the bus capacity used by the dashboard module.
const DefaultBuffer = 512

// Bus is an in-process queue of release events. Publish blocks while the
// buffer is full until ctx is done.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.DatasetReleasedEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{ch: make(chan entity.DatasetReleasedEvent, buffer)}
}

func (b *Bus) Publish(ctx context.Context, event entity.DatasetReleasedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.DatasetReleasedEvent {
	return b.ch
}

// Close stops accepting events; queued events are still delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
