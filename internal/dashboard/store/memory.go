package store

import (
	"container/list"
	"context"
	"sync"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

// DefaultCapacity bounds the in-memory store when no capacity is configured.
const DefaultCapacity = 128

// InMemoryStore keeps datasets in a least-recently-used list. The hash and
// session indexes never point at an evicted dataset.
type InMemoryStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
	hashes   map[string]string
	sessions map[string]string
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &InMemoryStore{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		hashes:   make(map[string]string),
		sessions: make(map[string]string),
	}
}

func (s *InMemoryStore) Save(ctx context.Context, ds entity.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[ds.ID]; ok {
		el.Value = ds
		s.order.MoveToFront(el)
	} else {
		s.items[ds.ID] = s.order.PushFront(ds)
	}
	if ds.Hash != "" {
		s.hashes[ds.Hash] = ds.ID
	}

	for s.order.Len() > s.capacity {
		s.remove(s.order.Back())
	}

	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (entity.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}

	s.order.MoveToFront(el)
	return el.Value.(entity.Dataset), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return pkgerror.ErrNotFound
	}

	s.remove(el)
	return nil
}

func (s *InMemoryStore) FindByHash(ctx context.Context, hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.hashes[hash]
	if !ok {
		return "", pkgerror.ErrNotFound
	}
	return id, nil
}

func (s *InMemoryStore) BindSession(ctx context.Context, sessionID, datasetID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessions[sessionID]
	s.sessions[sessionID] = datasetID
	return prev, nil
}

// Len reports how many datasets are held.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.order.Len()
}

// remove drops el and every index entry pointing at it. Caller holds mu.
func (s *InMemoryStore) remove(el *list.Element) {
	ds := s.order.Remove(el).(entity.Dataset)
	delete(s.items, ds.ID)

	if s.hashes[ds.Hash] == ds.ID {
		delete(s.hashes, ds.Hash)
	}
	for sid, id := range s.sessions {
		if id == ds.ID {
			delete(s.sessions, sid)
		}
	}
}
