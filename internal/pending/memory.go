package pending

import (
	"context"
	"sync"

	"terapias-go/internal/organizer"
)

// MemoryStore is an in-memory PendingStore, useful for testing.
// Lock serializes callers within one process.
type MemoryStore struct {
	lock    sync.Mutex
	mu      sync.Mutex
	pending *organizer.Pending
}

// NewMemoryStore creates an idle in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.lock.Lock()
	return func() error {
		s.lock.Unlock()
		return nil
	}, nil
}

func (s *MemoryStore) Load() (*organizer.Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, nil
	}
	p := *s.pending
	return &p, nil
}

func (s *MemoryStore) Save(p *organizer.Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.pending = nil
		return nil
	}
	cp := *p
	s.pending = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}

// Compile-time check that MemoryStore implements organizer.PendingStore
var _ organizer.PendingStore = (*MemoryStore)(nil)
