package identity

import (
	"context"
	"sync"
	"time"

	id "vowcraft/pkg/domain"
)

// InMemoryRecords is a Records implementation for tests and single-node dev.
type InMemoryRecords struct {
	mu   sync.RWMutex
	rows map[id.AnonID]time.Time
}

func NewInMemoryRecords() *InMemoryRecords {
	return &InMemoryRecords{rows: make(map[id.AnonID]time.Time)}
}

func (s *InMemoryRecords) Create(_ context.Context, anonID id.AnonID, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[anonID]; !exists {
		s.rows[anonID] = createdAt
	}
	return nil
}

func (s *InMemoryRecords) Exists(_ context.Context, anonID id.AnonID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.rows[anonID]
	return exists, nil
}

func (s *InMemoryRecords) Delete(_ context.Context, anonID id.AnonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, anonID)
	return nil
}

// MemoryStore is a Store implementation for controller and service tests.
type MemoryStore struct {
	mu     sync.Mutex
	anonID id.AnonID
}

// NewMemoryStore returns a MemoryStore pre-seeded with the given identity.
// A zero AnonID seeds an empty store.
func NewMemoryStore(anonID id.AnonID) *MemoryStore {
	return &MemoryStore{anonID: anonID}
}

func (s *MemoryStore) GetOrCreate() id.AnonID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.anonID.IsNil() {
		s.anonID = id.NewAnonID()
	}
	return s.anonID
}

func (s *MemoryStore) Peek() id.AnonID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anonID
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anonID = id.AnonID{}
}
