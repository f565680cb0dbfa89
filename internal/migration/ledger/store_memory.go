package ledger

import (
	"context"
	"sync"

	"vowcraft/internal/migration"
	id "vowcraft/pkg/domain"
)

// MemoryStore is a Store for tests and single-node dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[id.UserID]migration.LedgerEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[id.UserID]migration.LedgerEntry)}
}

func (s *MemoryStore) Read(_ context.Context, userID id.UserID) (migration.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[userID], nil
}

func (s *MemoryStore) Write(_ context.Context, userID id.UserID, entry migration.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
