package user

import (
	"context"
	"sync"
	"time"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/sentinel"
)

// InMemoryStore is a Store for tests and single-node dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*User)}
}

func (s *InMemoryStore) Ensure(_ context.Context, userID id.UserID, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[userID]; !exists {
		s.users[userID] = &User{ID: userID, CreatedAt: createdAt}
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, exists := s.users[userID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	dup := *u
	return &dup, nil
}

func (s *InMemoryStore) MarkPro(_ context.Context, userID id.UserID, since time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, exists := s.users[userID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if !u.Pro {
		u.Pro = true
		u.ProSince = &since
	}
	return nil
}
