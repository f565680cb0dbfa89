package speech

import (
	"context"
	"sort"
	"sync"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/sentinel"
)

// InMemoryStore is a Store for tests and single-node dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	speeches map[id.SpeechID]*Speech
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{speeches: make(map[id.SpeechID]*Speech)}
}

func (s *InMemoryStore) Create(_ context.Context, sp *Speech) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.speeches[sp.ID]; exists {
		return sentinel.ErrConflict
	}
	s.speeches[sp.ID] = clone(sp)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, speechID id.SpeechID) (*Speech, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, exists := s.speeches[speechID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(sp), nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*Speech, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Speech
	for _, sp := range s.speeches {
		if sp.OwnerUserID == userID {
			out = append(out, clone(sp))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemoryStore) ListByAnon(_ context.Context, anonID id.AnonID) ([]*Speech, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Speech
	for _, sp := range s.speeches {
		if sp.OwnerAnonID == anonID {
			out = append(out, clone(sp))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, sp *Speech) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.speeches[sp.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.speeches[sp.ID] = clone(sp)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, speechID id.SpeechID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.speeches[speechID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.speeches, speechID)
	return nil
}

func (s *InMemoryStore) TransferOwnership(_ context.Context, from id.AnonID, to id.UserID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var moved int64
	for _, sp := range s.speeches {
		if sp.OwnerAnonID == from {
			sp.OwnerAnonID = id.AnonID{}
			sp.OwnerUserID = to
			moved++
		}
	}
	return moved, nil
}

func clone(sp *Speech) *Speech {
	dup := *sp
	dup.Tags = append([]string(nil), sp.Tags...)
	return &dup
}

func sortByCreation(speeches []*Speech) {
	sort.Slice(speeches, func(i, j int) bool {
		return speeches[i].CreatedAt.Before(speeches[j].CreatedAt)
	})
}
