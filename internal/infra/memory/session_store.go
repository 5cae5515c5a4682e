package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory implementation of app.SessionStore: one
// active question-id set per user, consumed on Take.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string][]int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]int64)}
}

func (s *SessionStore) Put(_ context.Context, userID string, questionIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = append([]int64(nil), questionIDs...)
	return nil
}

func (s *SessionStore) Take(_ context.Context, userID string) ([]int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	delete(s.sessions, userID)
	return ids, true, nil
}
