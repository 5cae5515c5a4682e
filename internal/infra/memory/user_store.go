package memory

import (
	"context"
	"sort"
	"sync"

	"cybercase-service/internal/domain"
)

// UserStore implements app.UserRepository and app.AttemptRecorder in memory.
// Holding both behind one mutex gives the per-user atomicity the submit path
// needs (attempt row + summary update land together).
type UserStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	byEmail  map[string]string
	attempts []domain.QuizAttempt
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return s.users[id], nil
}

func (s *UserStore) RecordSubmission(_ context.Context, attempt domain.QuizAttempt, badge string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[attempt.UserID]
	if !ok {
		return domain.ErrNotFound
	}

	attempt.ID = int64(len(s.attempts) + 1)
	s.attempts = append(s.attempts, attempt)

	user.LastScore = attempt.Score
	user.LastBadge = badge
	user.LastAttemptTime = attempt.SubmittedAt
	user.LastQuestionIDs = append([]int64(nil), attempt.QuestionIDs...)
	s.users[attempt.UserID] = user
	return nil
}

func (s *UserStore) Top(_ context.Context, n int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(s.users))
	for _, user := range s.users {
		entries = append(entries, domain.LeaderboardEntry{
			Username:        user.Username,
			LastScore:       user.LastScore,
			LastBadge:       user.LastBadge,
			LastAttemptTime: user.LastAttemptTime,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastScore != entries[j].LastScore {
			return entries[i].LastScore > entries[j].LastScore
		}
		if !entries[i].LastAttemptTime.Equal(entries[j].LastAttemptTime) {
			return entries[i].LastAttemptTime.Before(entries[j].LastAttemptTime)
		}
		return entries[i].Username < entries[j].Username
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Attempts returns the append-only log for a user, in insertion order.
// Intended for tests.
func (s *UserStore) Attempts(userID string) []domain.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QuizAttempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}
