package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"cybercase-service/internal/domain"
)

const (
	// SessionSize is how many questions a session issues.
	SessionSize = 8
	// SessionTimerSeconds is returned with every session; the countdown is
	// client-enforced, the server accepts late submissions.
	SessionTimerSeconds = 90
	// DefaultLeaderboardSize caps the leaderboard query.
	DefaultLeaderboardSize = 20
)

// QuestionRepository loads the immutable question bank (from cache/backing store).
type QuestionRepository interface {
	Bank(ctx context.Context) ([]domain.Question, error)
}

// SessionStore holds the active question-id set per user between start and
// submit. Take consumes the set so a session grades exactly once.
type SessionStore interface {
	Put(ctx context.Context, userID string, questionIDs []int64) error
	Take(ctx context.Context, userID string) ([]int64, bool, error)
}

// UserRepository is the read side of the user summary rows.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
}

// AttemptRecorder persists a graded submission: the append-only attempt row
// and the user summary update must land atomically per user.
type AttemptRecorder interface {
	RecordSubmission(ctx context.Context, attempt domain.QuizAttempt, badge string) error
}

// QuizService issues timed question sets and grades submissions.
type QuizService struct {
	questions QuestionRepository
	sessions  SessionStore
	users     UserRepository
	attempts  AttemptRecorder
	feed      *LeaderboardFeed
	now       func() time.Time
	rnd       *rand.Rand
}

func NewQuizService(questions QuestionRepository, sessions SessionStore, users UserRepository, attempts AttemptRecorder, feed *LeaderboardFeed) *QuizService {
	return &QuizService{
		questions: questions,
		sessions:  sessions,
		users:     users,
		attempts:  attempts,
		feed:      feed,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// WithRand is test-only for deterministic sampling.
func (s *QuizService) WithRand(rnd *rand.Rand) *QuizService {
	s.rnd = rnd
	return s
}

// StartSession samples a fresh question set for the user, stores it as the
// single active session, and returns the questions with answers stripped.
func (s *QuizService) StartSession(ctx context.Context, userID string) (domain.QuizStart, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return domain.QuizStart{}, err
	}

	bank, err := s.questions.Bank(ctx)
	if err != nil {
		return domain.QuizStart{}, fmt.Errorf("load question bank: %w", err)
	}

	pool := excludeQuestions(bank, user.LastQuestionIDs)
	// A user who has seen most of the bank still gets a full session.
	if len(pool) < SessionSize {
		pool = bank
	}
	chosen := s.sample(pool, SessionSize)

	ids := make([]int64, len(chosen))
	public := make([]domain.PublicQuestion, len(chosen))
	for i, q := range chosen {
		ids[i] = q.ID
		public[i] = q.Public()
	}

	if err := s.sessions.Put(ctx, userID, ids); err != nil {
		return domain.QuizStart{}, fmt.Errorf("store session: %w", err)
	}
	return domain.QuizStart{Questions: public, Timer: SessionTimerSeconds}, nil
}

// Submit grades the caller's answers against the stored active question set.
// The stored ids are authoritative; answer keys outside the set are ignored
// and missing answers count as wrong.
func (s *QuizService) Submit(ctx context.Context, userID string, answers map[int64]int) (domain.QuizResult, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return domain.QuizResult{}, err
	}

	ids, ok, err := s.sessions.Take(ctx, userID)
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("consume session: %w", err)
	}
	if !ok || len(ids) == 0 {
		return domain.QuizResult{}, domain.ErrNoActiveSession
	}

	bank, err := s.questions.Bank(ctx)
	if err != nil {
		return domain.QuizResult{}, fmt.Errorf("load question bank: %w", err)
	}
	byID := make(map[int64]domain.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}

	result := domain.QuizResult{
		Total:   len(ids),
		Correct: []string{},
		Wrong:   []string{},
	}
	for _, id := range ids {
		q, found := byID[id]
		if !found {
			continue
		}
		if selected, answered := answers[id]; answered && selected == q.Answer {
			result.Score++
			result.Correct = append(result.Correct, q.Prompt)
		} else {
			result.Wrong = append(result.Wrong, q.Prompt)
		}
	}
	result.Badge = domain.BadgeFor(result.Score, result.Total)

	attempt := domain.QuizAttempt{
		UserID:      userID,
		Score:       result.Score,
		Total:       result.Total,
		SubmittedAt: s.now(),
		QuestionIDs: ids,
	}
	if err := s.attempts.RecordSubmission(ctx, attempt, result.Badge); err != nil {
		return domain.QuizResult{}, fmt.Errorf("record submission: %w", err)
	}

	s.publishLeaderboard(ctx)
	return result, nil
}

// Leaderboard returns up to n latest-result standings, best score first,
// earlier attempt winning ties.
func (s *QuizService) Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}
	return s.users.Top(ctx, n)
}

func (s *QuizService) requireUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *QuizService) publishLeaderboard(ctx context.Context) {
	if s.feed == nil {
		return
	}
	entries, err := s.users.Top(ctx, DefaultLeaderboardSize)
	if err != nil {
		return
	}
	s.feed.Publish(entries)
}

// sample picks up to n questions uniformly without replacement.
func (s *QuizService) sample(pool []domain.Question, n int) []domain.Question {
	out := append([]domain.Question(nil), pool...)
	s.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}

func excludeQuestions(bank []domain.Question, seen []int64) []domain.Question {
	if len(seen) == 0 {
		return bank
	}
	seenSet := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}
	pool := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if _, ok := seenSet[q.ID]; !ok {
			pool = append(pool, q)
		}
	}
	return pool
}
