package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"
	"cybercase-service/internal/infra/memory"
)

func TestStartSessionIssuesFixedSetWithoutAnswers(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(12))
	createUser(t, store, "u1", "Alice")

	start, err := service.StartSession(ctx, "u1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(start.Questions) != app.SessionSize {
		t.Fatalf("expected %d questions, got %d", app.SessionSize, len(start.Questions))
	}
	if start.Timer != app.SessionTimerSeconds {
		t.Fatalf("expected timer %d, got %d", app.SessionTimerSeconds, start.Timer)
	}
	seen := map[int64]bool{}
	for _, q := range start.Questions {
		if seen[q.ID] {
			t.Fatalf("question %d issued twice", q.ID)
		}
		seen[q.ID] = true
		if q.Prompt == "" || len(q.Options) == 0 {
			t.Fatalf("question %d missing prompt or options", q.ID)
		}
	}
}

func TestStartSessionAvoidsRecentQuestions(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(20))
	createUser(t, store, "u1", "Alice")

	recent := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	markAttempt(t, store, "u1", recent)

	start, err := service.StartSession(ctx, "u1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	excluded := map[int64]bool{}
	for _, id := range recent {
		excluded[id] = true
	}
	for _, q := range start.Questions {
		if excluded[q.ID] {
			t.Fatalf("question %d was in the previous session", q.ID)
		}
	}
}

func TestStartSessionFallsBackToFullBank(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(12))
	createUser(t, store, "u1", "Alice")

	// Excluding these leaves only 4 fresh questions, fewer than a session.
	markAttempt(t, store, "u1", []int64{1, 2, 3, 4, 5, 6, 7, 8})

	start, err := service.StartSession(ctx, "u1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(start.Questions) != app.SessionSize {
		t.Fatalf("expected full session from fallback, got %d questions", len(start.Questions))
	}
}

func TestStartSessionRequiresKnownUser(t *testing.T) {
	ctx := context.Background()
	service, _ := newQuizService(t, testBank(12))

	if _, err := service.StartSession(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty user, got %v", err)
	}
	if _, err := service.StartSession(ctx, "ghost"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestSubmitGradesAndAwardsBadges(t *testing.T) {
	cases := []struct {
		correct int
		badge   string
	}{
		{8, domain.BadgeHero},
		{6, domain.BadgeDefender},
		{4, domain.BadgeLearner},
		{3, domain.BadgePracticing},
	}
	for _, tc := range cases {
		t.Run(tc.badge, func(t *testing.T) {
			ctx := context.Background()
			service, store := newQuizService(t, testBank(8))
			createUser(t, store, "u1", "Alice")

			start, err := service.StartSession(ctx, "u1")
			if err != nil {
				t.Fatalf("start failed: %v", err)
			}

			// Correct option is always index 0 in the test bank.
			answers := map[int64]int{}
			for i, q := range start.Questions {
				if i < tc.correct {
					answers[q.ID] = 0
				} else {
					answers[q.ID] = 1
				}
			}

			result, err := service.Submit(ctx, "u1", answers)
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if result.Score != tc.correct || result.Total != app.SessionSize {
				t.Fatalf("expected %d/%d, got %d/%d", tc.correct, app.SessionSize, result.Score, result.Total)
			}
			if result.Badge != tc.badge {
				t.Fatalf("expected badge %q, got %q", tc.badge, result.Badge)
			}
			if len(result.Correct) != tc.correct || len(result.Wrong) != app.SessionSize-tc.correct {
				t.Fatalf("feedback split mismatch: %d correct, %d wrong", len(result.Correct), len(result.Wrong))
			}
		})
	}
}

func TestSubmitTreatsMissingAndForeignAnswersAsWrong(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(12))
	createUser(t, store, "u1", "Alice")

	start, err := service.StartSession(ctx, "u1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// One real answer plus one for a question that was never issued.
	answers := map[int64]int{start.Questions[0].ID: 0, 9999: 0}
	result, err := service.Submit(ctx, "u1", answers)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("expected score 1, got %d", result.Score)
	}
	if result.Total != app.SessionSize {
		t.Fatalf("expected total %d, got %d", app.SessionSize, result.Total)
	}
}

func TestSubmitConsumesSession(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(12))
	createUser(t, store, "u1", "Alice")

	if _, err := service.Submit(ctx, "u1", nil); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected no-session error before start, got %v", err)
	}

	if _, err := service.StartSession(ctx, "u1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := service.Submit(ctx, "u1", nil); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := service.Submit(ctx, "u1", nil); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected no-session error on resubmit, got %v", err)
	}
}

func TestSubmitRecordsAttemptAndPublishes(t *testing.T) {
	ctx := context.Background()
	bank := testBank(8)
	store := memory.NewUserStore()
	feed := app.NewLeaderboardFeed()
	service := app.NewQuizService(
		memory.NewQuestionRepository(memory.NewStaticQuestionLoader(bank), time.Minute),
		memory.NewSessionStore(), store, store, feed,
	)
	createUser(t, store, "u1", "Alice")

	updates, cancel := feed.Subscribe()
	defer cancel()

	start, err := service.StartSession(ctx, "u1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	answers := map[int64]int{}
	for _, q := range start.Questions {
		answers[q.ID] = 0
	}
	if _, err := service.Submit(ctx, "u1", answers); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	attempts := store.Attempts("u1")
	if len(attempts) != 1 {
		t.Fatalf("expected 1 recorded attempt, got %d", len(attempts))
	}
	if len(attempts[0].QuestionIDs) != app.SessionSize {
		t.Fatalf("attempt should keep the issued question ids")
	}

	select {
	case entries := <-updates:
		if len(entries) != 1 || entries[0].Username != "Alice" || entries[0].LastScore != 8 {
			t.Fatalf("unexpected leaderboard push: %+v", entries)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a leaderboard push after submit")
	}
}

func TestLeaderboardOrdersByScoreThenTime(t *testing.T) {
	ctx := context.Background()
	service, store := newQuizService(t, testBank(8))

	base := time.Date(2025, 8, 22, 12, 0, 0, 0, time.UTC)
	createUser(t, store, "a", "Alice")
	createUser(t, store, "b", "Bob")
	createUser(t, store, "c", "Cara")
	recordScore(t, store, "a", 5, base.Add(2*time.Minute))
	recordScore(t, store, "b", 7, base.Add(time.Minute))
	recordScore(t, store, "c", 7, base)

	entries, err := service.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"Cara", "Bob", "Alice"}
	for i, name := range want {
		if entries[i].Username != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, entries[i].Username)
		}
	}

	limited, err := service.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit 2, got %d entries", len(limited))
	}
}

func newQuizService(t *testing.T, bank []domain.Question) (*app.QuizService, *memory.UserStore) {
	t.Helper()
	store := memory.NewUserStore()
	service := app.NewQuizService(
		memory.NewQuestionRepository(memory.NewStaticQuestionLoader(bank), time.Minute),
		memory.NewSessionStore(), store, store, app.NewLeaderboardFeed(),
	)
	return service, store
}

func testBank(n int) []domain.Question {
	bank := make([]domain.Question, n)
	for i := range bank {
		bank[i] = domain.Question{
			ID:      int64(i + 1),
			Prompt:  fmt.Sprintf("Question %d", i+1),
			Options: []string{"right", "wrong", "also wrong", "nope"},
			Answer:  0,
		}
	}
	return bank
}

func createUser(t *testing.T, store *memory.UserStore, id, name string) {
	t.Helper()
	err := store.Create(context.Background(), &domain.User{
		ID: id, Username: name, Email: id + "@example.com",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

func markAttempt(t *testing.T, store *memory.UserStore, userID string, questionIDs []int64) {
	t.Helper()
	err := store.RecordSubmission(context.Background(), domain.QuizAttempt{
		UserID: userID, Score: 0, Total: len(questionIDs),
		SubmittedAt: time.Now(), QuestionIDs: questionIDs,
	}, domain.BadgePracticing)
	if err != nil {
		t.Fatalf("record attempt: %v", err)
	}
}

func recordScore(t *testing.T, store *memory.UserStore, userID string, score int, at time.Time) {
	t.Helper()
	err := store.RecordSubmission(context.Background(), domain.QuizAttempt{
		UserID: userID, Score: score, Total: 8, SubmittedAt: at,
	}, domain.BadgeFor(score, 8))
	if err != nil {
		t.Fatalf("record score: %v", err)
	}
}
