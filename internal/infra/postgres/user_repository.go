package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cybercase-service/internal/domain"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserRepository persists users and their attempt log in Postgres via bun.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	row := userRowFrom(*user)
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var row userRow
	err := r.db.NewSelect().Model(&row).Where("email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user by email: %w", err)
	}
	return row.toDomain(), nil
}

// RecordSubmission appends the attempt and updates the summary row in one
// transaction, so a concurrent double submit can never tear the pair apart.
func (r *UserRepository) RecordSubmission(ctx context.Context, attempt domain.QuizAttempt, badge string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := attemptRow{
			UserID:      attempt.UserID,
			Score:       attempt.Score,
			Total:       attempt.Total,
			SubmittedAt: attempt.SubmittedAt,
			QuestionIDs: attempt.QuestionIDs,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}

		questionIDs, err := json.Marshal(attempt.QuestionIDs)
		if err != nil {
			return fmt.Errorf("marshal question ids: %w", err)
		}
		res, err := tx.NewUpdate().Model((*userRow)(nil)).
			Set("last_score = ?", attempt.Score).
			Set("last_badge = ?", badge).
			Set("last_attempt_time = ?", attempt.SubmittedAt).
			Set("last_questions = ?::jsonb", string(questionIDs)).
			Where("id = ?", attempt.UserID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update user summary: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *UserRepository) Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	var rows []userRow
	err := r.db.NewSelect().Model(&rows).
		OrderExpr("last_score DESC").
		OrderExpr("last_attempt_time ASC NULLS LAST").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			Username:        row.Username,
			LastScore:       row.LastScore,
			LastBadge:       row.LastBadge,
			LastAttemptTime: row.LastAttemptTime,
		}
	}
	return entries, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
