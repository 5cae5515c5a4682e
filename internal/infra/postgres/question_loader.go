package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"cybercase-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads a named question bank stored as JSONB.
type QuestionLoader struct {
	pool *pgxpool.Pool
	bank string
}

func NewQuestionLoader(pool *pgxpool.Pool, bank string) *QuestionLoader {
	if bank == "" {
		bank = "default"
	}
	return &QuestionLoader{pool: pool, bank: bank}
}

func (l *QuestionLoader) LoadBank(ctx context.Context) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE name=$1`, l.bank).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	var bank []domain.Question
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	return bank, nil
}
