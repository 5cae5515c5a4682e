package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cybercase-service/internal/domain"

	"github.com/uptrace/bun"
)

// DrillRepository reads command-drill levels from Postgres.
type DrillRepository struct {
	db *bun.DB
}

func NewDrillRepository(db *bun.DB) *DrillRepository {
	return &DrillRepository{db: db}
}

func (r *DrillRepository) Levels(ctx context.Context) ([]domain.DrillLevel, error) {
	var rows []drillRow
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select drill levels: %w", err)
	}
	levels := make([]domain.DrillLevel, len(rows))
	for i, row := range rows {
		levels[i] = row.toDomain()
	}
	return levels, nil
}

func (r *DrillRepository) Level(ctx context.Context, id int64) (domain.DrillLevel, error) {
	var row drillRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DrillLevel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.DrillLevel{}, fmt.Errorf("select drill level: %w", err)
	}
	return row.toDomain(), nil
}

// MissionRepository persists beginner-mission scores.
type MissionRepository struct {
	db *bun.DB
}

func NewMissionRepository(db *bun.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

func (r *MissionRepository) Get(ctx context.Context, userID string) (domain.MissionScore, bool, error) {
	var row missionRow
	err := r.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MissionScore{}, false, nil
	}
	if err != nil {
		return domain.MissionScore{}, false, fmt.Errorf("select mission score: %w", err)
	}
	return domain.MissionScore{UserID: row.UserID, Score: row.Score, Status: row.Status}, true, nil
}

func (r *MissionRepository) Upsert(ctx context.Context, score domain.MissionScore) error {
	row := missionRow{UserID: score.UserID, Score: score.Score, Status: score.Status}
	_, err := r.db.NewInsert().Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("status = EXCLUDED.status").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert mission score: %w", err)
	}
	return nil
}
