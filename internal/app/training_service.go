package app

import (
	"context"
	"fmt"
	"strings"

	"cybercase-service/internal/domain"
)

// DrillRepository reads the command-line drill levels.
type DrillRepository interface {
	Levels(ctx context.Context) ([]domain.DrillLevel, error)
	Level(ctx context.Context, id int64) (domain.DrillLevel, error)
}

// MissionRepository tracks the beginner mission score per user.
type MissionRepository interface {
	Get(ctx context.Context, userID string) (domain.MissionScore, bool, error)
	Upsert(ctx context.Context, score domain.MissionScore) error
}

// Failed attempts before a drill hint unlocks.
const drillHintThreshold = 2

const (
	missionClearedScore  = 100
	missionStatusCleared = "cleared"
	missionStatusOpen    = "not cleared"
)

// TrainingService covers the command drills and the beginner phone mission.
type TrainingService struct {
	drills       DrillRepository
	missions     MissionRepository
	missionOwner string
}

func NewTrainingService(drills DrillRepository, missions MissionRepository, missionOwner string) *TrainingService {
	return &TrainingService{drills: drills, missions: missions, missionOwner: missionOwner}
}

// DrillLevels lists all levels. Solutions are excluded from serialization at
// the model level.
func (s *TrainingService) DrillLevels(ctx context.Context) ([]domain.DrillLevel, error) {
	return s.drills.Levels(ctx)
}

// DrillLevel looks one level up by id.
func (s *TrainingService) DrillLevel(ctx context.Context, id int64) (domain.DrillLevel, error) {
	return s.drills.Level(ctx, id)
}

// CheckDrill compares a submitted command to the level solution after
// collapsing whitespace. The caller tracks prior attempts; the hint unlocks
// after enough failures.
func (s *TrainingService) CheckDrill(ctx context.Context, levelID int64, command string, priorAttempts int) (domain.DrillResult, error) {
	level, err := s.drills.Level(ctx, levelID)
	if err != nil {
		return domain.DrillResult{}, err
	}

	normalized := strings.Join(strings.Fields(command), " ")
	if normalized == strings.TrimSpace(level.Solution) {
		return domain.DrillResult{Correct: true, Attempts: priorAttempts}, nil
	}

	result := domain.DrillResult{Attempts: priorAttempts + 1}
	if result.Attempts >= drillHintThreshold {
		result.Hint = level.Hint
	}
	return result, nil
}

// CheckMission grades the beginner case answer (the device owner's name,
// case-insensitive). A correct answer records a cleared mission; a wrong one
// still initializes the user's score row.
func (s *TrainingService) CheckMission(ctx context.Context, userID, answer string) (domain.MissionScore, bool, error) {
	if userID == "" {
		return domain.MissionScore{}, false, domain.ErrUnauthorized
	}

	if strings.EqualFold(strings.TrimSpace(answer), s.missionOwner) {
		score := domain.MissionScore{UserID: userID, Score: missionClearedScore, Status: missionStatusCleared}
		if err := s.missions.Upsert(ctx, score); err != nil {
			return domain.MissionScore{}, false, fmt.Errorf("record mission score: %w", err)
		}
		return score, true, nil
	}

	// Keep the row present so status lookups always resolve.
	if _, ok, err := s.missions.Get(ctx, userID); err == nil && !ok {
		_ = s.missions.Upsert(ctx, domain.MissionScore{UserID: userID, Score: 0, Status: missionStatusOpen})
	}
	return domain.MissionScore{UserID: userID, Score: 0, Status: missionStatusOpen}, false, nil
}

// MissionStatus reports the user's mission score, defaulting to an open
// mission before the first attempt.
func (s *TrainingService) MissionStatus(ctx context.Context, userID string) (domain.MissionScore, error) {
	if userID == "" {
		return domain.MissionScore{}, domain.ErrUnauthorized
	}
	score, ok, err := s.missions.Get(ctx, userID)
	if err != nil {
		return domain.MissionScore{}, fmt.Errorf("load mission score: %w", err)
	}
	if !ok {
		return domain.MissionScore{UserID: userID, Score: 0, Status: missionStatusOpen}, nil
	}
	return score, nil
}
