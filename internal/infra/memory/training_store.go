package memory

import (
	"context"
	"sync"

	"cybercase-service/internal/domain"
)

// DrillRepository serves the fixed drill levels from memory.
type DrillRepository struct {
	levels []domain.DrillLevel
	byID   map[int64]domain.DrillLevel
}

func NewDrillRepository(levels []domain.DrillLevel) *DrillRepository {
	byID := make(map[int64]domain.DrillLevel, len(levels))
	for _, l := range levels {
		byID[l.ID] = l
	}
	return &DrillRepository{levels: levels, byID: byID}
}

func (r *DrillRepository) Levels(_ context.Context) ([]domain.DrillLevel, error) {
	return r.levels, nil
}

func (r *DrillRepository) Level(_ context.Context, id int64) (domain.DrillLevel, error) {
	level, ok := r.byID[id]
	if !ok {
		return domain.DrillLevel{}, domain.ErrNotFound
	}
	return level, nil
}

// MissionStore keeps beginner-mission scores per user in memory.
type MissionStore struct {
	mu     sync.RWMutex
	scores map[string]domain.MissionScore
}

func NewMissionStore() *MissionStore {
	return &MissionStore{scores: make(map[string]domain.MissionScore)}
}

func (s *MissionStore) Get(_ context.Context, userID string) (domain.MissionScore, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.scores[userID]
	return score, ok, nil
}

func (s *MissionStore) Upsert(_ context.Context, score domain.MissionScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[score.UserID] = score
	return nil
}
