package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the active question-id set per user in Redis. The TTL
// bounds abandoned sessions; Take consumes the key atomically with GETDEL so
// a double submit cannot grade the same session twice.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, userID string, questionIDs []int64) error {
	payload, err := json.Marshal(questionIDs)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Take(ctx context.Context, userID string) ([]int64, bool, error) {
	raw, err := s.client.GetDel(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("consume session: %w", err)
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return ids, true, nil
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
