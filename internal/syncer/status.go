package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitsync/internal/workout"

	"github.com/go-redis/redis/v8"
)

const statusKeyPrefix = "sync-status"

var ErrStatusNotFound = errors.New("sync status not found")

// StatusStore keeps the last sync result per user and source in Redis.
type StatusStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewStatusStore creates the store. A zero ttl keeps statuses forever.
func NewStatusStore(redisClient *redis.Client, ttl time.Duration) *StatusStore {
	return &StatusStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func StatusKey(userID string, source workout.Source) string {
	return fmt.Sprintf("%s::%s::%s", statusKeyPrefix, userID, source)
}

func (s *StatusStore) Save(ctx context.Context, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal sync status: %w", err)
	}
	if err := s.redisClient.Set(ctx, StatusKey(result.UserID, result.Source), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save sync status: %w", err)
	}
	return nil
}

func (s *StatusStore) Get(ctx context.Context, userID string, source workout.Source) (*Result, error) {
	data, err := s.redisClient.Get(ctx, StatusKey(userID, source)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("get sync status: %w", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal sync status: %w", err)
	}
	return &result, nil
}
