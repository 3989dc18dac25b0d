package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisViewMarkerStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisViewMarkerStore(client redis.UniversalClient, prefix string) *RedisViewMarkerStore {
	if prefix == "" {
		prefix = "view_marker"
	}
	return &RedisViewMarkerStore{client: client, prefix: prefix}
}

func (s *RedisViewMarkerStore) Seen(ctx context.Context, sessionID string, resourceID uint) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	_, err := s.client.Get(ctx, s.key(sessionID, resourceID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisViewMarkerStore) Mark(ctx context.Context, sessionID string, resourceID uint, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.key(sessionID, resourceID), "1", ttl).Err()
}

func (s *RedisViewMarkerStore) key(sessionID string, resourceID uint) string {
	return fmt.Sprintf("%s:%s:%d", s.prefix, sessionID, resourceID)
}

func markerKey(sessionID string, resourceID uint) string {
	return fmt.Sprintf("%s:%d", sessionID, resourceID)
}
