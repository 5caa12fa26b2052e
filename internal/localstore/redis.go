package localstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

var _ Store = (*RedisStore)(nil)

// RedisStore shares the local slots across machines.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cmd.Bytes()
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.redisClient.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.redisClient.Del(ctx, key).Err()
}

func (s *RedisStore) Close() error {
	return s.redisClient.Close()
}
