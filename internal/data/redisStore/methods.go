package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ListPush appends to the list at key and, in the same transaction, refreshes the expiry of key and
// of every companion key.
func (s *Store) ListPush(ctx context.Context, key string, value interface{}, expiration time.Duration, companions ...string) error {
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, value)
	if expiration > 0 {
		pipe.Expire(ctx, key, expiration)
		for _, companion := range companions {
			pipe.Expire(ctx, companion, expiration)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	return count > 0, err
}

func (s *Store) ListGetAll(ctx context.Context, key string) ([]string, error) {
	return s.client.LRange(ctx, key, 0, -1).Result()
}
