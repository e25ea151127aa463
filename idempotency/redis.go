package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Begin reserves key. It returns (nil, nil) when the caller now owns the
// key, the stored order ids when an earlier request already completed, or
// ErrInFlight.
func (s *RedisStore) Begin(ctx context.Context, key string) ([]string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, keyPrefix+key, pendingMarker, pendingTTL(s.ttl)).Result()
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return nil, nil
		}

		v, err := s.client.Get(ctx, keyPrefix+key).Result()
		if errors.Is(err, redis.Nil) {
			// expired between the two calls
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read idempotency key: %w", err)
		}
		if v == pendingMarker {
			return nil, ErrInFlight
		}
		return decodeIDs(v)
	}
	return nil, ErrInFlight
}

// Complete records the ids created under key for the rest of its TTL.
func (s *RedisStore) Complete(ctx context.Context, key string, orderIDs []string) error {
	v, err := encodeIDs(orderIDs)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+key, v, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a reservation so the key can be retried.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
