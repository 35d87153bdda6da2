package redis

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pending marks a key whose first request has not finished.
var pending = []byte("\x00pending")

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "lexledger:idempotency:",
	}
}

// Reserve claims key with SET NX. A losing caller gets the stored response,
// or nil while the winner is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	set, err := s.client.SetNX(ctx, fullKey, pending, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return true, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Released or expired between the two calls; the caller may retry.
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if bytes.Equal(existing, pending) {
		return false, nil, nil
	}

	return false, existing, nil
}

// Complete stores the final response for key.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release deletes key so a failed request can be retried with it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
