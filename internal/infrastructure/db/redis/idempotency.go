package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps submission Idempotency-Keys to created expense ids.
// Key format: idem:submit:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the expense id previously stored under key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Save records the expense created for key (expires after idempotencyTTL).
func (s *IdempotencyStore) Save(ctx context.Context, key string, expenseID int64) error {
	return s.client.Set(ctx, s.key(key), expenseID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:submit:" + key
}
