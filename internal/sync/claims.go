package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClaimStore hands out short-lived exclusive leases on a record while it is
// being pushed to the remote authority. A lease that is not released expires
// on its own, so a crashed pass never strands a record.
type ClaimStore interface {
	Acquire(ctx context.Context, recordID uuid.UUID) (bool, error)
	Release(ctx context.Context, recordID uuid.UUID) error
}

type redisClaimStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClaimStore(rdb *redis.Client, ttl time.Duration) ClaimStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisClaimStore{rdb: rdb, ttl: ttl}
}

func claimKey(recordID uuid.UUID) string {
	return fmt.Sprintf("sync:claim:%s", recordID)
}

func (s *redisClaimStore) Acquire(ctx context.Context, recordID uuid.UUID) (bool, error) {
	return s.rdb.SetNX(ctx, claimKey(recordID), "claimed", s.ttl).Result()
}

func (s *redisClaimStore) Release(ctx context.Context, recordID uuid.UUID) error {
	return s.rdb.Del(ctx, claimKey(recordID)).Err()
}
