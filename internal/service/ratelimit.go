package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a per-user cooldown on an action using a Redis
// SetNX lock. A nil client disables limiting entirely.
type RateLimiter struct {
	rdb      *redis.Client
	cooldown time.Duration
}

func NewRateLimiter(rdb *redis.Client, cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		cooldown: cooldown,
	}
}

func (l *RateLimiter) Allow(ctx context.Context, userID uint, action string) (bool, error) {
	if l == nil || l.rdb == nil || l.cooldown <= 0 {
		return true, nil
	}

	key := rateLimitKey(userID, action)

	wasSet, err := l.rdb.SetNX(ctx, key, "locked", l.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *RateLimiter) TTL(ctx context.Context, userID uint, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

func (l *RateLimiter) Clear(ctx context.Context, userID uint, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, rateLimitKey(userID, action)).Result()
	return err
}

func rateLimitKey(userID uint, action string) string {
	return fmt.Sprintf("rate_limit:user:%d:%s", userID, action)
}
