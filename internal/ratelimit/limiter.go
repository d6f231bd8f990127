package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ipRequestLimit requests per ipWindow per IP and purpose
	ipRequestLimit = 10
	ipWindow       = 15 * time.Minute
)

// Limiter implements a fixed-window per-IP rate limit backed by Redis.
// Counters expire with the window, so no cleanup job is needed.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

func ipKey(purpose, ip string) string {
	return fmt.Sprintf("ratelimit:ip:%s:%s", purpose, ip)
}

// CheckIPRateLimit reports whether the IP has exhausted its allowance for
// the given purpose within the current window.
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(purpose, ip)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get rate limit counter: %w", err)
	}

	return count >= ipRequestLimit, nil
}

// RecordIPRequest increments the IP's request counter, starting the window
// on the first request.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip, purpose string) error {
	key := ipKey(purpose, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// First hit in this window sets the expiry
	if count == 1 {
		if err := l.client.Expire(ctx, key, ipWindow).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return nil
}
