package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines the interface for token creation and validation.
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// RateLimiter throttles requests per client IP and purpose.
// Implemented by ratelimit.Limiter.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequest(ctx context.Context, ip, purpose string) error
}
