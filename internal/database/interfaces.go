package database

import (
	"context"
	"time"
)

// TokenDenylist records revoked token ids until the tokens would have expired anyway
type TokenDenylist interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}
