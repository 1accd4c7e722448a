package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/tripsync/internal/config"
)

// RedisClient wraps the redis client with helper methods for the token denylist
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	cfg    *config.Config
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDB,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// NewRedisClientForTesting creates a Redis client with a provided redis.Client (for testing)
func NewRedisClientForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// denylistKey generates the Redis key for a revoked token id
// Format: auth:denylist:{jti}
func denylistKey(tokenID string) string {
	return fmt.Sprintf("auth:denylist:%s", tokenID)
}

// RevokeToken stores the token id until ttl elapses. A non-positive ttl means
// the token has already expired and nothing is stored.
func (r *RedisClient) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, denylistKey(tokenID), 1, ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to revoke token",
			"jti", tokenID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("🚫 [Redis] Token revoked", "jti", tokenID, "ttl", ttl)
	return nil
}

// IsTokenRevoked reports whether the token id is on the denylist
func (r *RedisClient) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, denylistKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to check token denylist",
			"jti", tokenID,
			"error", err,
		)
		return false, err
	}
	return true, nil
}

// NoOpDenylist never revokes anything
// Used when Redis is not available
type NoOpDenylist struct {
	logger *slog.Logger
}

// NewNoOpDenylist creates a no-op token denylist
func NewNoOpDenylist(logger *slog.Logger) TokenDenylist {
	logger.Warn("⚠️ [Redis] Using no-op token denylist - logout is client-side only")
	return &NoOpDenylist{logger: logger}
}

func (d *NoOpDenylist) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return nil
}

func (d *NoOpDenylist) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}

func (d *NoOpDenylist) Close() error {
	return nil
}
