package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
)

const sessionKeyPrefix = "cart:session:"

// RedisSessionStore keeps guest cart lines in Redis keyed by session ID.
// Entries expire after the configured TTL so abandoned guest carts are
// reclaimed without a sweeper.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSessionStore creates a Redis-backed session cart store
func NewRedisSessionStore(cfg RedisConfig, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, "", ttl), nil
}

// NewRedisSessionStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = sessionKeyPrefix
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get loads the line items for a session. A missing key is not an error;
// it reads as an empty cart.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	payload, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAVAILABLE", "Session store read failed", err)
	}

	var items []cart.LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAVAILABLE", "Session cart payload is corrupt", err)
	}
	return items, nil
}

// Put replaces the session's line items and refreshes the TTL
func (s *RedisSessionStore) Put(ctx context.Context, sessionID string, items []cart.LineItem) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return shared.NewDomainErrorWithCause("UNAVAILABLE", "Session store write failed", err)
	}
	return nil
}

// Delete removes the session's cart, if any
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return shared.NewDomainErrorWithCause("UNAVAILABLE", "Session store delete failed", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSessionStore implements cart.SessionStore
var _ cart.SessionStore = (*RedisSessionStore)(nil)
