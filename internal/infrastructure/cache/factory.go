package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/infrastructure/config"
)

// SessionStoreFactory creates session cart stores based on configuration
type SessionStoreFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SessionStoreFactoryOption is a functional option for configuring the factory
type SessionStoreFactoryOption func(*SessionStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSessionStoreFactory creates a new factory
func NewSessionStoreFactory(cfg config.RedisConfig, ttl time.Duration, opts ...SessionStoreFactoryOption) *SessionStoreFactory {
	f := &SessionStoreFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-backed session cart store
func (f *SessionStoreFactory) CreateRedisStore() (cart.SessionStore, error) {
	store, err := NewRedisSessionStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis session store: %w", err)
	}

	return store, nil
}

// CreateStore creates a session cart store, preferring Redis and falling
// back to in-memory when Redis is unavailable and fallback is allowed.
// In-memory stores do not share guest carts across process instances.
func (f *SessionStoreFactory) CreateStore() (cart.SessionStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis session cart store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for session carts but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session cart store. "+
		"Guest carts will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemorySessionStore(f.ttl), nil
}
