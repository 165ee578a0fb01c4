package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token cache in Redis. The key expires with the session.
type RedisStore struct {
	client     *redis.Client
	key        string
	tokenField string
	now        func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg Config, tokenField string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.RedisKey, tokenField), nil
}

// NewRedisStoreWithClient creates a store with an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client, key, tokenField string) *RedisStore {
	return &RedisStore{client: client, key: key, tokenField: tokenField, now: time.Now}
}

// Load reads the token cache. A missing key is not an error.
func (r *RedisStore) Load(ctx context.Context) (*Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache from Redis: %w", err)
	}
	return decodeToken(r.tokenField, data)
}

// Save writes the token cache with a TTL matching the remaining session lifetime.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	data, err := encodeToken(r.tokenField, s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token cache to Redis: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
