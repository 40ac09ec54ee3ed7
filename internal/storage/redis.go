package storage

import (
	"context"
	"errors"
	"fmt"

	"tutfree/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tutfree:collection:"

// RedisStore keeps each collection under its own key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient creates a client from config without connecting.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, collection string) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, redisKeyPrefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", collection, err)
	}
	return val, nil
}

func (s *RedisStore) Replace(ctx context.Context, collection string, data []byte) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := checkCollection(collection); err != nil {
		return err
	}

	if err := s.client.Set(ctx, redisKeyPrefix+collection, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", collection, err)
	}
	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
