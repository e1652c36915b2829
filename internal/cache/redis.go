package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mgnrega-api/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mgnrega:catalog:"

// RedisStore shares catalogs between API instances through Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client. The client lifecycle is managed by the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses url and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.DistrictCatalog, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get %s: %w", key, err)
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("cache: decoding %s: %w", key, err)
	}
	return models.NewDistrictCatalog(entries), true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, catalog *models.DistrictCatalog, ttl time.Duration) error {
	raw, err := json.Marshal(catalog.Entries())
	if err != nil {
		return fmt.Errorf("cache: encoding %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %s: %w", key, err)
	}
	return nil
}
