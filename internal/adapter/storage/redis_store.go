package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"steamworth/internal/core/domain"
)

const defaultCacheKey = "steamworth:price_cache"

// RedisStore keeps the price-cache document as one JSON value under a single
// key, preserving the read-everything/write-everything semantics of the
// file store.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultCacheKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (map[string]domain.CachedPrice, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]domain.CachedPrice{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read price cache key %s: %w", s.key, err)
	}

	var entries map[string]domain.CachedPrice
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode price cache key %s: %w", s.key, err)
	}
	if entries == nil {
		entries = map[string]domain.CachedPrice{}
	}
	return entries, nil
}

func (s *RedisStore) Save(ctx context.Context, entries map[string]domain.CachedPrice) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode price cache: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write price cache key %s: %w", s.key, err)
	}
	return nil
}
