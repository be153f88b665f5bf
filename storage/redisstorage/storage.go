package redisstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/karupanerura/item-service/storage"
	"github.com/redis/go-redis/v9"
)

// Client is the subset of the Redis client used by the storage.
// *redis.Client and *redis.ClusterClient satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Storage is a storage.KeyedStorage that keeps each list as a JSON document in Redis.
type Storage[K comparable, T any] struct {
	client  Client
	options options[K]
}

var _ storage.KeyedStorage[string, struct{}] = (*Storage[string, struct{}])(nil)

// NewRedisStorage creates a new Redis storage with the given client.
func NewRedisStorage[K comparable, T any](client Client, opts ...Option[K]) *Storage[K, T] {
	options := defaultOptions[K]()
	for _, opt := range opts {
		opt.apply(&options)
	}
	return &Storage[K, T]{
		client:  client,
		options: options,
	}
}

func (s *Storage[K, T]) redisKey(key K) string {
	return s.options.prefix + s.options.encodeKey(key)
}

// Load retrieves the items saved with the given key.
// It returns storage.ErrNotFound if nothing is saved or the items expired,
// and an error wrapping storage.ErrLoad if Redis fails or the document is broken.
func (s *Storage[K, T]) Load(ctx context.Context, key K) ([]T, error) {
	b, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrLoad, err)
	}

	items := []T{}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", storage.ErrLoad, s.redisKey(key), err)
	}
	if items == nil {
		// a stored "null"
		items = []T{}
	}
	return items, nil
}

// Save replaces the items saved with the given key.
// It returns an error wrapping storage.ErrSave if the items cannot be encoded or Redis fails.
func (s *Storage[K, T]) Save(ctx context.Context, key K, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", storage.ErrSave, err)
	}
	if err := s.client.Set(ctx, s.redisKey(key), b, s.options.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSave, err)
	}
	return nil
}

// Delete removes the items saved with the given key.
func (s *Storage[K, T]) Delete(ctx context.Context, key K) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSave, err)
	}
	return nil
}
