package storage

import (
	"context"
	"errors"

	itemservice "github.com/karupanerura/item-service"
)

// KeyedStorage is an interface for a cache storage backend that keeps one item list per key.
// Implementations must be thread-safe.
type KeyedStorage[K comparable, T any] interface {
	// Save replaces the items stored with the given key.
	// It must clone the input slice before storing it.
	Save(context.Context, K, []T) error

	// Load retrieves the items stored with the given key.
	// If the key is not found or expired, it returns ErrNotFound.
	// It must clone the returned slice before returning it.
	Load(context.Context, K) ([]T, error)
}

// BoundCache is an itemservice.Cache backed by a single key of a KeyedStorage.
type BoundCache[K comparable, T any] struct {
	Storage KeyedStorage[K, T]
	Key     K
}

var _ itemservice.Cache[struct{}] = (*BoundCache[uint8, struct{}])(nil)

// Bind returns a cache that reads and writes the items of the given key.
func Bind[K comparable, T any](storage KeyedStorage[K, T], key K) *BoundCache[K, T] {
	return &BoundCache[K, T]{Storage: storage, Key: key}
}

// Load retrieves the items of the bound key.
func (c *BoundCache[K, T]) Load(ctx context.Context) ([]T, error) {
	return c.Storage.Load(ctx, c.Key)
}

// Save replaces the items of the bound key.
func (c *BoundCache[K, T]) Save(ctx context.Context, items []T) error {
	return c.Storage.Save(ctx, c.Key, items)
}

// NullCache is an itemservice.Cache that never writes.
// It is a drop-in substitute for a real cache when caching is disabled by configuration.
type NullCache[T any] struct {
	// Cache is the cache to read from.
	// If nil, Load always fails with ErrNotFound.
	Cache itemservice.Cache[T]
}

var _ itemservice.Cache[struct{}] = (*NullCache[struct{}])(nil)

// Load retrieves the items from the underlying cache, or returns ErrNotFound if no cache is set.
func (c *NullCache[T]) Load(ctx context.Context) ([]T, error) {
	if c.Cache == nil {
		return nil, ErrNotFound
	}
	return c.Cache.Load(ctx)
}

// Save does nothing.
func (*NullCache[T]) Save(context.Context, []T) error {
	return nil
}

// SilentErrorCache is a decorator for an itemservice.Cache that silently handles
// errors during writes. Instead of propagating the error, it calls the provided OnError function.
type SilentErrorCache[T any] struct {
	// Cache is the underlying cache that this decorator wraps.
	Cache itemservice.Cache[T]

	// OnError is a function that is called when an error occurs during an operation.
	// The error is passed to the function as an argument.
	OnError func(error)
}

var _ itemservice.Cache[struct{}] = (*SilentErrorCache[struct{}])(nil)

// Load retrieves the items from the underlying cache.
// Load errors other than ErrNotFound are passed to the OnError handler and returned as they are,
// since a failed read must still fail the load.
func (c *SilentErrorCache[T]) Load(ctx context.Context) ([]T, error) {
	items, err := c.Cache.Load(ctx)
	if err != nil {
		if c.OnError != nil && !errors.Is(err, ErrNotFound) {
			c.OnError(err)
		}
		return nil, err
	}
	return items, nil
}

// Save stores the items in the underlying cache.
// If an error occurs and an OnError handler is set, the error will be passed to the OnError handler.
// The method itself always returns nil.
func (c *SilentErrorCache[T]) Save(ctx context.Context, items []T) error {
	if err := c.Cache.Save(ctx, items); err != nil && c.OnError != nil {
		c.OnError(err)
	}
	return nil
}

// FunctionsCache is an itemservice.Cache implementation that uses functions to perform the cache operations.
type FunctionsCache[T any] struct {
	// LoadFunc retrieves the cached items.
	// If nothing is cached, it should return ErrNotFound.
	LoadFunc func(context.Context) ([]T, error)

	// SaveFunc replaces the cached items.
	SaveFunc func(context.Context, []T) error
}

var _ itemservice.Cache[struct{}] = (*FunctionsCache[struct{}])(nil)

// Load calls the LoadFunc function to retrieve the cached items.
func (c *FunctionsCache[T]) Load(ctx context.Context) ([]T, error) {
	return c.LoadFunc(ctx)
}

// Save calls the SaveFunc function to replace the cached items.
func (c *FunctionsCache[T]) Save(ctx context.Context, items []T) error {
	return c.SaveFunc(ctx, items)
}
