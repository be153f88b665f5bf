package memstorage

import (
	"context"
	"sync"
	"time"

	"github.com/karupanerura/item-service/storage"
)

type entry[T any] struct {
	items     []T
	expiresAt time.Time
}

type bucket[K comparable, T any] struct {
	m  map[K]entry[T]
	mu sync.RWMutex
}

// Storage is an in-memory storage.KeyedStorage.
// The keys are distributed across buckets, each guarded by its own lock,
// so that loads and saves of different keys rarely contend.
type Storage[K comparable, T any] struct {
	buckets []*bucket[K, T]
	options options[K, T]
}

var _ storage.KeyedStorage[uint8, struct{}] = (*Storage[uint8, struct{}])(nil)

// NewInMemoryStorage creates a new in-memory storage.
// The storage uses a hash function to distribute the keys across the buckets.
func NewInMemoryStorage[K comparable, T any](opts ...Option[K, T]) *Storage[K, T] {
	options := defaultOptions[K, T]()
	for _, opt := range opts {
		opt.apply(&options)
	}
	options.complete()

	buckets := make([]*bucket[K, T], options.bucketsSize)
	for i := range buckets {
		buckets[i] = &bucket[K, T]{m: map[K]entry[T]{}}
	}
	return &Storage[K, T]{
		buckets: buckets,
		options: options,
	}
}

// resolveBucket returns the bucket that corresponds to the given key.
func (s *Storage[K, T]) resolveBucket(key K) *bucket[K, T] {
	if len(s.buckets) == 1 {
		return s.buckets[0]
	}
	index := s.options.hashKey(key) % len(s.buckets)
	if index < 0 {
		index *= -1
	}
	return s.buckets[index]
}

// Load retrieves a copy of the items saved with the given key.
// It returns storage.ErrNotFound if nothing is saved or the items expired.
func (s *Storage[K, T]) Load(_ context.Context, key K) ([]T, error) {
	bucket := s.resolveBucket(key)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	e, ok := bucket.m[key]
	if !ok || s.expired(e) {
		return nil, storage.ErrNotFound
	}
	return s.clone(e.items), nil
}

// Save stores a copy of the items with the given key, replacing the previous ones.
func (s *Storage[K, T]) Save(_ context.Context, key K, items []T) error {
	e := entry[T]{items: s.clone(items)}
	if s.options.ttl > 0 {
		e.expiresAt = s.options.now().Add(s.options.ttl)
	}

	bucket := s.resolveBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	bucket.m[key] = e
	return nil
}

// Delete removes the items saved with the given key.
func (s *Storage[K, T]) Delete(_ context.Context, key K) error {
	bucket := s.resolveBucket(key)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	delete(bucket.m, key)
	return nil
}

func (s *Storage[K, T]) expired(e entry[T]) bool {
	return !e.expiresAt.IsZero() && !s.options.now().Before(e.expiresAt)
}

// clone copies the items, keeping an empty list distinct from a missing one.
func (s *Storage[K, T]) clone(items []T) []T {
	if items == nil {
		return []T{}
	}
	return s.options.cloner.CloneItems(items)
}
