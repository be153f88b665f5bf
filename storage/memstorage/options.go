package memstorage

import (
	"time"

	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/internal/keyhash"
)

// DefaultBucketsSize is the default number of buckets in the storage.
var DefaultBucketsSize = 16

// Option is the interface for the options of the in-memory storage.
type Option[K comparable, T any] interface {
	apply(*options[K, T])
}

type optionFunc[K comparable, T any] func(*options[K, T])

func (f optionFunc[K, T]) apply(o *options[K, T]) {
	f(o)
}

// WithKeyHash sets the key hash function to the storage.
// The function must return the same value for the same key.
func WithKeyHash[K comparable, T any](f func(K) int) Option[K, T] {
	return optionFunc[K, T](func(o *options[K, T]) {
		o.hashKey = f
	})
}

// WithBucketsSize sets the number of buckets in the storage.
// The number of buckets must be a natural number.
func WithBucketsSize[K comparable, T any](bucketsSize int) Option[K, T] {
	if bucketsSize <= 0 {
		panic("bucketSize must be natural number")
	}
	return optionFunc[K, T](func(o *options[K, T]) {
		o.bucketsSize = bucketsSize
	})
}

// WithTTL sets how long saved items stay readable.
// Zero means the items never expire, which is the default.
func WithTTL[K comparable, T any](ttl time.Duration) Option[K, T] {
	if ttl < 0 {
		panic("ttl must not be negative")
	}
	return optionFunc[K, T](func(o *options[K, T]) {
		o.ttl = ttl
	})
}

// WithClock sets the function returning the current time to the storage.
func WithClock[K comparable, T any](now func() time.Time) Option[K, T] {
	return optionFunc[K, T](func(o *options[K, T]) {
		o.now = now
	})
}

// WithCloner sets the items cloner to the storage.
func WithCloner[K comparable, T any](cloner itemservice.ItemsCloner[T]) Option[K, T] {
	return optionFunc[K, T](func(o *options[K, T]) {
		o.cloner = cloner
	})
}

type options[K comparable, T any] struct {
	hashKey     func(K) int
	bucketsSize int
	ttl         time.Duration
	now         func() time.Time
	cloner      itemservice.ItemsCloner[T]
}

func defaultOptions[K comparable, T any]() options[K, T] {
	return options[K, T]{
		bucketsSize: DefaultBucketsSize,
		now:         time.Now,
	}
}

// complete fills the options that are expensive or may panic only when they are needed.
func (o *options[K, T]) complete() {
	if o.hashKey == nil && o.bucketsSize > 1 {
		o.hashKey = keyhash.GetOrCreateKeyHash[K]()
	}
	if o.cloner == nil {
		o.cloner = itemservice.DefaultItemsCloner[T]()
	}
}
