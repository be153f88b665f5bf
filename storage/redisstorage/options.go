package redisstorage

import (
	"fmt"
	"time"
)

// DefaultKeyPrefix is the default prefix of the Redis keys.
const DefaultKeyPrefix = "items:"

// Option is the interface for the options of the Redis storage.
type Option[K comparable] interface {
	apply(*options[K])
}

type optionFunc[K comparable] func(*options[K])

func (f optionFunc[K]) apply(o *options[K]) {
	f(o)
}

// WithKeyPrefix sets the prefix prepended to every Redis key.
func WithKeyPrefix[K comparable](prefix string) Option[K] {
	return optionFunc[K](func(o *options[K]) {
		o.prefix = prefix
	})
}

// WithKeyEncoder sets the function converting a key to the Redis key suffix.
// The default is fmt.Sprint.
func WithKeyEncoder[K comparable](encode func(K) string) Option[K] {
	return optionFunc[K](func(o *options[K]) {
		o.encodeKey = encode
	})
}

// WithTTL sets how long saved items stay readable.
// Zero means the items never expire, which is the default.
func WithTTL[K comparable](ttl time.Duration) Option[K] {
	if ttl < 0 {
		panic("ttl must not be negative")
	}
	return optionFunc[K](func(o *options[K]) {
		o.ttl = ttl
	})
}

type options[K comparable] struct {
	prefix    string
	encodeKey func(K) string
	ttl       time.Duration
}

func defaultOptions[K comparable]() options[K] {
	return options[K]{
		prefix: DefaultKeyPrefix,
		encodeKey: func(key K) string {
			return fmt.Sprint(key)
		},
	}
}
