// Package writethrough provides an itemservice.Loader that saves every successful upstream
// result to a cache before handing it out.
package writethrough

import (
	"context"

	itemservice "github.com/karupanerura/item-service"
)

// Loader loads the items from a source and saves them to a cache on success.
// A failed save never fails the load: the error is passed to OnError if set.
type Loader[T any] struct {
	// Source is the upstream the items are loaded from.
	Source itemservice.Loader[T]

	// Cache receives the full list of every successful load.
	// Use storage.NullCache to disable writes.
	Cache itemservice.Cache[T]

	// OnError is called with the error of a failed save.
	OnError func(error)
}

var _ itemservice.Loader[struct{}] = (*Loader[struct{}])(nil)

// NewLoader creates a new Loader with the given cache and source.
func NewLoader[T any](cache itemservice.Cache[T], source itemservice.Loader[T]) *Loader[T] {
	return &Loader[T]{
		Cache:  cache,
		Source: source,
	}
}

// Load retrieves the items from the source, saves them to the cache, and returns them.
// If the source fails, the cache is left untouched and the error is returned as it is.
func (l *Loader[T]) Load(ctx context.Context) ([]T, error) {
	items, err := l.Source.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.Cache.Save(ctx, items); err != nil && l.OnError != nil {
		l.OnError(err)
	}
	return items, nil
}
