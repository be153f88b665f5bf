package singleflightloader

import (
	"context"

	itemservice "github.com/karupanerura/item-service"
)

// Option is the interface for the options of the SingleFlightLoader.
type Option[T any] interface {
	apply(*SingleFlightLoader[T])
}

type optionFunc[T any] func(*SingleFlightLoader[T])

func (f optionFunc[T]) apply(l *SingleFlightLoader[T]) {
	f(l)
}

// WithCloner sets the items cloner to the loader.
// The default is itemservice.DefaultItemsCloner.
func WithCloner[T any](cloner itemservice.ItemsCloner[T]) Option[T] {
	return optionFunc[T](func(l *SingleFlightLoader[T]) {
		l.cloner = cloner
	})
}

// WithBackgroundContextProvider sets the context provider to the loader.
// The provider must return a new context for each call.
// The default context provider is context.Background.
func WithBackgroundContextProvider[T any](provider func() context.Context) Option[T] {
	return optionFunc[T](func(l *SingleFlightLoader[T]) {
		l.context = provider
	})
}
