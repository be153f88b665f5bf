package itemservice

import (
	"context"
)

// ItemView is a display-ready projection of a raw item.
// It is created fresh for each load and must not be mutated after construction.
type ItemView struct {
	// Title is the primary text of the item.
	Title string

	// Subtitle is the secondary text of the item.
	Subtitle string

	// Select notifies the owner of the list that the item was selected.
	// It forwards the raw item to the selection handler bound at wiring time.
	Select func()
}

// ItemService is an interface for loading a list of items ready for display.
//
// A non-nil error means the load failed and the items must be ignored.
// A nil error means the load succeeded, even if the returned list is empty.
// Implementations must be safe to call concurrently; each call is independent and
// carries no state across calls.
type ItemService interface {
	LoadItems(context.Context) ([]ItemView, error)
}

// ItemServiceFunc is a function type that implements the ItemService interface.
type ItemServiceFunc func(context.Context) ([]ItemView, error)

var _ ItemService = ItemServiceFunc(nil)

// LoadItems calls the function.
func (f ItemServiceFunc) LoadItems(ctx context.Context) ([]ItemView, error) {
	return f(ctx)
}

// Loader is an interface for loading raw items in bulk from an upstream, such as a remote API or a cache.
type Loader[T any] interface {
	// Load retrieves all items.
	// The order of the returned items is the order the upstream reported them in.
	Load(context.Context) ([]T, error)
}

// LoaderFunc is a function type that implements the Loader interface.
type LoaderFunc[T any] func(context.Context) ([]T, error)

var _ Loader[struct{}] = LoaderFunc[struct{}](nil)

// Load calls the function.
func (f LoaderFunc[T]) Load(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Cache is an interface for a local copy of raw items.
// Implementations must be thread-safe: a cache is commonly read by one adapter while
// another adapter writes it from an independent load.
type Cache[T any] interface {
	Loader[T]

	// Save replaces the cached items.
	// It must clone the input slice before storing it.
	// Callers treat Save as fire-and-forget: an error never fails the load that triggered it.
	Save(context.Context, []T) error
}
