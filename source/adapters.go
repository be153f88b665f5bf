package source

import (
	"context"
	"iter"
	"slices"

	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/internal/iterutil"
)

// ViewFunc projects a raw item into an ItemView.
// The selection function forwards the raw item to the selection handler of the adapter.
type ViewFunc[T any] func(item T, selection func()) itemservice.ItemView

// APIAdapter is an ItemService that loads raw items from an upstream loader, typically a remote API.
// To persist the loaded items, wrap the loader with writethrough.Loader.
type APIAdapter[T any] struct {
	// Loader is the upstream of the raw items.
	Loader itemservice.Loader[T]

	// View projects each raw item into an ItemView.
	View ViewFunc[T]

	// Select is called with the raw item when its ItemView is selected.
	// If nil, selection is ignored.
	Select func(T)
}

var _ itemservice.ItemService = (*APIAdapter[struct{}])(nil)

// LoadItems loads raw items from the loader and maps them into views in the same order.
// Errors of the loader are returned verbatim.
func (a *APIAdapter[T]) LoadItems(ctx context.Context) ([]itemservice.ItemView, error) {
	items, err := a.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(slices.Values(items), len(items), a.View, a.Select), nil
}

// CacheAdapter is an ItemService that loads raw items from a cache.
// It is usually composed as the fallback of an APIAdapter.
type CacheAdapter[T any] struct {
	// Cache is the source of the raw items.
	Cache itemservice.Cache[T]

	// View projects each raw item into an ItemView.
	View ViewFunc[T]

	// Select is called with the raw item when its ItemView is selected.
	// If nil, selection is ignored.
	Select func(T)
}

var _ itemservice.ItemService = (*CacheAdapter[struct{}])(nil)

// LoadItems loads raw items from the cache and maps them into views in the same order.
// Errors of the cache, including misses, are returned verbatim.
func (a *CacheAdapter[T]) LoadItems(ctx context.Context) ([]itemservice.ItemView, error) {
	items, err := a.Cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(slices.Values(items), len(items), a.View, a.Select), nil
}

// FilterAdapter is an ItemService that loads raw items from an upstream loader and keeps only a part of them.
// Two adapters with complementary Keep functions over the same loader partition its items.
type FilterAdapter[T any] struct {
	// Loader is the upstream of the raw items.
	Loader itemservice.Loader[T]

	// Keep reports whether the raw item belongs to this list.
	Keep func(T) bool

	// View projects each kept raw item into an ItemView.
	View ViewFunc[T]

	// Select is called with the raw item when its ItemView is selected.
	// If nil, selection is ignored.
	Select func(T)
}

var _ itemservice.ItemService = (*FilterAdapter[struct{}])(nil)

// LoadItems loads raw items from the loader, keeps the items Keep accepts and maps them into views.
// The relative order of the kept items is preserved.
func (a *FilterAdapter[T]) LoadItems(ctx context.Context) ([]itemservice.ItemView, error) {
	items, err := a.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(iterutil.Filter(slices.Values(items), a.Keep), len(items), a.View, a.Select), nil
}

func toViews[T any](items iter.Seq[T], sizeHint int, view ViewFunc[T], selectFunc func(T)) []itemservice.ItemView {
	return iterutil.CollectN(iterutil.Map(items, func(item T) itemservice.ItemView {
		return view(item, func() {
			if selectFunc != nil {
				selectFunc(item)
			}
		})
	}), sizeHint)
}

// LintService is an ItemService that is used for linting purposes.
// It validates the behavior of the wrapped service, ensuring it properly follows the ItemService contract.
type LintService struct {
	Service itemservice.ItemService
}

var _ itemservice.ItemService = (*LintService)(nil)

// LoadItems loads items from the wrapped service.
// It panics if the service returns both items and an error, or a view without a selection action.
func (s *LintService) LoadItems(ctx context.Context) ([]itemservice.ItemView, error) {
	items, err := s.Service.LoadItems(ctx)
	if err != nil {
		if items != nil {
			panic("must not return items with an error")
		}
		return nil, err
	}
	for _, item := range items {
		if item.Select == nil {
			panic("missing selection action")
		}
	}
	return items, nil
}
