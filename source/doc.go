// Package source provides the item service adapters of the item-service library.
//
// The adapters turn raw item loaders into itemservice.ItemService implementations:
// APIAdapter for remote APIs, CacheAdapter for local caches and FilterAdapter for
// lists that share one upstream and split it by a predicate.
// Compose them with itemservice.Fallback and itemservice.Retry.
package source
