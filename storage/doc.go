// Package storage provides cache adapters and utilities for the item-service library.
//
// This package contains the KeyedStorage interface for backends that keep one item list
// per key, and adapters that turn them into itemservice.Cache implementations:
// Bind views one key of a KeyedStorage as a cache, NullCache disables writes,
// SilentErrorCache swallows write errors, and FunctionsCache builds a cache from
// function callbacks.
//
// This package also defines common error types for storage operations:
// ErrNotFound, ErrLoad and ErrSave.
package storage
