// Package memstorage provides an in-memory implementation of the storage.KeyedStorage interface.
//
// The in-memory storage is distributed across multiple buckets for improved concurrency.
// It supports various configuration options like custom key hashing, bucket sizing,
// expiration with an injectable clock, and item cloning strategies.
//
// Saved and loaded lists are always cloned, so callers never share a backing array with the storage.
package memstorage
