// Package redisstorage provides a storage.KeyedStorage backed by Redis.
//
// Each key holds one JSON encoded list, so a list is always replaced as a whole
// and readers never observe a partially written one.
// An empty list is stored as "[]" and loads as an empty list, not as a miss.
package redisstorage
