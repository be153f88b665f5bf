package storage

import "errors"

var (
	ErrNotFound = errors.New("no items in cache storage")
	ErrLoad     = errors.New("unable to load items from cache storage")
	ErrSave     = errors.New("unable to save items in cache storage")
)
