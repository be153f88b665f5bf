package itemservice

import (
	"reflect"
	"slices"
)

// ItemsCloner is an interface for cloning item lists.
// It is used whenever a list is stored in a cache or handed to more than one receiver,
// so that receivers never share a backing array.
type ItemsCloner[T any] interface {
	CloneItems([]T) []T
}

// ItemsClonerFunc is a function type that implements the ItemsCloner interface.
type ItemsClonerFunc[T any] func([]T) []T

// CloneItems calls the function.
func (f ItemsClonerFunc[T]) CloneItems(items []T) []T {
	return f(items)
}

// ShallowItemsCloner copies the list but not the items.
// It is enough when the items are values without mutable references. (e.g. plain records)
type ShallowItemsCloner[T any] struct{}

// CloneItems returns a copy of the list.
func (ShallowItemsCloner[T]) CloneItems(items []T) []T {
	return slices.Clone(items)
}

// DefaultItemsCloner returns a default cloner for the given item type.
// If the item type has a Clone method, each item is cloned with it.
// Otherwise it returns a ShallowItemsCloner for primitive, struct and array types,
// and panics for any other kind of type.
func DefaultItemsCloner[T any]() ItemsCloner[T] {
	type cloner interface {
		Clone() T
	}

	var zero T
	if _, ok := any(zero).(cloner); ok {
		return ItemsClonerFunc[T](func(items []T) []T {
			if items == nil {
				return nil
			}
			cloned := make([]T, len(items))
			for i, item := range items {
				cloned[i] = any(item).(cloner).Clone()
			}
			return cloned
		})
	}

	switch reflect.TypeFor[T]().Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Struct, reflect.Array:
		return ShallowItemsCloner[T]{}
	default:
		panic("item type does not have Clone method")
	}
}
