package iterutil

import (
	"iter"
)

// Filter returns a new iterator that yields the values of the input iterator for which keep returns true.
// The order of the output is the same as the input.
func Filter[V any](seq iter.Seq[V], keep func(V) bool) iter.Seq[V] {
	return iter.Seq[V](func(yield func(V) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	})
}

// Map returns a new iterator that applies the function to each value from the input iterator.
// The output iterator yields the results of the function calls.
func Map[V, R any](seq iter.Seq[V], f func(V) R) iter.Seq[R] {
	return iter.Seq[R](func(yield func(R) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	})
}

// CollectN collects the values of the iterator into a slice with the given capacity hint.
// Unlike slices.Collect, it returns an empty non-nil slice when the iterator yields nothing.
func CollectN[V any](seq iter.Seq[V], n int) []V {
	s := make([]V, 0, n)
	for v := range seq {
		s = append(s, v)
	}
	return s
}
