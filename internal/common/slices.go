package common

import (
	"cmp"
	"maps"
	"slices"
)

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

// SortedKeysFunc returns the keys of m ordered by cmpFn.
func SortedKeysFunc[M ~map[K]V, K comparable, V any](m M, cmpFn func(a, b K) int) []K {
	return slices.SortedFunc(maps.Keys(m), cmpFn)
}
