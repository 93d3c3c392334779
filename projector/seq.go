package projector

import (
	"iter"
	"slices"
)

// Select lazily applies fn to every element of seq.
func Select[S, T any](seq iter.Seq[S], fn func(S) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for s := range seq {
			if !yield(fn(s)) {
				return
			}
		}
	}
}

// ToSet collects seq into a set, dropping duplicates.
func ToSet[T comparable](seq iter.Seq[T]) map[T]struct{} {
	set := make(map[T]struct{})
	for v := range seq {
		set[v] = struct{}{}
	}

	return set
}

// ToBoolSet collects seq into a map[T]bool set.
func ToBoolSet[T comparable](seq iter.Seq[T]) map[T]bool {
	set := make(map[T]bool)
	for v := range seq {
		set[v] = true
	}

	return set
}

// ToFixed collects seq into a slice whose capacity equals its length.
func ToFixed[T any](seq iter.Seq[T]) []T {
	return slices.Clip(slices.Collect(seq))
}

// Chan adapts a channel to a sequence.
func Chan[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}
}

// Indexer is a list read by position.
type Indexer[T any] interface {
	Len() int
	At(i int) T
}

// Indexed adapts an Indexer to a sequence.
func Indexed[T any](list Indexer[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range list.Len() {
			if !yield(list.At(i)) {
				return
			}
		}
	}
}
