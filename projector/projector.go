package projector

import (
	"iter"
	"slices"
)

// From marks a struct as a projection of S.
type From[S any] struct{}

// FromContext marks a struct as a projection of S that needs a context C.
type FromContext[S, C any] struct{}

// Projection converts one source value into a target value.
type Projection[S, C, T any] func(source S, context C) T

// Projector pairs a sequence of source values with the context passed to
// every projection of them.
type Projector[S, C any] struct {
	Source  iter.Seq[S]
	Context C
}

// New creates a Projector over source.
func New[S, C any](source iter.Seq[S], context C) Projector[S, C] {
	return Projector[S, C]{Source: source, Context: context}
}

// FromSlice creates a Projector over the elements of source.
func FromSlice[S, C any](source []S, context C) Projector[S, C] {
	return New(slices.Values(source), context)
}

// Project lazily applies fn to every source value of p.
func Project[S, C, T any](p Projector[S, C], fn Projection[S, C, T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for s := range p.Source {
			if !yield(fn(s, p.Context)) {
				return
			}
		}
	}
}
