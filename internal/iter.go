package internal

import (
	"iter"
)

// Gather yields, item by item, the members of list(item) accepted by keep.
func Gather[E any, T any](items []E, list func(E) []T, keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			for _, member := range list(item) {
				if keep(member) && !yield(member) {
					return
				}
			}
		}
	}
}
