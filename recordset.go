package sheetio

import "iter"

// RecordSet is an ordered, immutable collection. Transformations added with
// Map run only when the set is materialized.
type RecordSet[T any] struct {
	seq func(yield func(int, T) bool)
	n   int
}

// NewRecordSet wraps rows in a RecordSet. The slice is copied.
func NewRecordSet(rows []Row) *RecordSet[Row] {
	return newRecordSet(append([]Row(nil), rows...))
}

// newRecordSet wraps items without copying.
func newRecordSet[T any](items []T) *RecordSet[T] {
	return &RecordSet[T]{
		seq: func(yield func(int, T) bool) {
			for i, item := range items {
				if !yield(i, item) {
					return
				}
			}
		},
		n: len(items),
	}
}

// Map returns a RecordSet whose elements are fn applied to each element of
// rs, in order. fn runs once per element at materialization time.
func Map[T, U any](rs *RecordSet[T], fn func(T) U) *RecordSet[U] {
	return &RecordSet[U]{
		seq: func(yield func(int, U) bool) {
			for i, item := range rs.All() {
				if !yield(i, fn(item)) {
					return
				}
			}
		},
		n: rs.n,
	}
}

// Len returns the number of elements.
func (rs *RecordSet[T]) Len() int {
	return rs.n
}

// All returns an iterator over index/element pairs in order.
func (rs *RecordSet[T]) All() iter.Seq2[int, T] {
	return rs.seq
}

// ToSlice materializes the set into a new slice.
func (rs *RecordSet[T]) ToSlice() []T {
	out := make([]T, 0, rs.n)
	for _, item := range rs.All() {
		out = append(out, item)
	}
	return out
}
