package list

import (
	"iter"
)

// Note that the indexed list is not thread safe.
// Wrap it by NewSyncIdxList if it is shared between goroutines.

// IndexedList is a positional sequence container.
// Elements are addressed by 0-based logical position (index), not by key.
// Element values are opaque handles, the list never compares them.
type IndexedList[T any] interface {
	// Len returns the number of elements.
	Len() int
	// Levels returns the current height of the index structure.
	Levels() int32
	// Get returns the element at idx or ErrXIdxSklIndexOutOfRange.
	Get(idx int) (T, error)
	// Set replaces the element at idx and returns the previous one.
	Set(idx int, v T) (T, error)
	// Update calls fn with a pointer to the element stored at idx.
	// The pointer must not be retained and fn must not mutate the list.
	Update(idx int, fn func(v *T)) error
	// Front returns the first element or ErrXIdxSklIsEmpty.
	Front() (T, error)
	// Back returns the last element or ErrXIdxSklIsEmpty.
	Back() (T, error)
	// Insert inserts v at idx. An index out of [0, Len()] is clamped
	// to the nearest boundary, so Insert never fails.
	Insert(idx int, v T)
	// PushFront inserts v at the front of the list.
	PushFront(v T)
	// PushBack inserts v at the back of the list.
	PushBack(v T)
	// AppendValues appends the values in order.
	AppendValues(vs ...T)
	// Extend appends every value produced by seq in order.
	Extend(seq iter.Seq[T])
	// Remove removes and returns the element at idx or ErrXIdxSklIndexOutOfRange.
	Remove(idx int) (T, error)
	// PopFront removes and returns the first element or ErrXIdxSklPopFromEmpty.
	PopFront() (T, error)
	// PopBack removes and returns the last element or ErrXIdxSklPopFromEmpty.
	PopBack() (T, error)
	// Clear removes all elements.
	Clear()
	// Reverse reverses the order of the elements in place.
	Reverse()
	// SortStableFunc sorts the elements by cmp, keeping the original order of equal elements.
	SortStableFunc(cmp func(a, b T) int)
	// All returns an iterator over (index, element) pairs in logical order.
	// Structural mutation during the iteration panics.
	All() iter.Seq2[int, T]
	// Backward returns an iterator over (index, element) pairs in reverse order.
	Backward() iter.Seq2[int, T]
	// Values returns an iterator over the elements in logical order.
	Values() iter.Seq[T]
	// Foreach traverses the list and stops once fn returns false.
	Foreach(fn func(idx int64, v T) bool)
	// ReverseForeach traverses the list in reverse order and stops once fn returns false.
	ReverseForeach(fn func(idx int64, v T) bool)
	// IndexFunc returns the index of the first element satisfying fn, or -1.
	IndexFunc(fn func(v T) bool) int
	// CountFunc returns the number of elements satisfying fn.
	CountFunc(fn func(v T) bool) int
	// ToSlice copies the elements into a new slice.
	ToSlice() []T
}
