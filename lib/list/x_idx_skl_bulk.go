package list

import (
	"fmt"
	"iter"
	"slices"

	"github.com/samber/lo"
)

// FromSlice builds a list holding vs in order in linear expected time.
func FromSlice[T any](vs []T, opts ...XIdxSklOption) (*XIdxSkl[T], error) {
	skl, err := NewXIdxSkl[T](append([]XIdxSklOption{WithXIdxSklCapacity(len(vs))}, opts...)...)
	if err != nil {
		return nil, err
	}
	skl.appendAll(vs)
	return skl, nil
}

// Collect builds a list from every value produced by seq.
func Collect[T any](seq iter.Seq[T], opts ...XIdxSklOption) (*XIdxSkl[T], error) {
	return FromSlice(slices.Collect(seq), opts...)
}

func (skl *XIdxSkl[T]) AppendValues(vs ...T) {
	skl.appendAll(vs)
}

// Extend drains seq before touching the list, so seq may safely
// range over the list itself.
func (skl *XIdxSkl[T]) Extend(seq iter.Seq[T]) {
	if seq == nil {
		return
	}
	skl.appendAll(slices.Collect(seq))
}

// rebuild replaces the content by values, reusing the arena.
func (skl *XIdxSkl[T]) rebuild(values []T) {
	skl.Clear()
	skl.appendAll(values)
}

// Reverse reverses the list in place by a full rebuild, O(n) expected.
func (skl *XIdxSkl[T]) Reverse() {
	if skl.nodeLen <= 1 {
		return
	}
	skl.rebuild(lo.Reverse(skl.ToSlice()))
}

// SortStableFunc sorts the list by cmp and keeps the original order of
// equal elements. O(n log n).
func (skl *XIdxSkl[T]) SortStableFunc(cmp func(a, b T) int) {
	if skl.nodeLen <= 1 || cmp == nil {
		return
	}
	values := skl.ToSlice()
	slices.SortStableFunc(values, cmp)
	skl.rebuild(values)
}

// empty returns a new list sharing the construction options of skl.
func (skl *XIdxSkl[T]) empty() *XIdxSkl[T] {
	res := &XIdxSkl[T]{}
	if skl.arena == nil {
		res.lazyInit()
		return res
	}
	res.init(skl.opts)
	return res
}

// Clone returns a list with the same elements in a fresh arena.
// The elements themselves are copied by value.
func (skl *XIdxSkl[T]) Clone() *XIdxSkl[T] {
	res := skl.empty()
	res.appendAll(skl.ToSlice())
	return res
}

// Concat returns a new list holding the elements of skl followed by
// the elements of other. Neither operand is modified.
func (skl *XIdxSkl[T]) Concat(other *XIdxSkl[T]) *XIdxSkl[T] {
	res := skl.Clone()
	if other != nil {
		res.appendAll(other.ToSlice())
	}
	return res
}

// Repeat returns a new list holding the elements of skl n times.
// A non-positive n yields an empty list. ErrXIdxSklIsFull is returned
// when the result would exceed XIdxSklMaxSize elements.
func (skl *XIdxSkl[T]) Repeat(n int) (*XIdxSkl[T], error) {
	res := skl.empty()
	if n <= 0 || skl.nodeLen <= 0 {
		return res, nil
	}
	if skl.nodeLen > XIdxSklMaxSize/n {
		return nil, fmt.Errorf("%w: %d elements repeated %d times", ErrXIdxSklIsFull, skl.nodeLen, n)
	}
	res.appendAll(slices.Repeat(skl.ToSlice(), n))
	return res, nil
}

// Slice returns a new list with the elements in [start, stop).
// Both bounds are clamped into [0, Len()], an empty range yields an
// empty list.
func (skl *XIdxSkl[T]) Slice(start, stop int) *XIdxSkl[T] {
	res := skl.empty()
	start, stop = max(start, 0), min(stop, skl.nodeLen)
	if start >= stop {
		return res
	}
	values := make([]T, 0, stop-start)
	x := skl.findSlot(start)
	for i := start; i < stop; i++ {
		node := skl.arena.node(x)
		values = append(values, node.elem)
		x = node.indices[0].succ
	}
	res.appendAll(values)
	return res
}

// SliceStep returns a new list with every step-th element between start
// and stop, stop excluded. A positive step walks forward with both bounds
// clamped into [0, Len()]. A negative step walks backward from start with
// both bounds clamped into [-1, Len()-1]. A zero step is rejected with
// ErrXIdxSklInvalidOption.
func (skl *XIdxSkl[T]) SliceStep(start, stop, step int) (*XIdxSkl[T], error) {
	switch {
	case step == 0:
		return nil, fmt.Errorf("%w: slice step must not be zero", ErrXIdxSklInvalidOption)
	case step == 1:
		return skl.Slice(start, stop), nil
	}

	res := skl.empty()
	var from, to int // the visited window [from, to)
	if step > 0 {
		start, stop = max(start, 0), min(stop, skl.nodeLen)
		from, to = start, stop
	} else {
		start, stop = min(start, skl.nodeLen-1), max(stop, -1)
		from, to = stop+1, start+1
	}
	if from >= to {
		return res, nil
	}

	window := make([]T, 0, to-from)
	x := skl.findSlot(from)
	for i := from; i < to; i++ {
		node := skl.arena.node(x)
		window = append(window, node.elem)
		x = node.indices[0].succ
	}
	values := make([]T, 0, len(window))
	if step > 0 {
		for i := 0; i < len(window); i += step {
			values = append(values, window[i])
		}
	} else {
		for i := len(window) - 1; i >= 0; i += step {
			values = append(values, window[i])
		}
	}
	res.appendAll(values)
	return res, nil
}
