package list

import (
	"iter"
)

// checkMods panics once the list was structurally modified behind an
// active iteration.
func (skl *XIdxSkl[T]) checkMods(expected uint64) {
	if skl.mods != expected {
		panic(ErrXIdxSklConcurrentModification)
	}
}

func (skl *XIdxSkl[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if skl.arena == nil || skl.nodeLen <= 0 {
			return
		}
		mods := skl.mods
		for idx, x := 0, skl.arena.head().indices[0].succ; x != xIdxSklHeadSlot; idx++ {
			node := skl.arena.node(x)
			next := node.indices[0].succ
			if !yield(idx, node.elem) {
				return
			}
			skl.checkMods(mods)
			x = next
		}
	}
}

// Backward walks the level-0 predecessor links from the tail.
func (skl *XIdxSkl[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if skl.arena == nil || skl.nodeLen <= 0 {
			return
		}
		mods := skl.mods
		for idx, x := skl.nodeLen-1, skl.tail; x != xIdxSklHeadSlot; idx-- {
			node := skl.arena.node(x)
			pred := node.pred
			if !yield(idx, node.elem) {
				return
			}
			skl.checkMods(mods)
			x = pred
		}
	}
}

func (skl *XIdxSkl[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range skl.All() {
			if !yield(v) {
				return
			}
		}
	}
}

func (skl *XIdxSkl[T]) Foreach(fn func(idx int64, v T) bool) {
	if fn == nil {
		return
	}
	for idx, v := range skl.All() {
		if !fn(int64(idx), v) {
			break
		}
	}
}

func (skl *XIdxSkl[T]) ReverseForeach(fn func(idx int64, v T) bool) {
	if fn == nil {
		return
	}
	for idx, v := range skl.Backward() {
		if !fn(int64(idx), v) {
			break
		}
	}
}

func (skl *XIdxSkl[T]) ToSlice() []T {
	res := make([]T, 0, skl.nodeLen)
	for _, v := range skl.All() {
		res = append(res, v)
	}
	return res
}

func (skl *XIdxSkl[T]) IndexFunc(fn func(v T) bool) int {
	if fn == nil {
		return -1
	}
	for idx, v := range skl.All() {
		if fn(v) {
			return idx
		}
	}
	return -1
}

func (skl *XIdxSkl[T]) CountFunc(fn func(v T) bool) int {
	if fn == nil {
		return 0
	}
	count := 0
	for _, v := range skl.All() {
		if fn(v) {
			count++
		}
	}
	return count
}
