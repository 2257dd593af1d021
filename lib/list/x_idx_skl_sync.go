package list

import (
	"iter"
	"slices"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// syncIdxListDelegator guards an IndexedList by a read-write lock.
// Reads share the lock, mutations own it.
// Iterations and the predicate based reads copy the elements under the
// read lock and call back without holding it, so the loop body may call
// any method of the same delegator. They observe the list as it was when
// the copy was taken.
type syncIdxListDelegator[T any] struct {
	rwmu sync.RWMutex
	_    [cacheLinePadSize - unsafe.Sizeof(sync.RWMutex{})%cacheLinePadSize]byte // padding for CPU cache line, avoid false sharing
	impl IndexedList[T]
}

var _ IndexedList[struct{}] = (*syncIdxListDelegator[struct{}])(nil)

// NewSyncIdxList wraps impl to be shared between goroutines.
// A nil impl gets a fresh XIdxSkl with the default options.
func NewSyncIdxList[T any](impl IndexedList[T]) IndexedList[T] {
	if impl == nil {
		impl = &XIdxSkl[T]{}
	}
	if d, ok := impl.(*syncIdxListDelegator[T]); ok {
		return d
	}
	return &syncIdxListDelegator[T]{impl: impl}
}

func (d *syncIdxListDelegator[T]) Len() int {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Len()
}

func (d *syncIdxListDelegator[T]) Levels() int32 {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Levels()
}

func (d *syncIdxListDelegator[T]) Get(idx int) (T, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Get(idx)
}

func (d *syncIdxListDelegator[T]) Set(idx int, v T) (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.Set(idx, v)
}

func (d *syncIdxListDelegator[T]) Update(idx int, fn func(v *T)) error {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.Update(idx, fn)
}

func (d *syncIdxListDelegator[T]) Front() (T, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Front()
}

func (d *syncIdxListDelegator[T]) Back() (T, error) {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.Back()
}

func (d *syncIdxListDelegator[T]) Insert(idx int, v T) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.Insert(idx, v)
}

func (d *syncIdxListDelegator[T]) PushFront(v T) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.PushFront(v)
}

func (d *syncIdxListDelegator[T]) PushBack(v T) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.PushBack(v)
}

func (d *syncIdxListDelegator[T]) AppendValues(vs ...T) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.AppendValues(vs...)
}

// Extend drains seq before the lock is taken, so seq may read from
// the delegator itself.
func (d *syncIdxListDelegator[T]) Extend(seq iter.Seq[T]) {
	if seq == nil {
		return
	}
	var values []T
	for v := range seq {
		values = append(values, v)
	}
	d.AppendValues(values...)
}

func (d *syncIdxListDelegator[T]) Remove(idx int) (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.Remove(idx)
}

func (d *syncIdxListDelegator[T]) PopFront() (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PopFront()
}

func (d *syncIdxListDelegator[T]) PopBack() (T, error) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	return d.impl.PopBack()
}

func (d *syncIdxListDelegator[T]) Clear() {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.Clear()
}

func (d *syncIdxListDelegator[T]) Reverse() {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.Reverse()
}

func (d *syncIdxListDelegator[T]) SortStableFunc(cmp func(a, b T) int) {
	d.rwmu.Lock()
	defer d.rwmu.Unlock()
	d.impl.SortStableFunc(cmp)
}

// snapshot copies the elements under the read lock.
func (d *syncIdxListDelegator[T]) snapshot() []T {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.ToSlice()
}

func (d *syncIdxListDelegator[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for idx, v := range d.snapshot() {
			if !yield(idx, v) {
				return
			}
		}
	}
}

func (d *syncIdxListDelegator[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		values := d.snapshot()
		for idx := len(values) - 1; idx >= 0; idx-- {
			if !yield(idx, values[idx]) {
				return
			}
		}
	}
}

func (d *syncIdxListDelegator[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range d.snapshot() {
			if !yield(v) {
				return
			}
		}
	}
}

func (d *syncIdxListDelegator[T]) Foreach(fn func(idx int64, v T) bool) {
	if fn == nil {
		return
	}
	for idx, v := range d.All() {
		if !fn(int64(idx), v) {
			return
		}
	}
}

func (d *syncIdxListDelegator[T]) ReverseForeach(fn func(idx int64, v T) bool) {
	if fn == nil {
		return
	}
	for idx, v := range d.Backward() {
		if !fn(int64(idx), v) {
			return
		}
	}
}

func (d *syncIdxListDelegator[T]) IndexFunc(fn func(v T) bool) int {
	if fn == nil {
		return -1
	}
	return slices.IndexFunc(d.snapshot(), fn)
}

func (d *syncIdxListDelegator[T]) CountFunc(fn func(v T) bool) int {
	if fn == nil {
		return 0
	}
	count := 0
	for _, v := range d.snapshot() {
		if fn(v) {
			count++
		}
	}
	return count
}

func (d *syncIdxListDelegator[T]) ToSlice() []T {
	d.rwmu.RLock()
	defer d.rwmu.RUnlock()
	return d.impl.ToSlice()
}
