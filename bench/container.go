package bench

import (
	"fmt"
	"slices"

	"github.com/benz9527/vectorish/lib/list"
)

// container is the positional surface the workloads drive.
// list.IndexedList satisfies it as is.
type container interface {
	Len() int
	Get(idx int) (int64, error)
	Insert(idx int, v int64)
	PushFront(v int64)
	PushBack(v int64)
	Remove(idx int) (int64, error)
	PopFront() (int64, error)
	ToSlice() []int64
}

var (
	_ container = (list.IndexedList[int64])(nil)
	_ container = (*sliceList)(nil)
)

// newContainer pre-fills the container with 0..size-1.
func newContainer(impl Impl, size int, seed uint64) (container, error) {
	values := make([]int64, size)
	for i := range values {
		values[i] = int64(i)
	}
	switch impl {
	case ImplSkipList, ImplSyncSkipList:
		skl, err := list.FromSlice(values,
			list.WithXIdxSklRandSeed(seed, uint64(size)),
			list.WithXIdxSklCapacity(2*size),
		)
		if err != nil {
			return nil, err
		}
		if impl == ImplSyncSkipList {
			return list.NewSyncIdxList[int64](skl), nil
		}
		return skl, nil
	case ImplSlice:
		return &sliceList{values: values}, nil
	}
	return nil, fmt.Errorf("%w: unknown implementation %q", ErrInvalidConfig, impl)
}

// sliceList is the baseline, a plain slice shifting on every
// insertion and removal.
type sliceList struct {
	values []int64
}

func (l *sliceList) Len() int {
	return len(l.values)
}

func (l *sliceList) Get(idx int) (int64, error) {
	if idx < 0 || idx >= len(l.values) {
		return 0, list.ErrXIdxSklIndexOutOfRange
	}
	return l.values[idx], nil
}

func (l *sliceList) Insert(idx int, v int64) {
	idx = min(max(idx, 0), len(l.values))
	l.values = slices.Insert(l.values, idx, v)
}

func (l *sliceList) PushFront(v int64) {
	l.Insert(0, v)
}

func (l *sliceList) PushBack(v int64) {
	l.values = append(l.values, v)
}

func (l *sliceList) Remove(idx int) (int64, error) {
	if idx < 0 || idx >= len(l.values) {
		return 0, list.ErrXIdxSklIndexOutOfRange
	}
	v := l.values[idx]
	l.values = slices.Delete(l.values, idx, idx+1)
	return v, nil
}

func (l *sliceList) PopFront() (int64, error) {
	if len(l.values) == 0 {
		return 0, list.ErrXIdxSklPopFromEmpty
	}
	return l.Remove(0)
}

func (l *sliceList) ToSlice() []int64 {
	return slices.Clone(l.values)
}
