package list

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXIdxSkl_Iterators(t *testing.T) {
	skl, err := FromSlice([]string{"a", "b", "c", "d"}, WithXIdxSklRandSeed(3, 4))
	require.NoError(t, err)

	indices, values := make([]int, 0, 4), make([]string, 0, 4)
	for idx, v := range skl.All() {
		indices = append(indices, idx)
		values = append(values, v)
	}
	require.Equal(t, []int{0, 1, 2, 3}, indices)
	require.Equal(t, []string{"a", "b", "c", "d"}, values)

	indices, values = indices[:0], values[:0]
	for idx, v := range skl.Backward() {
		indices = append(indices, idx)
		values = append(values, v)
	}
	require.Equal(t, []int{3, 2, 1, 0}, indices)
	require.Equal(t, []string{"d", "c", "b", "a"}, values)

	// Restartable.
	require.Equal(t, []string{"a", "b", "c", "d"}, slices.Collect(skl.Values()))
	require.Equal(t, []string{"a", "b", "c", "d"}, slices.Collect(skl.Values()))

	// Early stop.
	values = values[:0]
	for v := range skl.Values() {
		if v == "c" {
			break
		}
		values = append(values, v)
	}
	require.Equal(t, []string{"a", "b"}, values)
}

func TestXIdxSkl_Foreach(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.AppendValues(5, 6, 7, 8, 9)

	var visited []int64
	skl.Foreach(func(idx int64, v int) bool {
		visited = append(visited, idx)
		return v < 7
	})
	require.Equal(t, []int64{0, 1, 2}, visited)

	visited = visited[:0]
	skl.ReverseForeach(func(idx int64, v int) bool {
		visited = append(visited, idx)
		return true
	})
	require.Equal(t, []int64{4, 3, 2, 1, 0}, visited)

	skl.Foreach(nil)
	skl.ReverseForeach(nil)
}

func TestXIdxSkl_IndexAndCountFunc(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.AppendValues(1, 2, 3, 2, 1)

	require.Equal(t, 1, skl.IndexFunc(func(v int) bool { return v == 2 }))
	require.Equal(t, -1, skl.IndexFunc(func(v int) bool { return v == 42 }))
	require.Equal(t, -1, skl.IndexFunc(nil))
	require.Equal(t, 2, skl.CountFunc(func(v int) bool { return v == 1 }))
	require.Equal(t, 0, skl.CountFunc(func(v int) bool { return v > 3 }))
	require.Equal(t, 0, skl.CountFunc(nil))
}

func TestXIdxSkl_MutationDuringIteration(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.AppendValues(1, 2, 3)

	require.PanicsWithValue(t, ErrXIdxSklConcurrentModification, func() {
		for idx := range skl.All() {
			if idx == 1 {
				skl.PushBack(4)
			}
		}
	})
	require.PanicsWithValue(t, ErrXIdxSklConcurrentModification, func() {
		for idx := range skl.Backward() {
			if idx == 2 {
				_, _ = skl.Remove(0)
			}
		}
	})
	require.PanicsWithValue(t, ErrXIdxSklConcurrentModification, func() {
		skl.Foreach(func(idx int64, v int) bool {
			skl.Clear()
			return true
		})
	})

	// Replacing an element is not a structural change.
	skl.AppendValues(1, 2, 3)
	require.NotPanics(t, func() {
		for idx, v := range skl.All() {
			_, _ = skl.Set(idx, v*10)
		}
	})
	require.Equal(t, []int{10, 20, 30}, skl.ToSlice())

	// Stopping right after a mutation does not panic.
	require.NotPanics(t, func() {
		for range skl.All() {
			skl.PushBack(0)
			break
		}
	})
}
