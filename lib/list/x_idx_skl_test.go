package list

import (
	"errors"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestXIdxSkl[T any](t testing.TB, opts ...XIdxSklOption) *XIdxSkl[T] {
	skl, err := NewXIdxSkl[T](append([]XIdxSklOption{WithXIdxSklRandSeed(1, 2)}, opts...)...)
	require.NoError(t, err)
	return skl
}

func TestXIdxSkl_Scenario(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.PushBack(1)
	skl.PushBack(2)
	skl.PushFront(0)
	require.Equal(t, []int{0, 1, 2}, skl.ToSlice())
	require.NoError(t, skl.Validate())

	v, err := skl.Remove(1)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, []int{0, 2}, skl.ToSlice())
	require.NoError(t, skl.Validate())

	skl.Insert(5, 9)
	require.Equal(t, []int{0, 2, 9}, skl.ToSlice())
	require.NoError(t, skl.Validate())

	skl.Reverse()
	require.Equal(t, []int{9, 2, 0}, skl.ToSlice())
	require.Equal(t, 3, skl.Len())
	require.NoError(t, skl.Validate())
}

func TestXIdxSkl_ZeroValue(t *testing.T) {
	var skl XIdxSkl[string]
	require.Equal(t, 0, skl.Len())
	require.Equal(t, int32(1), skl.Levels())
	require.NoError(t, skl.Validate())
	require.Empty(t, skl.ToSlice())

	_, err := skl.Get(0)
	require.ErrorIs(t, err, ErrXIdxSklIndexOutOfRange)
	_, err = skl.PopBack()
	require.ErrorIs(t, err, ErrXIdxSklPopFromEmpty)
	_, err = skl.Front()
	require.ErrorIs(t, err, ErrXIdxSklIsEmpty)

	skl.PushBack("a")
	skl.Insert(0, "b")
	require.Equal(t, []string{"b", "a"}, skl.ToSlice())
	require.NoError(t, skl.Validate())

	var cleared XIdxSkl[string]
	cleared.Clear()
	require.Equal(t, 0, cleared.Len())
	require.NoError(t, cleared.Validate())
}

func TestXIdxSkl_Options(t *testing.T) {
	testcases := []struct {
		name    string
		opt     XIdxSklOption
		wantErr bool
	}{
		{"probability 1/2", WithXIdxSklProbability(0.5), false},
		{"probability zero", WithXIdxSklProbability(0), true},
		{"probability one", WithXIdxSklProbability(1), true},
		{"expected max size", WithXIdxSklExpectedMaxSize(1024), false},
		{"expected max size zero", WithXIdxSklExpectedMaxSize(0), true},
		{"expected max size overflow", WithXIdxSklExpectedMaxSize(XIdxSklMaxSize + 1), true},
		{"capacity", WithXIdxSklCapacity(64), false},
		{"negative capacity", WithXIdxSklCapacity(-1), true},
		{"nil option", nil, false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			skl, err := NewXIdxSkl[int](tc.opt)
			if tc.wantErr {
				require.Error(tt, err)
				require.True(tt, errors.Is(err, ErrXIdxSklInvalidOption))
				require.Nil(tt, skl)
				return
			}
			require.NoError(tt, err)
			skl.AppendValues(1, 2, 3)
			require.Equal(tt, []int{1, 2, 3}, skl.ToSlice())
			require.NoError(tt, skl.Validate())
		})
	}
}

func TestXIdxSkl_Boundaries(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.AppendValues(10, 20, 30)

	for _, idx := range []int{-1, 3, 100} {
		_, err := skl.Get(idx)
		require.ErrorIs(t, err, ErrXIdxSklIndexOutOfRange)
		_, err = skl.Set(idx, 0)
		require.ErrorIs(t, err, ErrXIdxSklIndexOutOfRange)
		err = skl.Update(idx, func(v *int) { *v = 0 })
		require.ErrorIs(t, err, ErrXIdxSklIndexOutOfRange)
		_, err = skl.Remove(idx)
		require.ErrorIs(t, err, ErrXIdxSklIndexOutOfRange)
	}
	require.Equal(t, []int{10, 20, 30}, skl.ToSlice())

	// Insert clamps.
	skl.Insert(-5, 0)
	skl.Insert(skl.Len()+10, 40)
	require.Equal(t, []int{0, 10, 20, 30, 40}, skl.ToSlice())
	require.NoError(t, skl.Validate())

	front, err := skl.Front()
	require.NoError(t, err)
	require.Equal(t, 0, front)
	back, err := skl.Back()
	require.NoError(t, err)
	require.Equal(t, 40, back)

	for skl.Len() > 0 {
		_, err = skl.PopFront()
		require.NoError(t, err)
		require.NoError(t, skl.Validate())
	}
	_, err = skl.PopFront()
	require.ErrorIs(t, err, ErrXIdxSklPopFromEmpty)
	_, err = skl.PopBack()
	require.ErrorIs(t, err, ErrXIdxSklPopFromEmpty)
	_, err = skl.Back()
	require.ErrorIs(t, err, ErrXIdxSklIsEmpty)
	require.Equal(t, int32(1), skl.Levels())
}

func TestXIdxSkl_SetUpdate(t *testing.T) {
	type item struct {
		id    int
		count int
	}
	skl := newTestXIdxSkl[item](t)
	for i := 0; i < 100; i++ {
		skl.PushBack(item{id: i})
	}
	for i := 0; i < 100; i++ {
		old, err := skl.Set(i, item{id: i * 2})
		require.NoError(t, err)
		require.Equal(t, i, old.id)
		require.NoError(t, skl.Update(i, func(v *item) { v.count++ }))
	}
	require.NoError(t, skl.Update(0, nil))
	for i := 0; i < 100; i++ {
		v, err := skl.Get(i)
		require.NoError(t, err)
		require.Equal(t, item{id: i * 2, count: 1}, v)
	}
}

func TestXIdxSkl_OrderPreservation(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	for i := 0; i < 500; i++ {
		skl.PushBack(i)
	}
	for i := -1; i >= -500; i-- {
		skl.PushFront(i)
	}
	require.Equal(t, 1000, skl.Len())
	require.NoError(t, skl.Validate())
	for i := 0; i < skl.Len(); i++ {
		v, err := skl.Get(i)
		require.NoError(t, err)
		require.Equal(t, i-500, v)
	}
}

func TestXIdxSkl_ReverseInvolution(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 1000} {
		skl := newTestXIdxSkl[int](t)
		for i := 0; i < n; i++ {
			skl.PushBack(i)
		}
		expected := skl.ToSlice()
		skl.Reverse()
		require.NoError(t, skl.Validate())
		reversed := slices.Clone(expected)
		slices.Reverse(reversed)
		require.Equal(t, reversed, skl.ToSlice())
		skl.Reverse()
		require.NoError(t, skl.Validate())
		require.Equal(t, expected, skl.ToSlice())
	}
}

func TestXIdxSkl_ClearAndReuse(t *testing.T) {
	skl := newTestXIdxSkl[int](t)
	skl.AppendValues(1, 2, 3, 4, 5)
	_, err := skl.Remove(2)
	require.NoError(t, err)
	skl.Clear()
	require.Equal(t, 0, skl.Len())
	require.Equal(t, int32(1), skl.Levels())
	require.NoError(t, skl.Validate())

	skl.PushBack(6)
	skl.PushFront(5)
	require.Equal(t, []int{5, 6}, skl.ToSlice())
	require.NoError(t, skl.Validate())
}

// TestXIdxSkl_RandomOpsAgainstSlice replays a random operation sequence on
// the list and on a plain slice and compares both after every step.
func TestXIdxSkl_RandomOpsAgainstSlice(t *testing.T) {
	testcases := []struct {
		name string
		p    float64
		seed uint64
		ops  int
	}{
		{"p=1/4", 0.25, 1, 3000},
		{"p=1/2", 0.5, 2, 3000},
		{"p=1/8", 0.125, 3, 2000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			skl := newTestXIdxSkl[int](tt, WithXIdxSklProbability(tc.p))
			model := make([]int, 0, 256)
			r := randv2.New(randv2.NewPCG(tc.seed, tc.seed+1))
			next := 0

			for op := 0; op < tc.ops; op++ {
				n := len(model)
				switch kind := r.IntN(100); {
				case kind < 30:
					idx := r.IntN(n+5) - 2
					skl.Insert(idx, next)
					idx = min(max(idx, 0), n)
					model = slices.Insert(model, idx, next)
					next++
				case kind < 40:
					skl.PushBack(next)
					model = append(model, next)
					next++
				case kind < 48:
					skl.PushFront(next)
					model = slices.Insert(model, 0, next)
					next++
				case kind < 70:
					idx := r.IntN(n+2) - 1
					v, err := skl.Remove(idx)
					if idx < 0 || idx >= n {
						require.ErrorIs(tt, err, ErrXIdxSklIndexOutOfRange)
						break
					}
					require.NoError(tt, err)
					require.Equal(tt, model[idx], v)
					model = slices.Delete(model, idx, idx+1)
				case kind < 76:
					v, err := skl.PopFront()
					if n == 0 {
						require.ErrorIs(tt, err, ErrXIdxSklPopFromEmpty)
						break
					}
					require.NoError(tt, err)
					require.Equal(tt, model[0], v)
					model = model[1:]
				case kind < 82:
					v, err := skl.PopBack()
					if n == 0 {
						require.ErrorIs(tt, err, ErrXIdxSklPopFromEmpty)
						break
					}
					require.NoError(tt, err)
					require.Equal(tt, model[n-1], v)
					model = model[:n-1]
				case kind < 90:
					if n == 0 {
						break
					}
					idx := r.IntN(n)
					got, err := skl.Get(idx)
					require.NoError(tt, err)
					require.Equal(tt, model[idx], got)
					old, err := skl.Set(idx, -got)
					require.NoError(tt, err)
					require.Equal(tt, got, old)
					model[idx] = -got
				case kind < 96:
					vs := []int{next, next + 1, next + 2}
					next += 3
					skl.AppendValues(vs...)
					model = append(model, vs...)
				case kind < 99:
					skl.Reverse()
					slices.Reverse(model)
				default:
					skl.Clear()
					model = model[:0]
				}

				require.Equal(tt, len(model), skl.Len())
				require.NoError(tt, skl.Validate())
				if op%16 == 0 {
					assert.Equal(tt, model, skl.ToSlice())
				}
			}
			require.Equal(tt, model, skl.ToSlice())
		})
	}
}

func BenchmarkXIdxSkl_PushBack(b *testing.B) {
	skl := newTestXIdxSkl[int](b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		skl.PushBack(i)
	}
}

func BenchmarkXIdxSkl_RandomInsert(b *testing.B) {
	skl := newTestXIdxSkl[int](b)
	r := randv2.New(randv2.NewPCG(1, 2))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		skl.Insert(r.IntN(skl.Len()+1), i)
	}
}

func BenchmarkXIdxSkl_RandomGet(b *testing.B) {
	skl, err := FromSlice(make([]int, 100_000), WithXIdxSklRandSeed(1, 2))
	require.NoError(b, err)
	r := randv2.New(randv2.NewPCG(1, 2))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = skl.Get(r.IntN(100_000))
	}
}
