package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	t.Run("VisitsEveryIndex", func(t *testing.T) {
		items := make([]int, 100)
		for i := range items {
			items[i] = i * 2
		}
		out := make([]int, len(items))
		err := ForEach(items, 4, func(i int, v int) error {
			out[i] = v + 1
			return nil
		})
		require.NoError(t, err)
		for i := range items {
			require.Equal(t, i*2+1, out[i])
		}
	})

	t.Run("ReturnsError", func(t *testing.T) {
		boom := errors.New("boom")
		var calls atomic.Int32
		err := ForEach([]int{1, 2, 3}, 0, func(_ int, v int) error {
			calls.Add(1)
			if v == 2 {
				return boom
			}
			return nil
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("Sequential", func(t *testing.T) {
		var order []int
		err := ForEach([]int{5, 6, 7}, 1, func(i int, _ int) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("Empty", func(t *testing.T) {
		require.NoError(t, ForEach[int](nil, 4, func(int, int) error { return errors.New("never") }))
	})
}

func TestMap(t *testing.T) {
	squares := Map([]int{1, 2, 3, 4}, 2, func(v int) int { return v * v })
	require.Equal(t, []int{1, 4, 9, 16}, squares)
	require.Empty(t, Map[int, int](nil, 2, func(v int) int { return v }))
}
