package walls

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/lookout/internal/core/geometry"
)

func mustObstacle(t *testing.T, kind Kind, rect geometry.Rect) Obstacle {
	t.Helper()
	o, err := NewObstacle(kind, rect)
	require.NoError(t, err)
	return o
}

func TestWalls_Rebuild(t *testing.T) {
	t.Run("Static", func(t *testing.T) {
		w := New()
		w.Rebuild([]Obstacle{mustObstacle(t, Static, geometry.Rect{X: 500, Y: 150, Width: 50, Height: 100})})

		segs := w.Segments()
		require.Len(t, segs, 4)

		// top, right, bottom, left
		expected := [][2]geometry.Point{
			{geometry.Pt(500, 150), geometry.Pt(550, 150)},
			{geometry.Pt(550, 150), geometry.Pt(550, 250)},
			{geometry.Pt(550, 250), geometry.Pt(500, 250)},
			{geometry.Pt(500, 250), geometry.Pt(500, 150)},
		}
		for i, e := range expected {
			require.Equal(t, e[0], segs[i].Start(), "segment %d", i)
			require.Equal(t, e[1], segs[i].End(), "segment %d", i)
		}
	})

	t.Run("OneWay", func(t *testing.T) {
		w := New()
		w.Rebuild([]Obstacle{mustObstacle(t, OneWay, geometry.Rect{X: 10, Y: 20, Width: 30, Height: 5})})

		require.Equal(t, 1, w.Len())
		require.Equal(t, geometry.Pt(10, 20), w.Segments()[0].Start())
		require.Equal(t, geometry.Pt(40, 20), w.Segments()[0].End())
	})

	t.Run("Mixed", func(t *testing.T) {
		w := New()
		w.Rebuild([]Obstacle{
			mustObstacle(t, OneWay, geometry.Rect{X: 0, Y: 0, Width: 1, Height: 1}),
			mustObstacle(t, Static, geometry.Rect{X: 5, Y: 5, Width: 1, Height: 1}),
			mustObstacle(t, Static, geometry.Rect{X: 9, Y: 9, Width: 1, Height: 1}),
		})
		require.Equal(t, 9, w.Len())
	})

	t.Run("ReplacesPreviousTick", func(t *testing.T) {
		w := New()
		w.Rebuild([]Obstacle{mustObstacle(t, Static, geometry.Rect{X: 0, Y: 0, Width: 1, Height: 1})})
		require.Equal(t, 4, w.Len())

		w.Rebuild(nil)
		require.Equal(t, 0, w.Len())
		require.Empty(t, w.Segments())
	})
}

func TestNewObstacle(t *testing.T) {
	_, err := NewObstacle(Static, geometry.Rect{X: 0, Y: 0, Width: 0, Height: 10})
	require.ErrorIs(t, err, ErrEmptyObstacle)

	_, err = NewObstacle(OneWay, geometry.Rect{X: 0, Y: 0, Width: 10, Height: -1})
	require.ErrorIs(t, err, ErrEmptyObstacle)

	_, err = NewObstacle(Kind(7), geometry.Rect{Width: 1, Height: 1})
	require.ErrorIs(t, err, ErrUnknownKind)

	o := mustObstacle(t, Static, geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	moved := o.MoveTo(geometry.Pt(10, 20))
	require.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 3, Height: 4}, moved.Rect())
	require.Equal(t, geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}, o.Rect())
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"static": Static, "": Static, "oneway": OneWay, "one-way": OneWay} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseKind("slanted")
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Equal(t, "oneway", OneWay.String())
}
