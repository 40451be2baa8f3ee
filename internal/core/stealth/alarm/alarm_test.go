package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
	"github.com/zeusync/lookout/internal/core/stealth/walls"
)

type fixture struct {
	observer *vision.Observer
	cone     vision.Cone
	state    *codes.Registry
	player   codes.Code
}

func newFixture(t *testing.T, opts ...codes.Option) fixture {
	t.Helper()
	state := codes.NewRegistry(opts...)
	camera := state.GetOrCreate("camera")
	player := state.GetOrCreate("player")

	o, err := vision.NewObserver("camera", geometry.Pt(600, 200), geometry.Point{}, geometry.Pt(-1, 1), geometry.Pt(-3, 1), camera)
	require.NoError(t, err)

	wall, err := walls.NewObstacle(walls.Static, geometry.Rect{X: 500, Y: 150, Width: 50, Height: 100})
	require.NoError(t, err)
	w := walls.New()
	w.Rebuild([]walls.Obstacle{wall})

	return fixture{
		observer: o,
		cone:     vision.Compute(o, w.Segments(), vision.DefaultHorizon),
		state:    state,
		player:   player,
	}
}

func TestDetect(t *testing.T) {
	t.Run("EnclosedLatches", func(t *testing.T) {
		f := newFixture(t)
		body := Suspicious{Code: f.player, Body: geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}}

		require.True(t, Detect(f.observer, f.cone, []Suspicious{body}, f.state))
		require.True(t, f.state.Contains(f.observer.Code()))
		require.False(t, f.state.Contains(f.player))
	})

	t.Run("AlreadyLatchedSkips", func(t *testing.T) {
		f := newFixture(t)
		body := Suspicious{Code: f.player, Body: geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}}
		f.state.Insert(f.observer.Code())

		require.False(t, Detect(f.observer, f.cone, []Suspicious{body}, f.state))
		require.True(t, f.state.Contains(f.observer.Code()))
	})

	t.Run("DisjointNeverLatches", func(t *testing.T) {
		f := newFixture(t)
		bodies := []Suspicious{
			{Code: f.player, Body: geometry.Rect{X: 700, Y: 200, Width: 10, Height: 10}},
			{Code: f.player, Body: geometry.Rect{X: 520, Y: 180, Width: 10, Height: 10}},
		}
		for tick := 0; tick < 100; tick++ {
			require.False(t, Detect(f.observer, f.cone, bodies, f.state))
		}
		require.Empty(t, f.state.Active())
	})

	t.Run("OccludedByWall", func(t *testing.T) {
		f := newFixture(t)
		hidden := Suspicious{Code: f.player, Body: geometry.Rect{X: 470, Y: 240, Width: 10, Height: 10}}
		require.False(t, Detect(f.observer, f.cone, []Suspicious{hidden}, f.state))

		open := vision.Compute(f.observer, nil, vision.DefaultHorizon)
		require.True(t, Detect(f.observer, open, []Suspicious{hidden}, f.state))
	})

	t.Run("InteractionGates", func(t *testing.T) {
		f := newFixture(t, codes.WithInteraction(func(passive, active codes.Code) bool { return false }))
		body := Suspicious{Code: f.player, Body: geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}}

		for tick := 0; tick < 10; tick++ {
			require.False(t, Detect(f.observer, f.cone, []Suspicious{body}, f.state))
		}
		require.False(t, f.state.Contains(f.observer.Code()))
	})

	t.Run("InteractionSelectsBody", func(t *testing.T) {
		f := newFixture(t, codes.WithInteraction(func(passive, active codes.Code) bool { return passive != 99 }))
		bodies := []Suspicious{
			{Code: 99, Body: geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}},
		}
		require.False(t, Detect(f.observer, f.cone, bodies, f.state))

		bodies = append(bodies, Suspicious{Code: f.player, Body: geometry.Rect{X: 565, Y: 220, Width: 4, Height: 4}})
		require.True(t, Detect(f.observer, f.cone, bodies, f.state))
	})

	t.Run("EmptyCone", func(t *testing.T) {
		f := newFixture(t)
		body := Suspicious{Code: f.player, Body: geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}}
		require.False(t, Detect(f.observer, vision.Cone{}, []Suspicious{body}, f.state))
	})
}

func TestSpotted(t *testing.T) {
	f := newFixture(t)
	require.True(t, Spotted(f.cone, geometry.Rect{X: 560, Y: 215, Width: 10, Height: 10}))
	require.True(t, Spotted(f.cone, geometry.Rect{X: 540, Y: 200, Width: 30, Height: 30}))
	require.False(t, Spotted(f.cone, geometry.Rect{X: 610, Y: 190, Width: 5, Height: 5}))
	// shares only the observer's corner with the cone
	require.False(t, Spotted(f.cone, geometry.Rect{X: 600, Y: 190, Width: 10, Height: 10}))
}

func TestSpotted_MatchesSAT(t *testing.T) {
	f := newFixture(t)
	for x := 520.0; x <= 620; x += 7 {
		for y := 170.0; y <= 270; y += 7 {
			body := geometry.Rect{X: x, Y: y, Width: 10, Height: 10}
			var want bool
			for _, s := range f.cone.Sectors {
				want = want || geometry.SAT(s.Triangle.Polygon(), body.Polygon())
			}
			require.Equal(t, want, Spotted(f.cone, body), "body %+v", body)
		}
	}
}
