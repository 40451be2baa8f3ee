package config

import (
	"fmt"

	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/stealth"
	"github.com/zeusync/lookout/internal/core/stealth/alarm"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
	"github.com/zeusync/lookout/internal/core/stealth/walls"
)

type moving[T any] struct {
	value    T
	velocity geometry.Point
}

// Scene is a built level. It replays scripted motion and implements
// stealth.Source: the state at tick n is the initial state advanced by n-1
// steps of every velocity.
type Scene struct {
	Observers []*vision.Observer
	Watchers  []*codes.Watcher

	obstacles []moving[walls.Obstacle]
	bodies    []moving[alarm.Suspicious]
	patrols   map[string]moving[geometry.Point]
	ticks     uint64
}

var _ stealth.Source = (*Scene)(nil)

// Build validates every level entry and resolves alarm names through reg.
func (c *Config) Build(reg *codes.Registry) (*Scene, error) {
	s := &Scene{
		patrols: make(map[string]moving[geometry.Point]),
		ticks:   c.Engine.Ticks,
	}

	for i, oc := range c.Level.Obstacles {
		kind, err := walls.ParseKind(oc.Kind)
		if err != nil {
			return nil, fmt.Errorf("obstacle[%d]: %w", i, err)
		}
		o, err := walls.NewObstacle(kind, oc.Rect)
		if err != nil {
			return nil, fmt.Errorf("obstacle[%d]: %w", i, err)
		}
		s.obstacles = append(s.obstacles, moving[walls.Obstacle]{value: o, velocity: oc.Velocity})
	}

	for i, oc := range c.Level.Observers {
		if oc.Name == "" {
			return nil, fmt.Errorf("observer[%d]: %w", i, ErrMissingName)
		}
		if oc.Alarm == "" {
			return nil, fmt.Errorf("observer %q: %w", oc.Name, ErrMissingAlarm)
		}
		o, err := vision.NewObserver(oc.Name, oc.Anchor, oc.Offset, oc.Lower, oc.Upper, reg.GetOrCreate(oc.Alarm))
		if err != nil {
			return nil, err
		}
		s.Observers = append(s.Observers, o)
		if !oc.Velocity.IsZero() {
			s.patrols[oc.Name] = moving[geometry.Point]{value: oc.Anchor, velocity: oc.Velocity}
		}
	}

	for i, sc := range c.Level.Suspicious {
		if sc.Alarm == "" {
			return nil, fmt.Errorf("suspicious[%d]: %w", i, ErrMissingAlarm)
		}
		s.bodies = append(s.bodies, moving[alarm.Suspicious]{
			value:    alarm.Suspicious{Code: reg.GetOrCreate(sc.Alarm), Body: sc.Body},
			velocity: sc.Velocity,
		})
	}

	for i, wc := range c.Level.Watchers {
		if wc.Name == "" {
			return nil, fmt.Errorf("watcher[%d]: %w", i, ErrMissingName)
		}
		if wc.Alarm == "" {
			return nil, fmt.Errorf("watcher %q: %w", wc.Name, ErrMissingAlarm)
		}
		code := reg.GetOrCreate(wc.Alarm)
		w := codes.NewWatcher(wc.Name, code)
		if wc.Consume {
			w = codes.NewConsumeWatcher(wc.Name, code)
		}
		s.Watchers = append(s.Watchers, w)
	}
	return s, nil
}

// Install registers the scene's observers and watchers with e.
func (s *Scene) Install(e *stealth.Engine) error {
	for _, o := range s.Observers {
		if err := e.AddObserver(o); err != nil {
			return err
		}
	}
	for _, w := range s.Watchers {
		e.AddWatcher(w)
	}
	return nil
}

func (s *Scene) Snapshot(tick uint64) (stealth.Snapshot, bool) {
	if tick == 0 || (s.ticks > 0 && tick > s.ticks) {
		return stealth.Snapshot{}, false
	}
	steps := float64(tick - 1)

	snap := stealth.Snapshot{
		Obstacles:  make([]walls.Obstacle, len(s.obstacles)),
		Suspicious: make([]alarm.Suspicious, len(s.bodies)),
	}
	for i, m := range s.obstacles {
		r := m.value.Rect().Translate(m.velocity.Scale(steps))
		snap.Obstacles[i] = m.value.MoveTo(geometry.Pt(r.X, r.Y))
	}
	for i, m := range s.bodies {
		b := m.value
		b.Body = b.Body.Translate(m.velocity.Scale(steps))
		snap.Suspicious[i] = b
	}
	if len(s.patrols) > 0 {
		snap.Anchors = make(map[string]geometry.Point, len(s.patrols))
		for name, m := range s.patrols {
			snap.Anchors[name] = m.value.Add(m.velocity.Scale(steps))
		}
	}
	return snap, true
}
