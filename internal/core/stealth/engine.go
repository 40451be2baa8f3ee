// Package stealth runs the per-tick detection pipeline: rebuild walls,
// compute every observer's cone, test suspicious bodies against the cones and
// let watchers react to latched alarms.
package stealth

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/events/bus"
	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/observability/log"
	"github.com/zeusync/lookout/internal/core/stealth/alarm"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
	"github.com/zeusync/lookout/internal/core/stealth/walls"
	"github.com/zeusync/lookout/pkg/concurrent"
)

// Event types published on the bus.
const (
	EventAlarmLatched  = "alarm.latched"
	EventWatcherFired  = "watcher.fired"
	EventTickCompleted = "tick.completed"
)

const eventSource = "stealth"

// Snapshot is the world state handed over by the physics side for one tick.
type Snapshot struct {
	Obstacles  []walls.Obstacle
	Suspicious []alarm.Suspicious
	// Anchors moves observers by name before their cones are computed.
	Anchors map[string]geometry.Point
}

// Latch records an observer whose code was latched during a tick.
type Latch struct {
	Observer string     `json:"observer"`
	Code     codes.Code `json:"code"`
	Tick     uint64     `json:"tick"`
}

// Report summarizes one tick.
type Report struct {
	Tick     uint64
	Walls    int
	Latched  []Latch
	Fired    []string
	Duration time.Duration
}

type Config struct {
	// Workers bounds the goroutines used per stage. Zero means NumCPU.
	Workers int
	// Horizon is how far unbounded sectors reach, in world units.
	Horizon float64
}

func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), Horizon: vision.DefaultHorizon}
}

type Option func(*Engine)

func WithLogger(l log.Log) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithBus(b bus.EventBus) Option {
	return func(e *Engine) { e.bus = b }
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.Workers > 0 {
			e.cfg.Workers = cfg.Workers
		}
		if cfg.Horizon > 0 {
			e.cfg.Horizon = cfg.Horizon
		}
	}
}

// Engine owns the observers of one level and drives them tick by tick.
// Tick calls are serialized; cone reads may happen concurrently with a tick.
type Engine struct {
	cfg    Config
	logger log.Log
	bus    bus.EventBus
	state  *codes.Registry

	tickMu    sync.Mutex
	walls     *walls.Walls
	observers []*vision.Observer
	watchers  []*codes.Watcher
	tick      uint64

	// conesMu guards writes to byName and cones; Tick reads them under tickMu.
	conesMu sync.RWMutex
	byName  map[string]int
	cones   []vision.Cone
}

func NewEngine(state *codes.Registry, opts ...Option) *Engine {
	e := &Engine{
		cfg:    DefaultConfig(),
		logger: log.NewNop(),
		state:  state,
		walls:  walls.New(),
		byName: make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("stealth")
	return e
}

func (e *Engine) Registry() *codes.Registry { return e.state }

// AddObserver registers an observer for the current level.
func (e *Engine) AddObserver(o *vision.Observer) error {
	if o == nil {
		return ErrNilObserver
	}
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if _, ok := e.byName[o.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateObserver, o.Name())
	}
	e.observers = append(e.observers, o)

	e.conesMu.Lock()
	e.byName[o.Name()] = len(e.observers) - 1
	e.cones = append(e.cones, vision.Cone{})
	e.conesMu.Unlock()
	return nil
}

// AddWatcher registers a reactor polled after every detection stage.
func (e *Engine) AddWatcher(w *codes.Watcher) {
	e.tickMu.Lock()
	e.watchers = append(e.watchers, w)
	e.tickMu.Unlock()
}

func (e *Engine) Observers() []*vision.Observer {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return append([]*vision.Observer(nil), e.observers...)
}

// Reset drops the level's observers and watchers and starts a new alarm
// session.
func (e *Engine) Reset() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	e.observers = nil
	e.watchers = nil
	e.tick = 0
	e.walls.Rebuild(nil)
	e.state.Reset()

	e.conesMu.Lock()
	e.byName = make(map[string]int)
	e.cones = nil
	e.conesMu.Unlock()
	e.logger.Info("session reset", log.String("session", e.state.Session().String()))
}

// Cone returns the named observer's cone from the last tick.
func (e *Engine) Cone(name string) (vision.Cone, bool) {
	e.conesMu.RLock()
	defer e.conesMu.RUnlock()
	i, ok := e.indexOf(name)
	if !ok || i >= len(e.cones) {
		return vision.Cone{}, false
	}
	return e.cones[i], true
}

// Cones returns every observer's cone from the last tick keyed by name.
func (e *Engine) Cones() map[string]vision.Cone {
	e.conesMu.RLock()
	defer e.conesMu.RUnlock()
	out := make(map[string]vision.Cone, len(e.cones))
	for name, i := range e.byName {
		if i < len(e.cones) {
			out[name] = e.cones[i]
		}
	}
	return out
}

func (e *Engine) indexOf(name string) (int, bool) {
	i, ok := e.byName[name]
	return i, ok
}

// Tick runs one full pass of the pipeline against snap.
func (e *Engine) Tick(snap Snapshot) (Report, error) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	start := time.Now()
	e.tick++
	report := Report{Tick: e.tick}

	for name, anchor := range snap.Anchors {
		i, ok := e.byName[name]
		if !ok {
			e.logger.Warn("anchor for unknown observer", log.String("observer", name))
			continue
		}
		e.observers[i].Shift(anchor)
	}

	e.walls.Rebuild(snap.Obstacles)
	segments := e.walls.Segments()
	report.Walls = len(segments)

	cones := concurrent.Map(e.observers, e.cfg.Workers, func(o *vision.Observer) vision.Cone {
		return vision.Compute(o, segments, e.cfg.Horizon)
	})
	e.conesMu.Lock()
	e.cones = cones
	e.conesMu.Unlock()

	latched := make([]bool, len(e.observers))
	err := concurrent.ForEach(e.observers, e.cfg.Workers, func(i int, o *vision.Observer) error {
		latched[i] = alarm.Detect(o, cones[i], snap.Suspicious, e.state)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("detect: %w", err)
	}

	var errs error
	for i, ok := range latched {
		if !ok {
			continue
		}
		o := e.observers[i]
		l := Latch{Observer: o.Name(), Code: o.Code(), Tick: e.tick}
		report.Latched = append(report.Latched, l)
		e.logger.Info("alarm latched",
			log.String("observer", l.Observer),
			log.Uint64("code", uint64(l.Code)),
			log.Uint64("tick", l.Tick),
		)
		errs = errors.Join(errs, e.publish(EventAlarmLatched, l))
	}

	// reactors only run once every detection pass has finished
	for _, w := range e.watchers {
		if !w.Poll(e.state) {
			continue
		}
		report.Fired = append(report.Fired, w.Name)
		e.logger.Info("watcher fired",
			log.String("watcher", w.Name),
			log.Uint64("code", uint64(w.Code)),
			log.Bool("consume", w.Consume),
		)
		errs = errors.Join(errs, e.publish(EventWatcherFired, w.Name))
	}

	report.Duration = time.Since(start)
	if e.logger.Enabled(log.LevelDebug) {
		e.logger.Debug("tick",
			log.Uint64("tick", report.Tick),
			log.Int("walls", report.Walls),
			log.Int("observers", len(e.observers)),
			log.Int("suspicious", len(snap.Suspicious)),
			log.Duration("took", report.Duration),
		)
	}

	if e.bus != nil {
		errs = errors.Join(errs, e.publish(EventTickCompleted, e.frame(report, cones)))
	}
	if errs != nil {
		return report, fmt.Errorf("tick %d handlers: %w", report.Tick, errs)
	}
	return report, nil
}

func (e *Engine) publish(eventType string, data any) error {
	if e.bus == nil {
		return nil
	}
	return e.bus.Publish(bus.NewEvent(eventType, eventSource, data))
}
