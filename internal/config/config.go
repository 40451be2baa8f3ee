// Package config loads scenario files: engine settings plus the obstacles,
// observers and suspicious bodies of one level.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/observability/log"
	"github.com/zeusync/lookout/internal/core/stealth"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
)

const (
	DefaultStep     = 16 * time.Millisecond
	DefaultFeedPath = "/feed"
)

type Config struct {
	Engine Engine `yaml:"engine"`
	Feed   Feed   `yaml:"feed"`
	Level  Level  `yaml:"level"`
}

type Engine struct {
	Step     time.Duration `yaml:"step"`
	Workers  int           `yaml:"workers"`
	Horizon  float64       `yaml:"horizon"`
	LogLevel string        `yaml:"log_level"`
	// Ticks stops the run after that many ticks. Zero runs until interrupted.
	Ticks uint64 `yaml:"ticks"`
}

// Feed configures the debug overlay feed. An empty Addr disables it.
type Feed struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

type Level struct {
	Obstacles  []Obstacle   `yaml:"obstacles"`
	Observers  []Observer   `yaml:"observers"`
	Suspicious []Suspicious `yaml:"suspicious"`
	Watchers   []Watcher    `yaml:"watchers"`
}

// Obstacle is a static wall or a one-way platform. A non-zero velocity makes
// it a moving platform, in world units per tick.
type Obstacle struct {
	Kind     string         `yaml:"kind"`
	Rect     geometry.Rect  `yaml:"rect"`
	Velocity geometry.Point `yaml:"velocity"`
}

// Observer is a camera or guard. Its anchor patrols at Velocity per tick.
type Observer struct {
	Name     string         `yaml:"name"`
	Anchor   geometry.Point `yaml:"anchor"`
	Offset   geometry.Point `yaml:"offset"`
	Lower    geometry.Point `yaml:"lower"`
	Upper    geometry.Point `yaml:"upper"`
	Alarm    string         `yaml:"alarm"`
	Velocity geometry.Point `yaml:"velocity"`
}

type Suspicious struct {
	Alarm    string         `yaml:"alarm"`
	Body     geometry.Rect  `yaml:"body"`
	Velocity geometry.Point `yaml:"velocity"`
}

// Watcher reacts to an alarm. Consume clears the alarm every time it fires.
type Watcher struct {
	Name    string `yaml:"name"`
	Alarm   string `yaml:"alarm"`
	Consume bool   `yaml:"consume"`
}

// LoadYAML decodes a scenario, rejecting unknown keys, and applies defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Step == 0 {
		c.Engine.Step = DefaultStep
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = runtime.NumCPU()
	}
	if c.Engine.Horizon == 0 {
		c.Engine.Horizon = vision.DefaultHorizon
	}
	if c.Engine.LogLevel == "" {
		c.Engine.LogLevel = log.LevelInfo.String()
	}
	if c.Feed.Path == "" {
		c.Feed.Path = DefaultFeedPath
	}
}

// Validate checks engine settings. Level entries are checked by Build.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Step < 0:
		return ErrInvalidStep
	case c.Engine.Workers < 0:
		return ErrNegativeWorkers
	case c.Engine.Horizon < 0:
		return ErrNegativeHorizon
	}
	if _, err := log.ParseLevel(c.Engine.LogLevel); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func (c *Config) LogLevel() log.Level {
	l, _ := log.ParseLevel(c.Engine.LogLevel)
	return l
}

// EngineConfig returns the pipeline settings.
func (c *Config) EngineConfig() stealth.Config {
	return stealth.Config{Workers: c.Engine.Workers, Horizon: c.Engine.Horizon}
}
