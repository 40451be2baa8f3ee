// Package injector assembles the application graph from a loaded scenario.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/lookout/internal/config"
	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/events/bus"
	"github.com/zeusync/lookout/internal/core/observability/log"
	"github.com/zeusync/lookout/internal/core/stealth"
	"github.com/zeusync/lookout/internal/server"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideBus,
	ProvideEngine,
	ProvideScene,
	ProvideFeed,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) log.Log {
	return log.New(cfg.LogLevel())
}

func ProvideRegistry() *codes.Registry {
	return codes.NewRegistry()
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideEngine(cfg *config.Config, reg *codes.Registry, events bus.EventBus, logger log.Log) *stealth.Engine {
	return stealth.NewEngine(reg,
		stealth.WithConfig(cfg.EngineConfig()),
		stealth.WithBus(events),
		stealth.WithLogger(logger),
	)
}

// ProvideScene builds the level and installs it into the engine.
func ProvideScene(cfg *config.Config, reg *codes.Registry, engine *stealth.Engine) (*config.Scene, error) {
	scene, err := cfg.Build(reg)
	if err != nil {
		return nil, err
	}
	if err := scene.Install(engine); err != nil {
		return nil, err
	}
	return scene, nil
}

// ProvideFeed returns nil when the scenario has no feed address.
func ProvideFeed(cfg *config.Config, events bus.EventBus, logger log.Log) (*server.Feed, error) {
	if cfg.Feed.Addr == "" {
		return nil, nil
	}
	feed := server.NewFeed(logger, server.DefaultFeedConfig())
	if err := feed.Attach(events); err != nil {
		return nil, err
	}
	return feed, nil
}
