package injector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/lookout/internal/config"
	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/events/bus"
	"github.com/zeusync/lookout/internal/core/observability/log"
	"github.com/zeusync/lookout/internal/core/stealth"
	"github.com/zeusync/lookout/internal/server"
)

type App struct {
	Config   *config.Config
	Logger   log.Log
	Registry *codes.Registry
	Bus      bus.EventBus
	Engine   *stealth.Engine
	Scene    *config.Scene
	Feed     *server.Feed
}

// Run drives the scene until ctx is done or the scene runs out of ticks, and
// serves the debug feed alongside when one is configured.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// a finished scene also stops the feed
		defer cancel()
		return a.Engine.Run(gctx, a.Config.Engine.Step, a.Scene)
	})
	if a.Feed != nil {
		g.Go(func() error {
			return server.Serve(gctx, a.Config.Feed.Addr, a.Config.Feed.Path, a.Feed)
		})
	}

	err := g.Wait()
	a.Logger.Info("run finished",
		log.Strings("active", activeNames(a.Registry, a.Config)),
		log.String("session", a.Registry.Session().String()),
	)
	return err
}

// activeNames maps latched codes back to the alarm names of the scenario.
func activeNames(reg *codes.Registry, cfg *config.Config) []string {
	var names []string
	seen := make(map[codes.Code]bool)
	for _, o := range cfg.Level.Observers {
		code, ok := reg.Lookup(o.Alarm)
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		if reg.Contains(code) {
			names = append(names, o.Alarm)
		}
	}
	return names
}
