package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/lookout/internal/config"
	"github.com/zeusync/lookout/internal/injector"
)

func main() {
	var (
		scenario = flag.String("scenario", "scenario.yaml", "path to the scenario file")
		feedAddr = flag.String("feed", "", "serve the debug feed on this address, overriding the scenario")
		ticks    = flag.Uint64("ticks", 0, "stop after this many ticks, overriding the scenario")
	)
	flag.Parse()

	if err := run(*scenario, *feedAddr, *ticks); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(scenario, feedAddr string, ticks uint64) error {
	cfg, err := config.LoadFile(scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if feedAddr != "" {
		cfg.Feed.Addr = feedAddr
	}
	if ticks > 0 {
		cfg.Engine.Ticks = ticks
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
