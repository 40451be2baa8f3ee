package stealth

import (
	"context"
	"time"

	"github.com/zeusync/lookout/internal/core/observability/log"
)

// Source hands the engine one snapshot per tick. ok=false stops the loop.
type Source interface {
	Snapshot(tick uint64) (snap Snapshot, ok bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(tick uint64) (Snapshot, bool)

func (f SourceFunc) Snapshot(tick uint64) (Snapshot, bool) { return f(tick) }

// Run ticks the engine at a fixed step until ctx is done or src runs dry.
// Ticks missed while the process was stalled are caught up back to back.
// Cancellation is only observed between ticks.
func (e *Engine) Run(ctx context.Context, step time.Duration, src Source) error {
	if step <= 0 {
		return ErrInvalidStep
	}

	var (
		next = uint64(1)
		lag  time.Duration
		last = time.Now()
	)
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	e.logger.Info("loop started",
		log.Duration("step", step),
		log.Int("workers", e.cfg.Workers),
		log.Float64("horizon", e.cfg.Horizon),
	)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("loop stopped", log.Uint64("ticks", next-1))
			return nil
		case now := <-ticker.C:
			lag += now.Sub(last)
			last = now
		}

		for lag >= step {
			lag -= step
			snap, ok := src.Snapshot(next)
			if !ok {
				e.logger.Info("source exhausted", log.Uint64("ticks", next-1))
				return nil
			}
			if _, err := e.Tick(snap); err != nil {
				// handler failures are not fatal to the simulation
				e.logger.Warn("tick handlers failed", log.Uint64("tick", next), log.Error(err))
			}
			next++
			if ctx.Err() != nil {
				break
			}
		}
	}
}
