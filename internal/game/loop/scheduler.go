// Package loop runs the global simulation heartbeat: one iteration
// sweeps retired instances, materializes requested ones, refreshes
// templates and ticks every live instance.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dmogo/internal/config"
	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/game/dungeon"
	"github.com/udisondev/dmogo/internal/world"
)

// Scheduler owns the tick loop.
type Scheduler struct {
	cfg      config.WorldConfig
	hub      *world.Hub
	dungeons *dungeon.Manager
	assets   data.Provider
}

// New creates a scheduler over the live instance set.
func New(cfg config.WorldConfig, hub *world.Hub, dungeons *dungeon.Manager, assets data.Provider) *Scheduler {
	return &Scheduler{cfg: cfg, hub: hub, dungeons: dungeons, assets: assets}
}

// Run drives iterations until the context is cancelled. An iteration in
// flight when cancellation arrives completes; the loop exits before
// starting the next one. A failed iteration is logged and followed by
// an extra backoff sleep, never a crash.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("tick scheduler started",
		"interval", s.cfg.TickInterval,
		"budget", s.cfg.TickBudget)
	for {
		select {
		case <-ctx.Done():
			slog.Info("tick scheduler stopped")
			return ctx.Err()
		default:
		}

		start := time.Now()
		if err := s.iterate(ctx, start); err != nil {
			slog.Error("tick iteration failed", "error", err)
			if !sleep(ctx, s.cfg.ErrorBackoff) {
				return ctx.Err()
			}
		}

		elapsed := time.Since(start)
		if elapsed > s.cfg.TickBudget {
			slog.Warn("tick over budget",
				"elapsed", elapsed,
				"budget", s.cfg.TickBudget,
				"instances", len(s.hub.Instances()))
		}
		if !sleep(ctx, s.cfg.TickInterval-elapsed) {
			slog.Info("tick scheduler stopped")
			return ctx.Err()
		}
	}
}

// iterate runs one full scheduler pass. Panics from loop bookkeeping
// are contained here; instance phases contain their own.
func (s *Scheduler) iterate(ctx context.Context, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick iteration panic: %v", r)
		}
	}()

	s.dungeons.SweepIdle()
	s.dungeons.Process(now)

	if reloadErr := s.assets.Reload(); reloadErr != nil {
		// Previous template snapshot stays in effect.
		slog.Warn("template reload failed", "error", reloadErr)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, in := range s.hub.Instances() {
		in := in
		g.Go(func() error { return in.Tick(gctx, now) })
	}
	return g.Wait()
}

// sleep blocks for d or until cancellation; reports false on cancel.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
