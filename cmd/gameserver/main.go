package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/dmogo/internal/ai"
	"github.com/udisondev/dmogo/internal/config"
	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/db"
	"github.com/udisondev/dmogo/internal/game/dungeon"
	"github.com/udisondev/dmogo/internal/game/loop"
	"github.com/udisondev/dmogo/internal/game/party"
	"github.com/udisondev/dmogo/internal/game/reward"
	"github.com/udisondev/dmogo/internal/protocol"
	"github.com/udisondev/dmogo/internal/rng"
	"github.com/udisondev/dmogo/internal/world"
)

const GameConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := GameConfigPath
	if p := os.Getenv("DMOGO_GAME_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading game config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("dmogo server starting", "log_level", cfg.LogLevel)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	registry := data.NewRegistry()
	seedTemplates(registry)
	slog.Info("templates loaded")

	persistence := db.NewPersistence(
		db.NewTamerRepository(database.Pool()),
		db.NewRaidRepository(database.Pool()),
	)

	rnd := rng.New(uint64(time.Now().UnixNano()))
	parties := party.NewRegistry()
	codec := protocol.NewCodec()

	deps := world.Deps{
		Cfg:       cfg.World,
		Codec:     codec,
		RNG:       rnd,
		Persister: persistence,
		Parties:   parties,
	}
	rewards := reward.NewDistributor(codec, rnd, parties, registry, persistence)
	deps.Stepper = ai.New(rnd, registry, rewards)

	hub := world.NewHub(deps)
	dungeons := dungeon.NewManager(hub, registry, loadMapTemplates())
	rewards.SetBossTracker(dungeons.Royal())
	dungeons.BootstrapPersistent(time.Now())

	scheduler := loop.New(cfg.World, hub, dungeons, registry)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })

	slog.Info("simulation running", "tick", cfg.World.TickInterval)
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
