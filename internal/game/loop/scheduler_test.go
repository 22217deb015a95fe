package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dmogo/internal/config"
	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/game/dungeon"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
	"github.com/udisondev/dmogo/internal/testutil"
	"github.com/udisondev/dmogo/internal/world"
)

// reloadCounter counts template refreshes and can simulate failures.
type reloadCounter struct {
	*data.Registry
	calls int
	fail  bool
}

func (r *reloadCounter) Reload() error {
	r.calls++
	if r.fail {
		return errors.New("asset source down")
	}
	return nil
}

// panicStepper knocks over the creature phase of every tick.
type panicStepper struct{}

func (panicStepper) Step(inst *world.Instance, m *model.Monster, now time.Time) {
	panic("ai exploded")
}

func fastConfig() config.WorldConfig {
	cfg := config.DefaultWorld()
	cfg.TickInterval = 5 * time.Millisecond
	cfg.ErrorBackoff = 5 * time.Millisecond
	cfg.TickBudget = time.Second
	return cfg
}

func newScheduler(cfg config.WorldConfig, stepper world.CreatureStepper) (*Scheduler, *world.Hub, *reloadCounter) {
	assets := &reloadCounter{Registry: data.NewRegistry()}
	hub := world.NewHub(world.Deps{
		Cfg:     cfg,
		Codec:   testutil.TagCodec{},
		RNG:     rng.New(5),
		Stepper: stepper,
	})
	dungeons := dungeon.NewManager(hub, assets, []dungeon.MapTemplate{{ID: 1, Name: "File Island", Channels: 1}})
	return New(cfg, hub, dungeons, assets), hub, assets
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _, assets := newScheduler(fastConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
	assert.Greater(t, assets.calls, 1, "iterations ran before cancellation")
}

func TestRunSurvivesTickErrors(t *testing.T) {
	s, hub, assets := newScheduler(fastConfig(), panicStepper{})

	// A live monster makes every creature phase panic.
	in := hub.Create(1, 1, 0)
	in.AddMonster(model.KindStandard, 70001, model.NewLocation(0, 0), model.MonsterConfig{
		Name:  "Kunemon",
		Stats: model.Stats{Level: 5, MaxHP: 50, HP: 50},
	}, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Greater(t, assets.calls, 1, "failed ticks never kill the loop")
}

func TestIterateSweepsAndCreates(t *testing.T) {
	s, hub, _ := newScheduler(fastConfig(), nil)
	now := time.Now()

	retired := hub.Create(100, 0, -7)
	retired.MarkClosable()
	require.NoError(t, s.dungeons.Request(1, -8))

	require.NoError(t, s.iterate(context.Background(), now))

	assert.Nil(t, hub.Get(retired.ID()), "closable instances are swept first")
	assert.NotNil(t, hub.ByOwner(1, -8), "queued demands materialize in the same pass")
}

func TestIterateToleratesReloadFailure(t *testing.T) {
	s, _, assets := newScheduler(fastConfig(), nil)
	assets.fail = true
	assert.NoError(t, s.iterate(context.Background(), time.Now()))
	assert.Equal(t, 1, assets.calls)
}
