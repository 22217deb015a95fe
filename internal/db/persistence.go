package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/dmogo/internal/game/reward"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/world"
)

var (
	_ world.Persister        = (*Persistence)(nil)
	_ reward.RaidPointsStore = (*Persistence)(nil)
)

const saveTimeout = 5 * time.Second

// Persistence adapts the repositories to the simulation's
// fire-and-forget save surface. Every save runs on its own goroutine
// with a bounded timeout; failures are logged and never propagate into
// the tick.
type Persistence struct {
	tamers *TamerRepository
	raids  *RaidRepository
}

// NewPersistence creates the async save adapter.
func NewPersistence(tamers *TamerRepository, raids *RaidRepository) *Persistence {
	return &Persistence{tamers: tamers, raids: raids}
}

// SaveTamer snapshots the tamer state synchronously and writes it in
// the background.
func (p *Persistence) SaveTamer(t *model.Tamer) {
	stats := t.Stats()
	loc := t.Location()
	row := TamerRow{
		SessionID: t.ID(),
		Name:      t.Name(),
		MapID:     t.MapID(),
		LocX:      loc.X,
		LocY:      loc.Y,
		Level:     stats.Level,
		Exp:       t.Exp(),
		HP:        stats.HP,
		MaxHP:     stats.MaxHP,
		Bits:      t.Inventory().Bits(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := p.tamers.Save(ctx, row); err != nil {
			slog.Error("tamer save failed", "session", row.SessionID, "error", err)
		}
	}()
}

// AddPoints accumulates raid contribution in the background.
func (p *Persistence) AddPoints(sessionID uint32, templateID int32, points int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := p.raids.AddPoints(ctx, sessionID, templateID, points); err != nil {
			slog.Error("raid points save failed", "session", sessionID, "error", err)
		}
	}()
}
