// Package dungeon manages the lifecycle of instanced maps: one live
// copy per owning party or solo tamer, spawn filtering by calendar and
// arena round, and the royal-base floor progression.
package dungeon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/world"
)

// MapTemplate describes one instanced map.
type MapTemplate struct {
	ID   int32
	Name string

	// Channels is the number of always-on parallel copies for a
	// persistent world map. Zero marks an instanced (owned) map.
	Channels int16

	// ArenaRounds is the set of rounds enabled on this map. Spawns bound
	// to a round outside this set are stripped at clone time. Empty means
	// the map is not an arena.
	ArenaRounds []int8

	// RoyalBase marks maps that belong to a floor chain; Floor is the
	// position inside the chain and PrevFloor the map that must be
	// cleared before this one opens (0 for the entry floor).
	RoyalBase bool
	Floor     int8
	PrevFloor int32

	Shops []world.Shop
	Zones []world.ZoneRule
}

// request is one queued instance creation demand.
type request struct {
	mapID int32
	owner int64
}

// Manager creates and retires dungeon instances. Creation demands are
// queued and materialized on the scheduler goroutine so instances never
// appear mid-tick.
type Manager struct {
	hub    *world.Hub
	assets data.Provider
	royal  *RoyalBase

	mu   sync.Mutex
	maps map[int32]MapTemplate
	reqs []request
}

// NewManager creates a dungeon lifecycle manager.
func NewManager(hub *world.Hub, assets data.Provider, maps []MapTemplate) *Manager {
	byID := make(map[int32]MapTemplate, len(maps))
	for _, m := range maps {
		byID[m.ID] = m
	}
	return &Manager{
		hub:    hub,
		assets: assets,
		royal:  NewRoyalBase(),
		maps:   byID,
	}
}

// Royal exposes the floor progression tracker.
func (mgr *Manager) Royal() *RoyalBase { return mgr.royal }

// OwnerForParty derives the instance owner key for a party.
func OwnerForParty(partyID int32) int64 { return -int64(partyID) }

// OwnerForSession derives the instance owner key for a solo tamer.
func OwnerForSession(sessionID uint32) int64 { return int64(sessionID) }

// BootstrapPersistent creates the always-on channel copies of every
// persistent map. Runs once at startup, before the scheduler.
func (mgr *Manager) BootstrapPersistent(now time.Time) {
	mgr.mu.Lock()
	maps := make([]MapTemplate, 0, len(mgr.maps))
	for _, tpl := range mgr.maps {
		maps = append(maps, tpl)
	}
	mgr.mu.Unlock()

	for _, tpl := range maps {
		for ch := int16(1); ch <= tpl.Channels; ch++ {
			in := mgr.hub.Create(tpl.ID, ch, 0)
			mgr.populate(in, tpl, now)
		}
		if tpl.Channels > 0 {
			slog.Info("persistent map online", "map", tpl.ID, "channels", tpl.Channels)
		}
	}
}

// Request queues an instance creation demand. Safe to call from session
// goroutines; the caller then polls the hub for the instance to appear.
func (mgr *Manager) Request(mapID int32, owner int64) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, ok := mgr.maps[mapID]; !ok {
		return ErrUnknownMap
	}
	mgr.reqs = append(mgr.reqs, request{mapID: mapID, owner: owner})
	return nil
}

// CanEnter checks the royal-base gate for a map. Non-chained maps are
// always enterable.
func (mgr *Manager) CanEnter(mapID int32, owner int64) error {
	mgr.mu.Lock()
	tpl, ok := mgr.maps[mapID]
	mgr.mu.Unlock()
	if !ok {
		return ErrUnknownMap
	}
	if tpl.RoyalBase && tpl.PrevFloor != 0 && !mgr.royal.Cleared(owner, tpl.PrevFloor) {
		return ErrFloorLocked
	}
	return nil
}

// Process materializes queued instances. Runs once per scheduler
// iteration, after the closable sweep. An owner that already has a live
// instance of the map keeps it; the duplicate demand is dropped.
func (mgr *Manager) Process(now time.Time) {
	mgr.mu.Lock()
	reqs := mgr.reqs
	mgr.reqs = nil
	mgr.mu.Unlock()

	for _, r := range reqs {
		if mgr.hub.ByOwner(r.mapID, r.owner) != nil {
			continue
		}
		mgr.mu.Lock()
		tpl, ok := mgr.maps[r.mapID]
		mgr.mu.Unlock()
		if !ok {
			continue
		}
		in := mgr.hub.Create(r.mapID, 0, r.owner)
		mgr.populate(in, tpl, now)
		slog.Info("instance created",
			"instance", in.ID(),
			"map", r.mapID,
			"owner", r.owner)
	}
}

// populate clones the map template into a fresh instance, applying the
// weekday and arena-round spawn filters.
func (mgr *Manager) populate(in *world.Instance, tpl MapTemplate, now time.Time) {
	in.SetShops(tpl.Shops)
	in.SetZoneRules(tpl.Zones)

	day := now.Weekday()
	bosses := 0
	for _, spawn := range mgr.assets.MonstersByMap(tpl.ID) {
		if !spawn.WeekdayMatches(day) {
			continue
		}
		if spawn.ArenaRound != 0 && !roundEnabled(tpl.ArenaRounds, spawn.ArenaRound) {
			continue
		}
		loc := model.NewLocation(spawn.SpawnX, spawn.SpawnY)
		in.AddMonster(model.KindStandard, spawn.GeneralHandler, loc, spawn.Config(), now)
		if spawn.Boss {
			bosses++
		}
	}
	if tpl.RoyalBase && bosses > 0 {
		mgr.royal.Arm(in.OwnerID(), tpl.ID, bosses)
	}
}

// SweepIdle marks owned instances with no remaining sessions closable
// and removes everything already flagged. Returns the removed set.
func (mgr *Manager) SweepIdle() []*world.Instance {
	for _, in := range mgr.hub.Instances() {
		if in.OwnerID() != 0 && in.SessionCount() == 0 {
			in.MarkClosable()
		}
	}
	swept := mgr.hub.SweepClosable()
	for _, in := range swept {
		mgr.royal.Forget(in.OwnerID(), in.MapID())
		slog.Info("instance closed",
			"instance", in.ID(),
			"map", in.MapID(),
			"owner", in.OwnerID())
	}
	return swept
}

func roundEnabled(enabled []int8, round int8) bool {
	for _, r := range enabled {
		if r == round {
			return true
		}
	}
	return false
}
