package world

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/dmogo/internal/config"
	"github.com/udisondev/dmogo/internal/game/party"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
)

// CreatureStepper drives one state-machine step for a monster whose
// action gate elapsed. Implemented by the ai package; injected at wiring
// to keep the dependency direction world ← ai.
type CreatureStepper interface {
	Step(inst *Instance, m *model.Monster, now time.Time)
}

// Persister receives fire-and-forget durability commands. The simulation
// never awaits completion.
type Persister interface {
	SaveTamer(t *model.Tamer)
}

// ZoneRule applies a location-gated debuff while a session stands inside
// the rectangle (evolution locks, damage floors and the like). The
// debuff is re-armed every tick the session remains inside, so it wears
// off Hold after leaving.
type ZoneRule struct {
	MinX, MinY, MaxX, MaxY int32
	SkillID                int32
	Disabling              bool
	Hold                   time.Duration
}

// Contains reports whether the location falls inside the rule's area.
func (z ZoneRule) Contains(loc model.Location) bool {
	return loc.X >= z.MinX && loc.X <= z.MaxX && loc.Y >= z.MinY && loc.Y <= z.MaxY
}

// Deps bundles the collaborators every instance shares.
type Deps struct {
	Cfg       config.WorldConfig
	Codec     model.Codec
	RNG       *rng.Source
	Stepper   CreatureStepper
	Persister Persister
	Parties   *party.Registry
}

// Instance owns one live, ticking copy of a map template: a persistent
// world channel or an ephemeral dungeon.
type Instance struct {
	id      int32
	mapID   int32
	channel int16
	// ownerID keys dungeon instances: a party id or a tamer's persistent
	// id. Zero for persistent world channels.
	ownerID int64

	deps Deps

	closable atomic.Bool

	mu       sync.RWMutex
	sessions map[uint32]*model.Tamer
	monsters map[int32]*model.Monster
	drops    map[int32]*model.Drop
	vis      map[uint32]*viewSet

	pendingAdd    []*model.Drop
	pendingRemove []int32

	shops     []Shop
	zoneRules []ZoneRule

	nextMonsterHandler atomic.Int32
	nextDropHandler    atomic.Int32
}

// NewInstance creates an empty instance for a map template.
func NewInstance(id, mapID int32, channel int16, ownerID int64, deps Deps) *Instance {
	return &Instance{
		id:       id,
		mapID:    mapID,
		channel:  channel,
		ownerID:  ownerID,
		deps:     deps,
		sessions: make(map[uint32]*model.Tamer),
		monsters: make(map[int32]*model.Monster),
		drops:    make(map[int32]*model.Drop),
		vis:      make(map[uint32]*viewSet),
	}
}

// ID returns the instance id.
func (in *Instance) ID() int32 { return in.id }

// MapID returns the underlying map template id.
func (in *Instance) MapID() int32 { return in.mapID }

// Channel returns the world channel (persistent maps only).
func (in *Instance) Channel() int16 { return in.channel }

// OwnerID returns the dungeon owner key (0 for persistent channels).
func (in *Instance) OwnerID() int64 { return in.ownerID }

// Deps exposes the shared collaborators to the ai and reward layers.
func (in *Instance) Deps() Deps { return in.deps }

// MarkClosable flags a dungeon instance for removal on the next
// scheduler sweep. Persistent channels are never marked.
func (in *Instance) MarkClosable() { in.closable.Store(true) }

// Closable reports whether the instance may be swept.
func (in *Instance) Closable() bool { return in.closable.Load() }

// SetShops installs the static vendor list (template clone time).
func (in *Instance) SetShops(shops []Shop) {
	in.mu.Lock()
	in.shops = append([]Shop(nil), shops...)
	in.mu.Unlock()
}

// SetZoneRules installs the location-gated debuff rules.
func (in *Instance) SetZoneRules(rules []ZoneRule) {
	in.mu.Lock()
	in.zoneRules = append([]ZoneRule(nil), rules...)
	in.mu.Unlock()
}

// --- Sessions ---

// AddSession attaches a tamer to the instance.
func (in *Instance) AddSession(t *model.Tamer) {
	in.mu.Lock()
	in.sessions[t.ID()] = t
	in.vis[t.ID()] = newViewSet()
	in.mu.Unlock()
}

// RemoveSession detaches a tamer, pruning every visibility edge that
// references it in either direction.
func (in *Instance) RemoveSession(sessionID uint32) *model.Tamer {
	in.mu.Lock()
	t, ok := in.sessions[sessionID]
	if !ok {
		in.mu.Unlock()
		return nil
	}
	delete(in.sessions, sessionID)
	delete(in.vis, sessionID)
	for _, vs := range in.vis {
		delete(vs.sessions, sessionID)
	}
	monsters := make([]*model.Monster, 0, len(in.monsters))
	for _, m := range in.monsters {
		monsters = append(monsters, m)
	}
	in.mu.Unlock()

	for _, m := range monsters {
		m.RemoveViewer(sessionID)
		if m.Target() == sessionID {
			m.ClearTarget()
		}
	}
	return t
}

// Session returns an attached tamer by session id.
func (in *Instance) Session(sessionID uint32) *model.Tamer {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.sessions[sessionID]
}

// SessionCount returns the number of attached sessions.
func (in *Instance) SessionCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.sessions)
}

// Sessions returns a snapshot of the attached tamers.
func (in *Instance) Sessions() []*model.Tamer {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]*model.Tamer, 0, len(in.sessions))
	for _, t := range in.sessions {
		out = append(out, t)
	}
	return out
}

// --- Monsters ---

// AddMonster spawns a monster into the instance and returns it. Used at
// instance initialization and by the GM summon surface.
func (in *Instance) AddMonster(kind model.MonsterKind, generalHandler int32, loc model.Location, cfg model.MonsterConfig, now time.Time) *model.Monster {
	handler := in.nextMonsterHandler.Add(1)
	m := model.NewMonster(handler, generalHandler, kind, loc, cfg, now)
	in.mu.Lock()
	in.monsters[handler] = m
	in.mu.Unlock()
	return m
}

// Monster returns a live monster by handler.
func (in *Instance) Monster(handler int32) *model.Monster {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.monsters[handler]
}

// Monsters returns a snapshot of the live monster collection.
func (in *Instance) Monsters() []*model.Monster {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]*model.Monster, 0, len(in.monsters))
	for _, m := range in.monsters {
		out = append(out, m)
	}
	return out
}

// MonsterCount returns the number of live monsters.
func (in *Instance) MonsterCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.monsters)
}

// DestroyMonster removes a monster whose Destroy transition completed,
// pruning it from every session's view set.
func (in *Instance) DestroyMonster(handler int32) {
	in.mu.Lock()
	delete(in.monsters, handler)
	for _, vs := range in.vis {
		delete(vs.monsters, handler)
	}
	in.mu.Unlock()
}

// HideMonster announces disappearance to the monster's current viewers
// and clears the visibility relation on both sides. Used for corpse
// removal and summon expiry.
func (in *Instance) HideMonster(m *model.Monster) {
	viewers := m.Viewers()
	in.BroadcastTargets(viewers, in.deps.Codec.MonsterDisappear(m.Handler()))
	in.mu.Lock()
	for _, id := range viewers {
		if vs, ok := in.vis[id]; ok {
			delete(vs.monsters, m.Handler())
		}
	}
	in.mu.Unlock()
	for _, id := range viewers {
		m.RemoveViewer(id)
	}
}

// NearbyMonsters returns live monsters within the squared range of a
// point. Used by skill and area-effect resolution outside the core.
func (in *Instance) NearbyMonsters(center model.Location, rangeSq int64) []*model.Monster {
	snapshot := in.Monsters()
	out := make([]*model.Monster, 0, len(snapshot))
	for _, m := range snapshot {
		if m.IsDead() {
			continue
		}
		if m.Location().DistanceSquared(center) <= rangeSq {
			out = append(out, m)
		}
	}
	return out
}

// --- Drops ---

// AddDrop enqueues a ground drop; it materializes into the live set at
// the next tick's apply-pending step.
func (in *Instance) AddDrop(ownerID uint32, loc model.Location, payload model.DropPayload, now time.Time) *model.Drop {
	handler := in.nextDropHandler.Add(1)
	d := model.NewDrop(handler, ownerID, loc, payload, now, in.deps.Cfg.DropTTL, in.deps.Cfg.DropOwnerGrace)
	in.mu.Lock()
	in.pendingAdd = append(in.pendingAdd, d)
	in.mu.Unlock()
	return d
}

// RemoveDrop enqueues a drop removal (pickup, GM cleanup).
func (in *Instance) RemoveDrop(handler int32) {
	in.mu.Lock()
	in.pendingRemove = append(in.pendingRemove, handler)
	in.mu.Unlock()
}

// GetDrop returns a live drop by handler, or nil while it is still
// pending.
func (in *Instance) GetDrop(handler int32) *model.Drop {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.drops[handler]
}

// Drops returns a snapshot of the live drop collection.
func (in *Instance) Drops() []*model.Drop {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]*model.Drop, 0, len(in.drops))
	for _, d := range in.drops {
		out = append(out, d)
	}
	return out
}

// applyPendingAdds moves queued drops into the live set. Re-applying an
// already-applied queue is a no-op because the queue is consumed.
func (in *Instance) applyPendingAdds() []*model.Drop {
	in.mu.Lock()
	added := in.pendingAdd
	in.pendingAdd = nil
	for _, d := range added {
		in.drops[d.Handler()] = d
	}
	in.mu.Unlock()
	return added
}

// applyPendingRemovals drops queued handlers from the live set and every
// view set. Returns the drops actually removed.
func (in *Instance) applyPendingRemovals() []*model.Drop {
	in.mu.Lock()
	handlers := in.pendingRemove
	in.pendingRemove = nil
	removed := make([]*model.Drop, 0, len(handlers))
	for _, h := range handlers {
		if d, ok := in.drops[h]; ok {
			removed = append(removed, d)
			delete(in.drops, h)
		}
		for _, vs := range in.vis {
			delete(vs.drops, h)
		}
	}
	in.mu.Unlock()
	return removed
}

// --- Broadcast scopes ---

// Broadcast sends bytes to every session attached to the instance.
func (in *Instance) Broadcast(data []byte) {
	for _, t := range in.Sessions() {
		t.Session().Send(data)
	}
}

// BroadcastChannel sends bytes to sessions on the given channel.
func (in *Instance) BroadcastChannel(channel int16, data []byte) {
	for _, t := range in.Sessions() {
		if t.Channel() == channel {
			t.Session().Send(data)
		}
	}
}

// SendTo sends bytes to one attached session.
func (in *Instance) SendTo(sessionID uint32, data []byte) {
	if t := in.Session(sessionID); t != nil {
		t.Session().Send(data)
	}
}

// BroadcastTargets sends bytes to an explicit session id list.
func (in *Instance) BroadcastTargets(ids []uint32, data []byte) {
	in.mu.RLock()
	targets := make([]*model.Tamer, 0, len(ids))
	for _, id := range ids {
		if t, ok := in.sessions[id]; ok {
			targets = append(targets, t)
		}
	}
	in.mu.RUnlock()
	for _, t := range targets {
		t.Session().Send(data)
	}
}

// BroadcastViewersOf sends bytes to every session that currently sees
// the given session, and to the session itself.
func (in *Instance) BroadcastViewersOf(sessionID uint32, data []byte) {
	in.mu.RLock()
	targets := make([]*model.Tamer, 0, 8)
	if t, ok := in.sessions[sessionID]; ok {
		targets = append(targets, t)
	}
	for id, vs := range in.vis {
		if _, sees := vs.sessions[sessionID]; sees {
			if t, ok := in.sessions[id]; ok {
				targets = append(targets, t)
			}
		}
	}
	in.mu.RUnlock()
	for _, t := range targets {
		t.Session().Send(data)
	}
}

// BroadcastMonsterViewers sends bytes to every session currently viewing
// the monster.
func (in *Instance) BroadcastMonsterViewers(m *model.Monster, data []byte) {
	in.BroadcastTargets(m.Viewers(), data)
}

// --- Visibility queries ---

// SeesMonster reports whether the session's view set contains the monster.
func (in *Instance) SeesMonster(sessionID uint32, handler int32) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	vs, ok := in.vis[sessionID]
	if !ok {
		return false
	}
	_, sees := vs.monsters[handler]
	return sees
}

// SeesDrop reports whether the session's view set contains the drop.
func (in *Instance) SeesDrop(sessionID uint32, handler int32) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	vs, ok := in.vis[sessionID]
	if !ok {
		return false
	}
	_, sees := vs.drops[handler]
	return sees
}

// SeesSession reports whether viewer currently sees other.
func (in *Instance) SeesSession(viewer, other uint32) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	vs, ok := in.vis[viewer]
	if !ok {
		return false
	}
	_, sees := vs.sessions[other]
	return sees
}

// SeesShop reports whether the session currently sees the shop.
func (in *Instance) SeesShop(sessionID uint32, handler int32) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	vs, ok := in.vis[sessionID]
	if !ok {
		return false
	}
	_, sees := vs.shops[handler]
	return sees
}

func (in *Instance) radiiSq() (enterSq, exitSq int64) {
	enter := int64(in.deps.Cfg.EnterRadius)
	exit := int64(in.deps.Cfg.ExitRadius)
	return enter * enter, exit * exit
}
