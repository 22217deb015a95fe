package model

import (
	"sort"
	"sync"
	"time"
)

// MonsterKind distinguishes the two combatant variants. They share one
// state machine; a summoned monster only adds a fixed lifetime.
type MonsterKind int8

const (
	// KindStandard - regular map creature that respawns in place.
	KindStandard MonsterKind = iota
	// KindSummoned - ephemeral creature that self-destructs when its
	// duration elapses and never respawns.
	KindSummoned
)

// MonsterConfig is the immutable per-spawn snapshot a monster is built
// from. Reward is cloned so the monster owns its tables.
type MonsterConfig struct {
	TemplateID int32
	Name       string
	Stats      Stats
	Reward     RewardConfig
	SkillPool  []int32 // attack skill ids, picked uniformly at random
	WalkSpeed  int32   // units per walk step
	AggroRange int32   // engage radius while waiting
	Boss       bool    // counts toward floor progression
	// SummonLife bounds the lifetime of KindSummoned monsters.
	SummonLife time.Duration
	// OwnerID is the session that summoned a KindSummoned monster (0 otherwise).
	OwnerID uint32
}

// Monster is a live combatant inside one map instance.
type Monster struct {
	mu sync.Mutex

	handler        int32 // per-instance sequential id used on the wire
	generalHandler int32 // persistent template handler used by the wire protocol
	kind           MonsterKind
	cfg            MonsterConfig

	spawnLoc Location
	loc      Location

	stats  Stats
	action Action
	dead   bool

	target   uint32 // session id currently pursued, 0 = none
	killedBy uint32 // session that landed the killing blow

	viewers map[uint32]struct{} // sessions currently viewing this monster

	nextActionAt time.Time // per-tick action-ready gate
	lastHitAt    time.Time // last time a swing landed (anti-kite)
	skillCheckAt time.Time // next time a skill cast may be considered
	diedAt       time.Time
	expiresAt    time.Time // summoned kind only

	debuffs []Debuff

	rewardGiven bool
	raidDamage  map[uint32]int64 // attacker session id -> cumulative damage
}

// NewMonster creates a live monster from a per-spawn config snapshot.
func NewMonster(handler, generalHandler int32, kind MonsterKind, loc Location, cfg MonsterConfig, now time.Time) *Monster {
	cfg.Reward = cfg.Reward.Clone()
	m := &Monster{
		handler:        handler,
		generalHandler: generalHandler,
		kind:           kind,
		cfg:            cfg,
		spawnLoc:       loc,
		loc:            loc,
		stats:          cfg.Stats,
		action:         ActionWait,
		viewers:        make(map[uint32]struct{}),
		raidDamage:     make(map[uint32]int64),
		lastHitAt:      now, // anti-kite clock starts at spawn
	}
	if kind == KindSummoned && cfg.SummonLife > 0 {
		m.expiresAt = now.Add(cfg.SummonLife)
	}
	return m
}

// Handler returns the per-instance wire id.
func (m *Monster) Handler() int32 { return m.handler }

// GeneralHandler returns the persistent wire protocol handler.
func (m *Monster) GeneralHandler() int32 { return m.generalHandler }

// Kind returns the combatant variant tag.
func (m *Monster) Kind() MonsterKind { return m.kind }

// TemplateID returns the creature template id.
func (m *Monster) TemplateID() int32 { return m.cfg.TemplateID }

// Name returns the template display name.
func (m *Monster) Name() string { return m.cfg.Name }

// OwnerID returns the summoning session for KindSummoned monsters.
func (m *Monster) OwnerID() uint32 { return m.cfg.OwnerID }

// Config returns the per-spawn config snapshot.
func (m *Monster) Config() MonsterConfig {
	return m.cfg
}

// Reward returns this monster's private reward tables.
func (m *Monster) Reward() *RewardConfig {
	return &m.cfg.Reward
}

// Location returns the monster's current position.
func (m *Monster) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loc
}

// SetLocation moves the monster.
func (m *Monster) SetLocation(loc Location) {
	m.mu.Lock()
	m.loc = loc
	m.mu.Unlock()
}

// SpawnLocation returns the fixed spawn point.
func (m *Monster) SpawnLocation() Location { return m.spawnLoc }

// Stats returns a copy of the current stat block.
func (m *Monster) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Action returns the current AI state.
func (m *Monster) Action() Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.action
}

// SetAction transitions the AI state.
func (m *Monster) SetAction(a Action) {
	m.mu.Lock()
	m.action = a
	m.mu.Unlock()
}

// IsDead reports whether the monster has been killed and not yet respawned.
func (m *Monster) IsDead() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dead
}

// DiedAt returns the death timestamp (zero when alive).
func (m *Monster) DiedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diedAt
}

// ApplyDamage subtracts damage and marks death when health is exhausted.
// Dead monsters take no further damage. Returns the damage actually dealt
// (clamped to remaining health) and whether this hit killed.
func (m *Monster) ApplyDamage(attackerID uint32, dmg int32, now time.Time) (dealt int32, killed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dead {
		return 0, false
	}
	if dmg > m.stats.HP {
		dmg = m.stats.HP
	}
	m.stats.HP -= dmg
	m.raidDamage[attackerID] += int64(dmg)
	if m.stats.HP <= 0 {
		m.dead = true
		m.diedAt = now
		m.killedBy = attackerID
		return dmg, true
	}
	return dmg, false
}

// Respawn resets position and health and clears combat state.
func (m *Monster) Respawn() {
	m.mu.Lock()
	m.loc = m.spawnLoc
	m.stats = m.cfg.Stats
	m.dead = false
	m.diedAt = time.Time{}
	m.target = 0
	m.killedBy = 0
	m.rewardGiven = false
	m.raidDamage = make(map[uint32]int64)
	m.debuffs = nil
	m.mu.Unlock()
}

// KilledBy returns the session that landed the killing blow (0 while
// alive).
func (m *Monster) KilledBy() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.killedBy
}

// RestoreHealth resets health to the configured maximum. Applied when
// the monster abandons a chase so kiting cannot whittle it down.
func (m *Monster) RestoreHealth() {
	m.mu.Lock()
	m.stats.HP = m.cfg.Stats.HP
	m.raidDamage = make(map[uint32]int64)
	m.mu.Unlock()
}

// Target returns the pursued session id (0 = none).
func (m *Monster) Target() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// SetTarget sets the pursued session id.
func (m *Monster) SetTarget(sessionID uint32) {
	m.mu.Lock()
	m.target = sessionID
	m.mu.Unlock()
}

// ClearTarget drops the pursued session.
func (m *Monster) ClearTarget() {
	m.mu.Lock()
	m.target = 0
	m.mu.Unlock()
}

// ActionReady reports whether the per-tick action gate has elapsed.
func (m *Monster) ActionReady(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !now.Before(m.nextActionAt)
}

// ScheduleNext arms the action gate delay ms into the future.
func (m *Monster) ScheduleNext(now time.Time, delay time.Duration) {
	m.mu.Lock()
	m.nextActionAt = now.Add(delay)
	m.mu.Unlock()
}

// LastHitAt returns the last time this monster landed a swing.
func (m *Monster) LastHitAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHitAt
}

// MarkHit records a landed swing (resets the anti-kite clock).
func (m *Monster) MarkHit(now time.Time) {
	m.mu.Lock()
	m.lastHitAt = now
	m.mu.Unlock()
}

// SkillReady reports whether a skill cast may be considered and, when it
// may, re-arms the check gate.
func (m *Monster) SkillReady(now time.Time, rearm time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Before(m.skillCheckAt) {
		return false
	}
	m.skillCheckAt = now.Add(rearm)
	return true
}

// Expired reports whether a summoned monster's lifetime has elapsed.
// Always false for standard monsters.
func (m *Monster) Expired(now time.Time) bool {
	if m.kind != KindSummoned {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.expiresAt.IsZero() && now.After(m.expiresAt)
}

// AddDebuff applies a debuff.
func (m *Monster) AddDebuff(d Debuff) {
	m.mu.Lock()
	m.debuffs = append(m.debuffs, d)
	m.mu.Unlock()
}

// ExpireDebuffs removes debuffs that ran out and returns them. An
// expired debuff is returned exactly once.
func (m *Monster) ExpireDebuffs(now time.Time) []Debuff {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []Debuff
	kept := m.debuffs[:0]
	for _, d := range m.debuffs {
		if d.Expired(now) {
			expired = append(expired, d)
		} else {
			kept = append(kept, d)
		}
	}
	m.debuffs = kept
	return expired
}

// HasDisablingDebuff reports whether any unexpired crowd-control debuff
// remains. Read-only: expired entries are swept through ExpireDebuffs so
// their removal is announced exactly once.
func (m *Monster) HasDisablingDebuff(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.debuffs {
		if d.Disabling && !d.Expired(now) {
			return true
		}
	}
	return false
}

// MarkRewarded flips the reward latch. Returns false when the reward was
// already computed, guaranteeing payout runs exactly once.
func (m *Monster) MarkRewarded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rewardGiven {
		return false
	}
	m.rewardGiven = true
	return true
}

// AddViewer records a session gaining sight of this monster.
func (m *Monster) AddViewer(sessionID uint32) {
	m.mu.Lock()
	m.viewers[sessionID] = struct{}{}
	m.mu.Unlock()
}

// RemoveViewer records a session losing sight of this monster.
func (m *Monster) RemoveViewer(sessionID uint32) {
	m.mu.Lock()
	delete(m.viewers, sessionID)
	m.mu.Unlock()
}

// Viewers returns a snapshot of the sessions currently viewing the monster.
func (m *Monster) Viewers() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint32, 0, len(m.viewers))
	for id := range m.viewers {
		out = append(out, id)
	}
	return out
}

// IsViewer reports whether the session currently sees this monster.
func (m *Monster) IsViewer(sessionID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.viewers[sessionID]
	return ok
}

// DamageRank is one row of the per-monster damage tally.
type DamageRank struct {
	SessionID uint32
	Damage    int64
}

// DamageRanking returns attackers ordered by cumulative damage, highest
// first, ties broken by session id for determinism.
func (m *Monster) DamageRanking() []DamageRank {
	m.mu.Lock()
	ranking := make([]DamageRank, 0, len(m.raidDamage))
	for id, dmg := range m.raidDamage {
		ranking = append(ranking, DamageRank{SessionID: id, Damage: dmg})
	}
	m.mu.Unlock()
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Damage != ranking[j].Damage {
			return ranking[i].Damage > ranking[j].Damage
		}
		return ranking[i].SessionID < ranking[j].SessionID
	})
	return ranking
}

// DamagedBy reports whether the session contributed damage to this monster.
func (m *Monster) DamagedBy(sessionID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raidDamage[sessionID] > 0
}
