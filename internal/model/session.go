package model

import (
	"sync"
	"time"
)

// Session is the network session capability consumed by the simulation core.
// The core calls into it, it never owns the underlying connection.
type Session interface {
	// ID returns the session's persistent id (character/tamer database id).
	ID() uint32
	// Send queues an encoded packet for delivery. Must not block the caller.
	Send(data []byte)
}

// Debuff is a timed negative effect on a combatant or tamer.
type Debuff struct {
	SkillID   int32
	ExpiresAt time.Time
	// Disabling marks crowd-control debuffs (stun, freeze, sleep) that
	// hold a monster in the CrowdControl state.
	Disabling bool
}

// Expired reports whether the debuff has run out at the given time.
func (d Debuff) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// Tamer is the in-world aggregate for one connected session: the avatar
// the simulation moves around, damages and rewards. The core mutates only
// the fields that drive simulation; everything else stays behind Session.
type Tamer struct {
	mu sync.Mutex

	session Session
	name    string

	loc     Location
	mapID   int32
	channel int16
	partyID int32

	stats   Stats
	partner Stats // primary companion, itself a combat-stat block
	exp     int64 // cumulative experience

	godMode      bool
	magneticAura bool // active drops go straight to inventory when space allows

	targetMonster int32 // handler of the monster under auto-attack, 0 = none

	debuffs []Debuff

	inventory *Inventory

	// Quest progress: quest item id -> still-needed count.
	questNeeds map[int32]int32

	// Independent per-session timers, decremented once per tick.
	buffTicks  int
	syncTicks  int
	saveTicks  int
	partyTicks int

	lastAttackAt time.Time
}

// NewTamer creates an in-world tamer for a connected session.
func NewTamer(session Session, name string, mapID int32, channel int16, loc Location, stats Stats) *Tamer {
	return &Tamer{
		session:    session,
		name:       name,
		loc:        loc,
		mapID:      mapID,
		channel:    channel,
		stats:      stats,
		inventory:  NewInventory(defaultInventorySlots),
		questNeeds: make(map[int32]int32),
	}
}

// Session returns the underlying network session.
func (t *Tamer) Session() Session { return t.session }

// ID returns the session's persistent id.
func (t *Tamer) ID() uint32 { return t.session.ID() }

// Name returns the tamer's character name.
func (t *Tamer) Name() string { return t.name }

// Location returns the tamer's current position.
func (t *Tamer) Location() Location {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loc
}

// SetLocation moves the tamer.
func (t *Tamer) SetLocation(loc Location) {
	t.mu.Lock()
	t.loc = loc
	t.mu.Unlock()
}

// MapID returns the underlying map template id.
func (t *Tamer) MapID() int32 { return t.mapID }

// Channel returns the world channel the tamer is attached to.
func (t *Tamer) Channel() int16 { return t.channel }

// PartyID returns the current party id (0 = not in a party).
func (t *Tamer) PartyID() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.partyID
}

// SetPartyID attaches the tamer to a party (0 detaches).
func (t *Tamer) SetPartyID(id int32) {
	t.mu.Lock()
	t.partyID = id
	t.mu.Unlock()
}

// Stats returns a copy of the tamer's stat block.
func (t *Tamer) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// SetStats replaces the tamer's stat block (level-up recompute).
func (t *Tamer) SetStats(s Stats) {
	t.mu.Lock()
	t.stats = s
	t.mu.Unlock()
}

// Exp returns the cumulative experience total.
func (t *Tamer) Exp() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exp
}

// AddExp adds experience and returns the new total.
func (t *Tamer) AddExp(amount int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exp += amount
	return t.exp
}

// Partner returns a copy of the partner's stat block.
func (t *Tamer) Partner() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.partner
}

// SetPartner replaces the partner stat block.
func (t *Tamer) SetPartner(s Stats) {
	t.mu.Lock()
	t.partner = s
	t.mu.Unlock()
}

// GodMode reports whether the tamer is immune to damage rolls.
func (t *Tamer) GodMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.godMode
}

// SetGodMode toggles damage immunity.
func (t *Tamer) SetGodMode(on bool) {
	t.mu.Lock()
	t.godMode = on
	t.mu.Unlock()
}

// MagneticAura reports whether drops should be placed straight into inventory.
func (t *Tamer) MagneticAura() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.magneticAura
}

// SetMagneticAura toggles the magnetic pickup aura.
func (t *Tamer) SetMagneticAura(on bool) {
	t.mu.Lock()
	t.magneticAura = on
	t.mu.Unlock()
}

// Target returns the handler of the monster under auto-attack (0 = none).
func (t *Tamer) Target() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targetMonster
}

// SetTarget sets the auto-attack target handler.
func (t *Tamer) SetTarget(handler int32) {
	t.mu.Lock()
	t.targetMonster = handler
	t.mu.Unlock()
}

// ClearTargetIf clears the target only if it still points at handler.
// Used by GiveUp so a retargeted tamer keeps its new target.
func (t *Tamer) ClearTargetIf(handler int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.targetMonster != handler {
		return false
	}
	t.targetMonster = 0
	return true
}

// LastAttackAt returns the time of the last auto-attack swing.
func (t *Tamer) LastAttackAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastAttackAt
}

// MarkAttack records an auto-attack swing at the given time.
func (t *Tamer) MarkAttack(now time.Time) {
	t.mu.Lock()
	t.lastAttackAt = now
	t.mu.Unlock()
}

// AddDebuff applies a debuff to the tamer.
func (t *Tamer) AddDebuff(d Debuff) {
	t.mu.Lock()
	t.debuffs = append(t.debuffs, d)
	t.mu.Unlock()
}

// RefreshDebuff extends an existing debuff with the same skill id, or
// applies a fresh one. Zone debuffs re-arm through this every tick.
func (t *Tamer) RefreshDebuff(d Debuff) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.debuffs {
		if t.debuffs[i].SkillID == d.SkillID {
			t.debuffs[i].ExpiresAt = d.ExpiresAt
			return
		}
	}
	t.debuffs = append(t.debuffs, d)
}

// ExpireDebuffs removes debuffs that ran out and returns them.
func (t *Tamer) ExpireDebuffs(now time.Time) []Debuff {
	t.mu.Lock()
	defer t.mu.Unlock()
	var expired []Debuff
	kept := t.debuffs[:0]
	for _, d := range t.debuffs {
		if d.Expired(now) {
			expired = append(expired, d)
		} else {
			kept = append(kept, d)
		}
	}
	t.debuffs = kept
	return expired
}

// ApplyDamage subtracts damage from the tamer's partner health, flooring at 0.
func (t *Tamer) ApplyDamage(dmg int32) {
	t.mu.Lock()
	t.partner.HP -= dmg
	if t.partner.HP < 0 {
		t.partner.HP = 0
	}
	t.mu.Unlock()
}

// Inventory returns the tamer's item container.
func (t *Tamer) Inventory() *Inventory { return t.inventory }

// NeedsQuestItem reports whether the tamer's in-progress quests still
// need the given item, and how many.
func (t *Tamer) NeedsQuestItem(itemID int32) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.questNeeds[itemID]
}

// SetQuestNeed records how many of an item the tamer's quests still need.
func (t *Tamer) SetQuestNeed(itemID, count int32) {
	t.mu.Lock()
	if count <= 0 {
		delete(t.questNeeds, itemID)
	} else {
		t.questNeeds[itemID] = count
	}
	t.mu.Unlock()
}

// ProgressQuest decrements the needed count for an item, flooring at 0.
// Returns true if the item was actually needed.
func (t *Tamer) ProgressQuest(itemID int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	need, ok := t.questNeeds[itemID]
	if !ok || need <= 0 {
		return false
	}
	if need == 1 {
		delete(t.questNeeds, itemID)
	} else {
		t.questNeeds[itemID] = need - 1
	}
	return true
}

// TickTimers decrements the independent per-session timers and reports
// which of them fired this tick. Fired timers re-arm to their interval.
func (t *Tamer) TickTimers(buffEvery, syncEvery, saveEvery, partyEvery int) (buff, sync, save, party bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffTicks--
	t.syncTicks--
	t.saveTicks--
	t.partyTicks--
	if t.buffTicks <= 0 {
		t.buffTicks = buffEvery
		buff = true
	}
	if t.syncTicks <= 0 {
		t.syncTicks = syncEvery
		sync = true
	}
	if t.saveTicks <= 0 {
		t.saveTicks = saveEvery
		save = true
	}
	if t.partyTicks <= 0 {
		t.partyTicks = partyEvery
		party = true
	}
	return buff, sync, save, party
}
