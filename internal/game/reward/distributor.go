package reward

import (
	"log/slog"
	"time"

	"github.com/udisondev/dmogo/internal/game/combat"
	"github.com/udisondev/dmogo/internal/game/party"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
	"github.com/udisondev/dmogo/internal/world"
)

// raidPayoutRanks caps how many damage ranks receive raid drops.
const raidPayoutRanks = 10

// RaidPointsStore persists raid contribution scores. Saves are
// fire-and-forget; the payout never waits on the database.
type RaidPointsStore interface {
	AddPoints(sessionID uint32, templateID int32, points int64)
}

// BossTracker records a boss kill toward the owner's floor progression
// and reports whether the kill cleared the floor.
type BossTracker interface {
	RecordBossKill(owner int64, mapID int32) bool
}

// Distributor resolves the payout of a dead creature: experience for
// the killer and their party, quest items for every contributor, and
// the drop table roll.
type Distributor struct {
	codec   model.Codec
	rnd     *rng.Source
	parties *party.Registry
	table   combat.StatusTable
	raids   RaidPointsStore
	bosses  BossTracker
}

// SetBossTracker attaches the floor progression tracker. Optional;
// without it boss kills pay out like any other creature.
func (d *Distributor) SetBossTracker(t BossTracker) { d.bosses = t }

// NewDistributor wires a payout resolver. raids may be nil when raid
// persistence is disabled.
func NewDistributor(codec model.Codec, rnd *rng.Source, parties *party.Registry, table combat.StatusTable, raids RaidPointsStore) *Distributor {
	return &Distributor{
		codec:   codec,
		rnd:     rnd,
		parties: parties,
		table:   table,
		raids:   raids,
	}
}

// Distribute pays out a dead monster exactly once. Calling it again for
// the same spawn is a no-op.
func (d *Distributor) Distribute(inst *world.Instance, m *model.Monster, now time.Time) {
	if !m.MarkRewarded() {
		return
	}
	reward := m.Reward()
	ranking := m.DamageRanking()

	d.questDrops(inst, m, reward, ranking)

	if m.Config().Boss && d.bosses != nil && inst.OwnerID() != 0 {
		if d.bosses.RecordBossKill(inst.OwnerID(), inst.MapID()) {
			inst.Broadcast(d.codec.SystemMessage("The path to the next floor has opened."))
		}
	}

	if reward.Raid {
		// Ranking payout replaces the general drop resolution entirely;
		// only the killer's experience is still paid.
		d.raidPayout(inst, m, reward, ranking, now)
		if killer := inst.Session(m.KilledBy()); killer != nil {
			d.awardExperience(inst, m, reward.Exp, killer)
		}
		return
	}

	killer := inst.Session(m.KilledBy())
	if killer == nil {
		// Killer left the instance between the killing blow and payout.
		// Drops fall ownerless; exp is forfeit.
		d.rollDrops(inst, m, reward.Drops, nil, now)
		d.rollBits(inst, m, reward.Bits, nil, now)
		return
	}

	d.awardExperience(inst, m, reward.Exp, killer)

	looter := d.pickLooter(inst, m, killer)
	d.rollDrops(inst, m, reward.Drops, looter, now)
	d.rollBits(inst, m, reward.Bits, looter, now)
}

// awardExperience pays the killer full level-scaled experience and each
// party member in range a reduced share. Every payment is jittered
// independently.
func (d *Distributor) awardExperience(inst *world.Instance, m *model.Monster, base int64, killer *model.Tamer) {
	creatureLevel := m.Stats().Level

	scaled := combat.ScaledExp(base, killer.Stats().Level, creatureLevel)
	combat.AwardExp(killer, combat.Jitter(d.rnd, scaled), d.table, d.codec)

	if d.parties == nil {
		return
	}
	p := d.parties.ByMember(killer.ID())
	if p == nil {
		return
	}
	for _, member := range p.Members() {
		if member.ID() == killer.ID() {
			continue
		}
		if inst.Session(member.ID()) == nil {
			continue
		}
		if !d.inShareRange(inst, member, m) {
			continue
		}
		// The share cut applies to the configured base; level scaling only
		// ever reduces the killer's own payment.
		share := int64(float64(base) * combat.PartyShareRate)
		combat.AwardExp(member, combat.Jitter(d.rnd, share), d.table, d.codec)
	}
}

func (d *Distributor) inShareRange(inst *world.Instance, t *model.Tamer, m *model.Monster) bool {
	r := int64(inst.Deps().Cfg.ExitRadius)
	return t.Location().DistanceSquared(m.Location()) <= r*r
}

// questDrops evaluates quest-only table rows against every session that
// contributed damage. Each contributor rolls independently and receives
// the item straight into the inventory.
func (d *Distributor) questDrops(inst *world.Instance, m *model.Monster, reward *model.RewardConfig, ranking []model.DamageRank) {
	for _, entry := range reward.Drops {
		if !entry.QuestOnly {
			continue
		}
		for _, rank := range ranking {
			t := inst.Session(rank.SessionID)
			if t == nil || t.NeedsQuestItem(entry.ItemID) <= 0 {
				continue
			}
			if !d.rnd.Chance(entry.Chance) {
				continue
			}
			if !t.Inventory().TryAdd(entry.ItemID, 1) {
				t.Session().Send(d.codec.SystemMessage("Your inventory is full."))
				continue
			}
			t.ProgressQuest(entry.ItemID)
			t.Session().Send(d.codec.ItemGain(t.ID(), entry.ItemID, 1))
		}
	}
}

// raidPayout announces the damage ranking and pays each of the top
// ranks from its dedicated table.
func (d *Distributor) raidPayout(inst *world.Instance, m *model.Monster, reward *model.RewardConfig, ranking []model.DamageRank, now time.Time) {
	top := ranking
	if len(top) > raidPayoutRanks {
		top = top[:raidPayoutRanks]
	}
	inst.Broadcast(d.codec.RaidRanking(top))

	for i, rank := range top {
		if d.raids != nil {
			d.raids.AddPoints(rank.SessionID, m.TemplateID(), rank.Damage)
		}
		if i >= len(reward.RankDrops) {
			continue
		}
		t := inst.Session(rank.SessionID)
		if t == nil {
			continue
		}
		d.rollDrops(inst, m, reward.RankDrops[i], t, now)
	}
}

// rollDrops evaluates non-quest table rows. Rolled items go straight to
// a magnetic-aura looter's inventory when possible, otherwise to the
// ground owned by the looter. A nil looter produces ownerless drops.
func (d *Distributor) rollDrops(inst *world.Instance, m *model.Monster, entries []model.DropEntry, looter *model.Tamer, now time.Time) {
	for _, entry := range entries {
		if entry.QuestOnly {
			continue
		}
		if !d.rnd.Chance(entry.Chance) {
			continue
		}
		count := entry.Min
		if entry.Max > entry.Min {
			count = d.rnd.Range(entry.Min, entry.Max)
		}
		if count <= 0 {
			continue
		}
		d.deliver(inst, m, looter, model.DropPayload{ItemID: entry.ItemID, Count: count}, now)
	}
}

func (d *Distributor) rollBits(inst *world.Instance, m *model.Monster, bits model.BitsDrop, looter *model.Tamer, now time.Time) {
	if bits.Max <= 0 || !d.rnd.Chance(bits.Chance) {
		return
	}
	amount := bits.Min
	if bits.Max > bits.Min {
		amount = bits.Min + d.rnd.Int64N(bits.Max-bits.Min+1)
	}
	if amount <= 0 {
		return
	}
	d.deliver(inst, m, looter, model.DropPayload{Bits: amount}, now)
}

func (d *Distributor) deliver(inst *world.Instance, m *model.Monster, looter *model.Tamer, payload model.DropPayload, now time.Time) {
	if looter != nil && looter.MagneticAura() {
		if payload.ItemID == 0 {
			looter.Inventory().AddBits(payload.Bits)
			return
		}
		if looter.Inventory().TryAdd(payload.ItemID, payload.Count) {
			looter.Session().Send(d.codec.ItemGain(looter.ID(), payload.ItemID, payload.Count))
			return
		}
		slog.Debug("magnetic pickup overflow, dropping to ground",
			"session", looter.ID(),
			"item", payload.ItemID)
	}
	var owner uint32
	if looter != nil {
		owner = looter.ID()
	}
	inst.AddDrop(owner, m.Location(), payload, now)
}

// pickLooter resolves who owns the rolled drops according to the
// killer's party loot-share mode.
func (d *Distributor) pickLooter(inst *world.Instance, m *model.Monster, killer *model.Tamer) *model.Tamer {
	if d.parties == nil {
		return killer
	}
	p := d.parties.ByMember(killer.ID())
	if p == nil || p.LootShare() == model.LootShareFree {
		return killer
	}
	var eligible []*model.Tamer
	for _, member := range p.Members() {
		if inst.Session(member.ID()) != nil && d.inShareRange(inst, member, m) {
			eligible = append(eligible, member)
		}
	}
	if len(eligible) == 0 {
		return killer
	}
	switch p.LootShare() {
	case model.LootShareRandom:
		return eligible[d.rnd.IntN(len(eligible))]
	case model.LootShareOrder:
		// Member order is stable, so cycling on the spawn handler walks
		// the party round-robin.
		return eligible[int(m.Handler())%len(eligible)]
	}
	return killer
}
