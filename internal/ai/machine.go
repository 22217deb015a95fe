// Package ai drives the creature state machine. One Machine serves
// every monster; per-creature state lives on the monster itself, so a
// step is a pure function of (instance, monster, clock).
package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/game/combat"
	"github.com/udisondev/dmogo/internal/game/reward"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
	"github.com/udisondev/dmogo/internal/world"
)

const (
	// attackRange is the melee engagement distance in map units.
	attackRange   = 3
	attackRangeSq = attackRange * attackRange

	// wanderRadius bounds idle movement around the spawn point.
	wanderRadius = 8

	// skillChance is the probability of following a landed swing with a
	// skill cast once the rearm gate opens.
	skillChance = 0.35

	waitDelay = time.Second
	walkDelay = 500 * time.Millisecond
	ccDelay   = 500 * time.Millisecond
)

var _ world.CreatureStepper = (*Machine)(nil)

// Machine implements the per-creature behavior step.
type Machine struct {
	rnd     *rng.Source
	assets  data.Provider
	rewards *reward.Distributor
}

// New creates the shared creature state machine.
func New(rnd *rng.Source, assets data.Provider, rewards *reward.Distributor) *Machine {
	return &Machine{rnd: rnd, assets: assets, rewards: rewards}
}

// Step advances a monster whose action gate elapsed by exactly one
// state transition.
func (a *Machine) Step(inst *world.Instance, m *model.Monster, now time.Time) {
	if m.IsDead() {
		a.stepDead(inst, m, now)
		return
	}

	if m.Expired(now) {
		inst.HideMonster(m)
		m.SetAction(model.ActionDestroy)
		inst.DestroyMonster(m.Handler())
		return
	}

	if m.HasDisablingDebuff(now) {
		m.SetAction(model.ActionCrowdControl)
	}

	switch m.Action() {
	case model.ActionWait:
		a.stepWait(inst, m, now)
	case model.ActionWalk:
		a.stepWalk(inst, m, now)
	case model.ActionAttack:
		a.stepAttack(inst, m, now)
	case model.ActionUseAttackSkill:
		a.stepSkill(inst, m, now)
	case model.ActionGiveUp:
		a.stepGiveUp(inst, m, now)
	case model.ActionCrowdControl:
		a.stepCrowdControl(inst, m, now)
	default:
		m.SetAction(model.ActionWait)
		m.ScheduleNext(now, waitDelay)
	}
}

// stepDead walks the post-death chain: payout, corpse removal, then
// respawn for standard creatures or removal for summons.
func (a *Machine) stepDead(inst *world.Instance, m *model.Monster, now time.Time) {
	switch m.Action() {
	case model.ActionReward:
		a.rewards.Distribute(inst, m, now)
		inst.HideMonster(m)
		if m.Kind() == model.KindSummoned {
			m.SetAction(model.ActionDestroy)
			m.ScheduleNext(now, 0)
			return
		}
		m.SetAction(model.ActionRespawn)
		m.ScheduleNext(now, inst.Deps().Cfg.RespawnDelay)
	case model.ActionRespawn:
		m.Respawn()
		m.SetAction(model.ActionWait)
		m.ScheduleNext(now, waitDelay)
	case model.ActionDestroy:
		inst.DestroyMonster(m.Handler())
	default:
		// Death happened since the last step; run the payout immediately.
		m.SetAction(model.ActionReward)
		a.stepDead(inst, m, now)
	}
}

// stepWait scans for a session inside the aggro radius, otherwise idles
// with the occasional wander around the spawn point.
func (a *Machine) stepWait(inst *world.Instance, m *model.Monster, now time.Time) {
	if target := m.Target(); target != 0 {
		// Already provoked (hit while idle).
		m.MarkHit(now)
		m.SetAction(model.ActionWalk)
		m.ScheduleNext(now, walkDelay)
		return
	}

	aggro := m.Config().AggroRange
	if aggro > 0 {
		mLoc := m.Location()
		aggroSq := int64(aggro) * int64(aggro)
		for _, t := range inst.Sessions() {
			if t.GodMode() {
				continue
			}
			if mLoc.DistanceSquared(t.Location()) <= aggroSq {
				m.SetTarget(t.ID())
				m.MarkHit(now)
				m.SetAction(model.ActionWalk)
				m.ScheduleNext(now, walkDelay)
				return
			}
		}
	}

	if a.rnd.Chance(0.2) {
		a.wander(inst, m)
	}
	m.ScheduleNext(now, waitDelay)
}

func (a *Machine) wander(inst *world.Instance, m *model.Monster) {
	spawn := m.SpawnLocation()
	dest := model.NewLocation(
		spawn.X+a.rnd.Range(-wanderRadius, wanderRadius),
		spawn.Y+a.rnd.Range(-wanderRadius, wanderRadius),
	)
	next := m.Location().StepToward(dest, m.Config().WalkSpeed)
	m.SetLocation(next)
	inst.BroadcastMonsterViewers(m, inst.Deps().Codec.MonsterWalk(m, next))
}

// stepWalk closes distance to the target, giving up when the chase has
// gone on past the anti-kite window without landing a hit.
func (a *Machine) stepWalk(inst *world.Instance, m *model.Monster, now time.Time) {
	t := a.liveTarget(inst, m)
	if t == nil {
		m.SetAction(model.ActionGiveUp)
		m.ScheduleNext(now, 0)
		return
	}
	if now.Sub(m.LastHitAt()) > inst.Deps().Cfg.AntiKite {
		m.SetAction(model.ActionGiveUp)
		m.ScheduleNext(now, 0)
		return
	}
	if m.Location().DistanceSquared(t.Location()) <= attackRangeSq {
		m.SetAction(model.ActionAttack)
		m.ScheduleNext(now, 0)
		return
	}
	next := m.Location().StepToward(t.Location(), m.Config().WalkSpeed)
	m.SetLocation(next)
	inst.BroadcastMonsterViewers(m, inst.Deps().Codec.MonsterWalk(m, next))
	m.ScheduleNext(now, walkDelay)
}

// stepAttack lands one melee swing, possibly arming a skill cast for
// the next step.
func (a *Machine) stepAttack(inst *world.Instance, m *model.Monster, now time.Time) {
	t := a.liveTarget(inst, m)
	if t == nil || now.Sub(m.LastHitAt()) > inst.Deps().Cfg.AntiKite {
		m.SetAction(model.ActionGiveUp)
		m.ScheduleNext(now, 0)
		return
	}
	if m.Location().DistanceSquared(t.Location()) > attackRangeSq {
		m.SetAction(model.ActionWalk)
		m.ScheduleNext(now, walkDelay)
		return
	}

	codec := inst.Deps().Codec
	out := combat.Resolve(a.rnd, m.Stats(), t.Partner(), t.GodMode())
	if out.Miss {
		inst.BroadcastMonsterViewers(m, codec.AttackMiss(m.Handler(), t.ID()))
	} else {
		t.ApplyDamage(out.Damage)
		m.MarkHit(now)
		killed := t.Partner().HP <= 0
		inst.BroadcastMonsterViewers(m, codec.AttackHit(m.Handler(), t.ID(), out.Damage, killed))
		if killed {
			m.ClearTarget()
			m.SetAction(model.ActionGiveUp)
			m.ScheduleNext(now, 0)
			return
		}
	}

	if len(m.Config().SkillPool) > 0 && m.SkillReady(now, inst.Deps().Cfg.SkillRearm) && a.rnd.Chance(skillChance) {
		m.SetAction(model.ActionUseAttackSkill)
	}
	m.ScheduleNext(now, inst.Deps().Cfg.AttackCooldown)
}

// stepSkill casts one attack skill picked uniformly from the pool, then
// falls back to melee.
func (a *Machine) stepSkill(inst *world.Instance, m *model.Monster, now time.Time) {
	m.SetAction(model.ActionAttack)

	t := a.liveTarget(inst, m)
	if t == nil || now.Sub(m.LastHitAt()) > inst.Deps().Cfg.AntiKite {
		m.SetAction(model.ActionGiveUp)
		m.ScheduleNext(now, 0)
		return
	}

	pool := m.Config().SkillPool
	skillID := pool[a.rnd.IntN(len(pool))]
	skill, ok := a.assets.Skill(skillID)
	if !ok {
		slog.Warn("unknown skill in pool, cast skipped",
			"monster", m.TemplateID(),
			"skill", skillID)
		m.ScheduleNext(now, inst.Deps().Cfg.AttackCooldown)
		return
	}

	codec := inst.Deps().Codec
	out := combat.ResolveSkill(a.rnd, m.Stats(), t.Partner(), skill.Power, skill.Element, t.GodMode())
	if out.Miss {
		inst.BroadcastMonsterViewers(m, codec.AttackMiss(m.Handler(), t.ID()))
	} else {
		t.ApplyDamage(out.Damage)
		m.MarkHit(now)
		killed := t.Partner().HP <= 0
		inst.BroadcastMonsterViewers(m, codec.SkillHit(m.Handler(), t.ID(), skill.ID, out.Damage, killed))
		if killed {
			m.ClearTarget()
			m.SetAction(model.ActionGiveUp)
		}
	}
	m.ScheduleNext(now, inst.Deps().Cfg.AttackCooldown)
}

// stepGiveUp abandons the chase: combat drops on both sides, health
// restores, and the creature snaps back to its spawn point.
func (a *Machine) stepGiveUp(inst *world.Instance, m *model.Monster, now time.Time) {
	codec := inst.Deps().Codec
	inst.BroadcastMonsterViewers(m, codec.CombatOff(m.Handler()))
	for _, id := range m.Viewers() {
		if t := inst.Session(id); t != nil {
			t.ClearTargetIf(m.Handler())
		}
	}
	m.ClearTarget()
	m.RestoreHealth()
	m.SetLocation(m.SpawnLocation())
	inst.BroadcastMonsterViewers(m, codec.MonsterMoveSync(m))
	m.SetAction(model.ActionWait)
	m.ScheduleNext(now, waitDelay)
}

// stepCrowdControl holds the creature until its disabling debuffs run
// out, announcing each expiry exactly once.
func (a *Machine) stepCrowdControl(inst *world.Instance, m *model.Monster, now time.Time) {
	for _, d := range m.ExpireDebuffs(now) {
		inst.BroadcastMonsterViewers(m, inst.Deps().Codec.RemoveDebuff(m.Handler(), d.SkillID))
	}
	if m.HasDisablingDebuff(now) {
		m.ScheduleNext(now, ccDelay)
		return
	}
	if m.Target() != 0 {
		m.MarkHit(now)
		m.SetAction(model.ActionWalk)
	} else {
		m.SetAction(model.ActionWait)
	}
	m.ScheduleNext(now, ccDelay)
}

// liveTarget resolves the pursued session, clearing the target when it
// left the instance.
func (a *Machine) liveTarget(inst *world.Instance, m *model.Monster) *model.Tamer {
	t := inst.Session(m.Target())
	if t == nil {
		m.ClearTarget()
	}
	return t
}
