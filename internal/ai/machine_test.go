package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dmogo/internal/config"
	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/game/party"
	"github.com/udisondev/dmogo/internal/game/reward"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
	"github.com/udisondev/dmogo/internal/testutil"
	"github.com/udisondev/dmogo/internal/world"
)

func newFixture(t *testing.T) (*Machine, *world.Instance) {
	t.Helper()
	rnd := rng.New(7)
	registry := data.NewRegistry()
	registry.LoadSkills([]data.SkillTemplate{
		{ID: 101, Name: "Pepper Breath", Power: 20, Element: model.ElementFire},
	})
	parties := party.NewRegistry()
	codec := testutil.TagCodec{}
	rewards := reward.NewDistributor(codec, rnd, parties, registry, nil)
	machine := New(rnd, registry, rewards)

	deps := world.Deps{
		Cfg:     config.DefaultWorld(),
		Codec:   codec,
		RNG:     rnd,
		Parties: parties,
	}
	return machine, world.NewInstance(1, 1, 1, 0, deps)
}

func joinTamer(in *world.Instance, id uint32, x, y int32) (*model.Tamer, *testutil.FakeSession) {
	sess := testutil.NewFakeSession(id)
	t := model.NewTamer(sess, "Taichi", in.MapID(), in.Channel(), model.NewLocation(x, y), model.Stats{Level: 10, MaxHP: 200, HP: 200})
	t.SetPartner(model.Stats{Level: 10, MaxHP: 150, HP: 150, Attack: 40, Defense: 5})
	in.AddSession(t)
	return t, sess
}

func spawn(in *world.Instance, kind model.MonsterKind, x, y int32, cfg model.MonsterConfig, now time.Time) *model.Monster {
	if cfg.Stats.MaxHP == 0 {
		cfg.Stats = model.Stats{Level: 8, MaxHP: 100, HP: 100, Attack: 30, Defense: 5}
	}
	if cfg.Name == "" {
		cfg.Name = "Kunemon"
		cfg.TemplateID = 1001
	}
	if cfg.WalkSpeed == 0 {
		cfg.WalkSpeed = 4
	}
	return in.AddMonster(kind, 70001, model.NewLocation(x, y), cfg, now)
}

func TestStepDeadStandardChain(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	killer, sess := joinTamer(in, 1, 0, 0)
	m := spawn(in, model.KindStandard, 2, 0, model.MonsterConfig{
		Reward: model.RewardConfig{Exp: 500},
	}, now)
	m.AddViewer(killer.ID())

	_, killed := m.ApplyDamage(killer.ID(), 100, now)
	require.True(t, killed)

	// First dead step: payout runs and the corpse is hidden.
	machine.Step(in, m, now)
	assert.True(t, sess.Received("exp_gain:1:"))
	assert.True(t, sess.Received("monster_disappear:1"))
	assert.Equal(t, model.ActionRespawn, m.Action())
	assert.False(t, m.ActionReady(now.Add(time.Second)), "respawn waits out the grace period")

	respawnAt := now.Add(in.Deps().Cfg.RespawnDelay + time.Second)
	require.True(t, m.ActionReady(respawnAt))
	machine.Step(in, m, respawnAt)
	assert.False(t, m.IsDead())
	assert.Equal(t, int32(100), m.Stats().HP)
	assert.Equal(t, model.ActionWait, m.Action())
}

func TestStepDeadSummonDestroyed(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	killer, _ := joinTamer(in, 1, 0, 0)
	m := spawn(in, model.KindSummoned, 2, 0, model.MonsterConfig{
		SummonLife: time.Minute,
		Reward:     model.RewardConfig{Exp: 50},
	}, now)

	m.ApplyDamage(killer.ID(), 100, now)
	machine.Step(in, m, now)
	assert.Equal(t, model.ActionDestroy, m.Action())
	require.True(t, m.ActionReady(now), "destruction runs on the very next step")

	machine.Step(in, m, now)
	assert.Nil(t, in.Monster(m.Handler()), "summons never respawn")
}

func TestStepSummonExpiry(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	_, sess := joinTamer(in, 1, 0, 0)
	m := spawn(in, model.KindSummoned, 2, 0, model.MonsterConfig{SummonLife: time.Minute}, now)
	m.AddViewer(1)

	machine.Step(in, m, now.Add(2*time.Minute))
	assert.Nil(t, in.Monster(m.Handler()))
	assert.True(t, sess.Received("monster_disappear:1"))
}

func TestStepWaitAggro(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	joinTamer(in, 1, 5, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{AggroRange: 12}, now)

	machine.Step(in, m, now)
	assert.Equal(t, uint32(1), m.Target())
	assert.Equal(t, model.ActionWalk, m.Action())
}

func TestStepWaitIgnoresGodMode(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, _ := joinTamer(in, 1, 5, 0)
	tm.SetGodMode(true)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{AggroRange: 12, WalkSpeed: 1}, now)

	machine.Step(in, m, now)
	assert.Equal(t, uint32(0), m.Target())
}

func TestStepWaitProvoked(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	joinTamer(in, 1, 50, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.SetTarget(1)

	machine.Step(in, m, now)
	assert.Equal(t, model.ActionWalk, m.Action())
}

func TestStepWalkChasesAndEngages(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	_, sess := joinTamer(in, 1, 10, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.MarkHit(now)
	m.SetAction(model.ActionWalk)

	machine.Step(in, m, now)
	assert.Equal(t, model.NewLocation(4, 0), m.Location())
	assert.True(t, sess.Received("monster_walk:1:4:0"))
	assert.Equal(t, model.ActionWalk, m.Action())

	machine.Step(in, m, now.Add(time.Second))
	assert.Equal(t, model.NewLocation(8, 0), m.Location())

	// Distance 2 is inside melee range: the chase turns into an attack.
	machine.Step(in, m, now.Add(2*time.Second))
	assert.Equal(t, model.NewLocation(8, 0), m.Location(), "no step once in range")
	assert.Equal(t, model.ActionAttack, m.Action())
}

func TestStepWalkGivesUpOnKiting(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 50, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.MarkHit(now.Add(-in.Deps().Cfg.AntiKite - time.Second))
	m.SetAction(model.ActionWalk)
	m.SetLocation(model.NewLocation(30, 0))
	m.ApplyDamage(tm.ID(), 40, now)
	tm.SetTarget(m.Handler())

	machine.Step(in, m, now)
	require.Equal(t, model.ActionGiveUp, m.Action())

	machine.Step(in, m, now)
	assert.True(t, sess.Received("combat_off:1"))
	assert.Equal(t, uint32(0), m.Target())
	assert.Equal(t, int32(0), tm.Target(), "viewers drop the abandoning monster as target")
	assert.Equal(t, model.NewLocation(0, 0), m.Location(), "snaps back to spawn")
	assert.Equal(t, int32(100), m.Stats().HP, "kiting damage is undone")
	assert.True(t, sess.Received("monster_move_sync:1:0:0"))
	assert.Equal(t, model.ActionWait, m.Action())
}

func TestStepAttackHits(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 2, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionAttack)

	// Attack 30 against partner defense 5, no chance stats on either side.
	machine.Step(in, m, now)
	assert.True(t, sess.Received("attack_hit:1:1:25:false"))
	assert.Equal(t, int32(125), tm.Partner().HP)
	assert.Equal(t, model.ActionAttack, m.Action())
	assert.False(t, m.ActionReady(now.Add(time.Second)), "swing arms the attack cooldown")
}

func TestStepAttackMissesGodMode(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 2, 0)
	tm.SetGodMode(true)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionAttack)

	machine.Step(in, m, now)
	assert.True(t, sess.Received("attack_miss:1:1"))
	assert.Equal(t, int32(150), tm.Partner().HP)
}

func TestStepAttackGivesUpWithoutLandingHits(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 2, 0)
	tm.SetGodMode(true)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionAttack)

	// Whiffing inside melee range never resets the anti-kite clock, so
	// the chase ends even though the monster never has to walk.
	machine.Step(in, m, now)
	assert.Equal(t, model.ActionAttack, m.Action(), "still swinging inside the window")

	stale := now.Add(in.Deps().Cfg.AntiKite + time.Second)
	machine.Step(in, m, stale)
	assert.Equal(t, model.ActionGiveUp, m.Action())

	machine.Step(in, m, stale)
	assert.True(t, sess.Received("combat_off:1"))
	assert.Zero(t, m.Target())
	assert.Equal(t, model.ActionWait, m.Action())
}

func TestStepAttackKillsPartner(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 2, 0)
	partner := tm.Partner()
	partner.HP = 10
	tm.SetPartner(partner)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionAttack)

	machine.Step(in, m, now)
	assert.True(t, sess.Received("attack_hit:1:1:10:true"))
	assert.Equal(t, int32(0), tm.Partner().HP)
	assert.Equal(t, uint32(0), m.Target())
	assert.Equal(t, model.ActionGiveUp, m.Action())
}

func TestStepSkillCast(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	tm, sess := joinTamer(in, 1, 2, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{SkillPool: []int32{101}}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionUseAttackSkill)

	// Attack 30 plus skill power 20 against partner defense 5.
	machine.Step(in, m, now)
	assert.True(t, sess.Received("skill_hit:1:1:101:45:false"))
	assert.Equal(t, int32(105), tm.Partner().HP)
	assert.Equal(t, model.ActionAttack, m.Action(), "skill cast falls back to melee")
}

func TestStepSkillUnknownSkipped(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	_, sess := joinTamer(in, 1, 2, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{SkillPool: []int32{999}}, now)
	m.AddViewer(1)
	m.SetTarget(1)
	m.SetAction(model.ActionUseAttackSkill)

	machine.Step(in, m, now)
	assert.Equal(t, 0, sess.CountPrefix("skill_hit:"))
	assert.Equal(t, 0, sess.CountPrefix("attack_hit:"))
	assert.Equal(t, model.ActionAttack, m.Action())
}

func TestStepCrowdControl(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	_, sess := joinTamer(in, 1, 50, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.AddViewer(1)
	m.AddDebuff(model.Debuff{SkillID: 300, ExpiresAt: now.Add(time.Second), Disabling: true})

	machine.Step(in, m, now)
	assert.Equal(t, model.ActionCrowdControl, m.Action())
	assert.Equal(t, 0, sess.CountPrefix("remove_debuff:"))

	freed := now.Add(2 * time.Second)
	machine.Step(in, m, freed)
	assert.Equal(t, 1, sess.CountPrefix("remove_debuff:1:300"))
	assert.Equal(t, model.ActionWait, m.Action())

	machine.Step(in, m, freed.Add(time.Second))
	assert.Equal(t, 1, sess.CountPrefix("remove_debuff:1:300"), "expiry announced exactly once")
}

func TestStepCrowdControlResumesChase(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	joinTamer(in, 1, 50, 0)
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)
	m.SetTarget(1)
	m.AddDebuff(model.Debuff{SkillID: 300, ExpiresAt: now.Add(time.Second), Disabling: true})

	machine.Step(in, m, now)
	require.Equal(t, model.ActionCrowdControl, m.Action())

	machine.Step(in, m, now.Add(2*time.Second))
	assert.Equal(t, model.ActionWalk, m.Action(), "held monsters resume the chase")
}

func TestWanderStaysNearSpawn(t *testing.T) {
	machine, in := newFixture(t)
	now := time.Now()
	m := spawn(in, model.KindStandard, 0, 0, model.MonsterConfig{}, now)

	moved := false
	for i := 0; i < 200; i++ {
		machine.Step(in, m, now.Add(time.Duration(i)*time.Second))
		loc := m.Location()
		if loc != m.SpawnLocation() {
			moved = true
		}
		assert.LessOrEqual(t, loc.X, int32(8))
		assert.GreaterOrEqual(t, loc.X, int32(-8))
		assert.LessOrEqual(t, loc.Y, int32(8))
		assert.GreaterOrEqual(t, loc.Y, int32(-8))
	}
	assert.True(t, moved, "idle monsters drift eventually")
}
