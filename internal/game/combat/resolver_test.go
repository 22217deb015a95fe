package combat

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
)

// --- helpers ---

func plainAttacker(attack int32) model.Stats {
	return model.Stats{Level: 10, MaxHP: 1000, HP: 1000, Attack: attack}
}

func plainDefender(defense, hp int32) model.Stats {
	return model.Stats{Level: 10, MaxHP: hp, HP: hp, Defense: defense}
}

func testRNG() *rng.Source {
	return rng.New(42)
}

// --- Resolve ---

func TestResolveBasicDamage(t *testing.T) {
	out := Resolve(testRNG(), plainAttacker(100), plainDefender(30, 10000), false)
	if out.Miss {
		t.Fatal("unexpected miss with zero miss chance")
	}
	if out.Damage != 70 {
		t.Fatalf("damage = %d, want 70", out.Damage)
	}
}

func TestResolveLowDamageFloor(t *testing.T) {
	// attack−defense = 20, under half of raw attack → floored to 0.6×100.
	out := Resolve(testRNG(), plainAttacker(100), plainDefender(80, 10000), false)
	if out.Damage != 60 {
		t.Fatalf("damage = %d, want 60 (low damage floor)", out.Damage)
	}
}

func TestResolveGodModeAlwaysMisses(t *testing.T) {
	for i := 0; i < 50; i++ {
		out := Resolve(testRNG(), plainAttacker(100), plainDefender(0, 10000), true)
		if !out.Miss {
			t.Fatal("god mode defender must force a miss")
		}
		if out.Damage != 0 {
			t.Fatalf("miss carried damage %d", out.Damage)
		}
	}
}

func TestResolveMissChanceHundred(t *testing.T) {
	def := plainDefender(0, 10000)
	def.MissChance = 100
	out := Resolve(testRNG(), plainAttacker(100), def, false)
	if !out.Miss {
		t.Fatal("expected guaranteed miss")
	}
}

func TestResolveBlockHalvesBase(t *testing.T) {
	def := plainDefender(30, 10000)
	def.BlockChance = 100
	out := Resolve(testRNG(), plainAttacker(100), def, false)
	if !out.Blocked {
		t.Fatal("expected block with 100% block chance")
	}
	if out.Damage != 35 {
		t.Fatalf("damage = %d, want 35 (halved base)", out.Damage)
	}
}

func TestResolveCritAddsPower(t *testing.T) {
	atk := plainAttacker(100)
	atk.CritChance = 100
	atk.CritPower = 50
	out := Resolve(testRNG(), atk, plainDefender(30, 10000), false)
	if !out.Crit {
		t.Fatal("expected crit with 100% crit chance")
	}
	if out.Damage != 105 {
		t.Fatalf("damage = %d, want 105 (70 + 50%% crit power)", out.Damage)
	}
}

func TestResolveAttributeAdvantageScalesWithExp(t *testing.T) {
	cases := []struct {
		exp  int32
		want int32
	}{
		{0, 70},      // advantage earns nothing without attribute exp
		{5000, 78},   // half the cap → +12.5% → 78.75 floored
		{10000, 87},  // full cap → +25% → 87.5 floored
		{999999, 87}, // over the cap clamps
	}
	for _, tc := range cases {
		atk := plainAttacker(100)
		atk.Attribute = model.AttributeData
		atk.AttributeExp = tc.exp
		def := plainDefender(30, 10000)
		def.Attribute = model.AttributeVaccine
		out := Resolve(testRNG(), atk, def, false)
		if out.Damage != tc.want {
			t.Errorf("attribute exp %d: damage = %d, want %d", tc.exp, out.Damage, tc.want)
		}
	}
}

func TestResolveAttributeDisadvantageFlatPenalty(t *testing.T) {
	atk := plainAttacker(100)
	atk.Attribute = model.AttributeVaccine
	def := plainDefender(30, 10000)
	def.Attribute = model.AttributeData
	out := Resolve(testRNG(), atk, def, false)
	if out.Damage != 52 {
		t.Fatalf("damage = %d, want 52 (flat -25%%)", out.Damage)
	}
}

func TestResolveElementEdge(t *testing.T) {
	atk := plainAttacker(100)
	atk.Element = model.ElementFire
	def := plainDefender(30, 10000)
	def.Element = model.ElementIce
	out := Resolve(testRNG(), atk, def, false)
	if out.Damage != 77 {
		t.Fatalf("advantage damage = %d, want 77 (+10%%)", out.Damage)
	}

	// Thunder and Ice sit on unrelated edges of the chain.
	atk.Element = model.ElementThunder
	out = Resolve(testRNG(), atk, def, false)
	if out.Damage != 70 {
		t.Fatalf("neutral damage = %d, want 70", out.Damage)
	}

	// Water attacker against an Ice defender is a defender edge, not
	// neutral: Ice counters Water.
	atk.Element = model.ElementWater
	out = Resolve(testRNG(), atk, def, false)
	if out.Damage != 63 {
		t.Fatalf("countered damage = %d, want 63 (-10%%)", out.Damage)
	}

	atk.Element = model.ElementIce
	def.Element = model.ElementFire
	out = Resolve(testRNG(), atk, def, false)
	if out.Damage != 63 {
		t.Fatalf("disadvantage damage = %d, want 63 (-10%%)", out.Damage)
	}
}

func TestResolveClampedToRemainingHealth(t *testing.T) {
	out := Resolve(testRNG(), plainAttacker(100), plainDefender(30, 5), false)
	if out.Damage != 5 {
		t.Fatalf("damage = %d, want 5 (clamped to HP)", out.Damage)
	}
}

func TestResolveSkillAddsPowerAndOverridesElement(t *testing.T) {
	atk := plainAttacker(100)
	atk.Element = model.ElementIce
	def := plainDefender(30, 10000)
	def.Element = model.ElementIce
	// 130 attack − 30 defense = 100, fire skill beats ice → +10%.
	out := ResolveSkill(testRNG(), atk, def, 30, model.ElementFire, false)
	if out.Damage != 110 {
		t.Fatalf("skill damage = %d, want 110", out.Damage)
	}
}

func TestResolvePropertyDamageBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		atk := model.Stats{
			Attack:       rapid.Int32Range(1, 5000).Draw(t, "attack"),
			CritChance:   int16(rapid.IntRange(0, 100).Draw(t, "crit")),
			CritPower:    int16(rapid.IntRange(0, 200).Draw(t, "critPower")),
			Attribute:    model.Attribute(rapid.IntRange(0, 3).Draw(t, "atkAttr")),
			AttributeExp: rapid.Int32Range(0, 20000).Draw(t, "attrExp"),
			Element:      model.Element(rapid.IntRange(0, 10).Draw(t, "atkElem")),
		}
		def := model.Stats{
			HP:          rapid.Int32Range(1, 100000).Draw(t, "hp"),
			Defense:     rapid.Int32Range(0, 5000).Draw(t, "defense"),
			BlockChance: int16(rapid.IntRange(0, 100).Draw(t, "block")),
			Attribute:   model.Attribute(rapid.IntRange(0, 3).Draw(t, "defAttr")),
			Element:     model.Element(rapid.IntRange(0, 10).Draw(t, "defElem")),
		}
		seed := rapid.Uint64().Draw(t, "seed")

		out := Resolve(rng.New(seed), atk, def, false)
		if out.Miss {
			return
		}
		if out.Damage < 1 {
			t.Fatalf("damage %d below 1", out.Damage)
		}
		if out.Damage > def.HP {
			t.Fatalf("damage %d exceeds defender health %d", out.Damage, def.HP)
		}
	})
}
