// Package combat holds the pure damage and experience math. Nothing in
// this package touches instance state; callers apply the outcomes.
package combat

import (
	"math"

	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
)

const (
	// lowDamageFloor replaces the base roll when attack minus defense
	// falls under half of raw attack. Keeps heavily-armored targets from
	// trivializing damage to zero.
	lowDamageFloor = 0.6

	// attributePenalty is the flat cut applied when the defender holds
	// the attribute advantage.
	attributePenalty = 0.25
	// attributeBonusCap bounds the advantage bonus earned through
	// accumulated attribute experience.
	attributeBonusCap = 0.25
	// attributeExpCap is the attribute experience total at which the
	// advantage bonus reaches its cap.
	attributeExpCap = 10000

	// elementEdge is the symmetric elemental modifier.
	elementEdge = 0.10
)

// Outcome is the result of one resolved swing or skill cast.
type Outcome struct {
	Miss    bool
	Crit    bool
	Blocked bool
	Damage  int32 // already clamped to the defender's current health
}

// Resolve computes a physical hit of attacker against defender.
// Miss is rolled first; god-mode defenders always force a miss. The
// returned damage is at least 1 and at most the defender's remaining
// health.
func Resolve(rnd *rng.Source, attacker, defender model.Stats, defenderGod bool) Outcome {
	if defenderGod || rnd.Percent(defender.MissChance) {
		return Outcome{Miss: true}
	}
	return roll(rnd, attacker, defender, attacker.Attack, attacker.Element)
}

// ResolveSkill computes a skill cast: the skill's power is added to the
// attacker's raw attack and the skill's element replaces the attacker's.
func ResolveSkill(rnd *rng.Source, attacker, defender model.Stats, power int32, element model.Element, defenderGod bool) Outcome {
	if defenderGod || rnd.Percent(defender.MissChance) {
		return Outcome{Miss: true}
	}
	if element == model.ElementNone {
		element = attacker.Element
	}
	return roll(rnd, attacker, defender, attacker.Attack+power, element)
}

func roll(rnd *rng.Source, attacker, defender model.Stats, attack int32, element model.Element) Outcome {
	base := float64(attack - defender.Defense)
	if base < float64(attack)/2 {
		base = lowDamageFloor * float64(attack)
	}

	var out Outcome

	if rnd.Percent(defender.BlockChance) {
		out.Blocked = true
		base /= 2
	}

	var critBonus float64
	if rnd.Percent(attacker.CritChance) {
		out.Crit = true
		critBonus = base * float64(attacker.CritPower) / 100
	}

	attributeTerm := attributeModifier(attacker, defender) * base
	elementTerm := elementModifier(element, defender.Element) * base

	dmg := int32(math.Floor(base + critBonus + attributeTerm + elementTerm))
	if dmg < 1 {
		dmg = 1
	}
	// Clamp to remaining health; dead targets never reach the resolver.
	if dmg > defender.HP {
		dmg = defender.HP
	}
	out.Damage = dmg
	return out
}

// attributeModifier returns the asymmetric attribute multiplier: a
// positive bonus scaled by the attacker's accumulated attribute
// experience (capped) on advantage, a flat penalty when the defender
// holds the advantage, zero otherwise.
func attributeModifier(attacker, defender model.Stats) float64 {
	if attacker.Attribute.HasAdvantage(defender.Attribute) {
		exp := attacker.AttributeExp
		if exp > attributeExpCap {
			exp = attributeExpCap
		}
		return attributeBonusCap * float64(exp) / attributeExpCap
	}
	if defender.Attribute.HasAdvantage(attacker.Attribute) {
		return -attributePenalty
	}
	return 0
}

func elementModifier(attacker, defender model.Element) float64 {
	if attacker.HasAdvantage(defender) {
		return elementEdge
	}
	if defender.HasAdvantage(attacker) {
		return -elementEdge
	}
	return 0
}
