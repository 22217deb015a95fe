package combat

import (
	"log/slog"

	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/rng"
)

const (
	// levelGapStep is the experience cut per level the attacker stands
	// above the creature; past levelGapMax the reward is zero.
	levelGapStep = 0.03
	levelGapMax  = 30

	// jitterThreshold gates the symmetric random jitter: small rewards
	// stay exact.
	jitterThreshold = 100
	jitterSpan      = 15

	// PartyShareRate is the fraction of the base configured experience a
	// non-killing party member receives.
	PartyShareRate = 0.8
)

// StatusTable resolves level thresholds and per-level stat blocks for
// the level-up recompute.
type StatusTable interface {
	StatusForLevel(level int16) (model.Stats, bool)
	LevelForExp(exp int64, current int16) int16
}

// ScaledExp applies the level-gap multiplier to a base experience value:
// 1 − 0.03·gap for gaps up to 30 levels, 0 beyond, no penalty for
// negative gaps.
func ScaledExp(base int64, attackerLevel, creatureLevel int16) int64 {
	gap := int(attackerLevel) - int(creatureLevel)
	if gap <= 0 {
		return base
	}
	if gap > levelGapMax {
		return 0
	}
	return int64(float64(base) * (1 - levelGapStep*float64(gap)))
}

// Jitter adds a symmetric random offset to rewards above the threshold.
func Jitter(rnd *rng.Source, exp int64) int64 {
	if exp <= jitterThreshold {
		return exp
	}
	jittered := exp + int64(rnd.Range(-jitterSpan, jitterSpan))
	if jittered < 0 {
		return 0
	}
	return jittered
}

// AwardExp adds experience to a tamer, resolving level-ups against the
// status table. A level-up fully heals the tamer's stat blocks and
// recomputes them from the table; a missing status row is logged and the
// recompute is skipped for that level. Returns the number of levels
// gained.
func AwardExp(t *model.Tamer, exp int64, table StatusTable, codec model.Codec) int16 {
	if exp <= 0 {
		return 0
	}

	total := t.AddExp(exp)
	t.Session().Send(codec.ExpGain(t.ID(), exp))

	stats := t.Stats()
	oldLevel := stats.Level
	newLevel := table.LevelForExp(total, oldLevel)
	if newLevel <= oldLevel {
		return 0
	}

	fresh, ok := table.StatusForLevel(newLevel)
	if !ok {
		slog.Warn("status table missing level, keeping old stats",
			"tamer", t.Name(),
			"level", newLevel)
		stats.Level = newLevel
		stats.HP = stats.MaxHP
	} else {
		// Preserve progression state the table does not carry.
		fresh.Level = newLevel
		fresh.Attribute = stats.Attribute
		fresh.Element = stats.Element
		fresh.AttributeExp = stats.AttributeExp
		fresh.HP = fresh.MaxHP
		stats = fresh
	}
	t.SetStats(stats)

	partner := t.Partner()
	partner.HP = partner.MaxHP
	t.SetPartner(partner)

	t.Session().Send(codec.LevelUp(t))

	slog.Info("tamer leveled up",
		"tamer", t.Name(),
		"oldLevel", oldLevel,
		"newLevel", newLevel,
		"exp", total)

	return newLevel - oldLevel
}
