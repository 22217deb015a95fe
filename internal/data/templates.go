// Package data holds the immutable template registries the simulation
// consumes: creature spawns, skill tables and tamer status tables. The
// registries are snapshots: the tick loop reads whatever was loaded
// last and never mutates template state.
package data

import (
	"time"

	"github.com/udisondev/dmogo/internal/model"
)

// AnyWeekday marks a spawn that is present every day of the week.
const AnyWeekday int8 = -1

// MonsterTemplate is one configured spawn on a map template.
type MonsterTemplate struct {
	ID             int32
	GeneralHandler int32
	Name           string

	Stats     model.Stats
	Reward    model.RewardConfig
	SkillPool []int32

	WalkSpeed  int32
	AggroRange int32

	SpawnX int32
	SpawnY int32
	MapID  int32

	// Weekday gates calendar-rotated spawns: AnyWeekday means always
	// present, otherwise the spawn exists only on that weekday.
	Weekday int8
	// ArenaRound binds the spawn to an arena round (0 = not arena-bound).
	// Rounds outside the map's enabled set are stripped at clone time.
	ArenaRound int8
	// Boss spawns count toward royal-base floor progression.
	Boss bool
}

// Config converts the template into the per-spawn snapshot a monster is
// built from. The reward tables are cloned by the monster itself.
func (t MonsterTemplate) Config() model.MonsterConfig {
	return model.MonsterConfig{
		TemplateID: t.ID,
		Name:       t.Name,
		Stats:      t.Stats,
		Reward:     t.Reward,
		SkillPool:  t.SkillPool,
		WalkSpeed:  t.WalkSpeed,
		AggroRange: t.AggroRange,
		Boss:       t.Boss,
	}
}

// SkillTemplate is one attack skill a creature may cast.
type SkillTemplate struct {
	ID      int32
	Name    string
	Power   int32 // added to the attacker's attack before resolution
	Element model.Element
}

// Provider is the asset/configuration collaborator surface the core
// consumes. Results are immutable snapshots valid for one tick.
type Provider interface {
	// MonstersByMap returns the configured spawns for a map template.
	MonstersByMap(mapID int32) []MonsterTemplate
	// Skill resolves a skill template by id.
	Skill(id int32) (SkillTemplate, bool)
	// StatusForLevel returns the tamer stat block for a level, used by
	// the level-up recompute.
	StatusForLevel(level int16) (model.Stats, bool)
	// LevelForExp returns the level a cumulative experience total puts a
	// tamer at, never below the current level.
	LevelForExp(exp int64, current int16) int16
	// Reload refreshes templates from the backing store. Called once per
	// scheduler iteration; failures leave the previous snapshot in place.
	Reload() error
}

// WeekdayMatches reports whether a template's weekday gate passes for
// the given day.
func (t MonsterTemplate) WeekdayMatches(day time.Weekday) bool {
	return t.Weekday == AnyWeekday || t.Weekday == int8(day)
}
