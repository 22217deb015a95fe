package data

import (
	"sync"

	"github.com/udisondev/dmogo/internal/model"
)

// Registry is an in-memory Provider. Load* replaces whole snapshots
// under the lock; readers get copies and never observe partial updates.
type Registry struct {
	mu       sync.RWMutex
	monsters map[int32][]MonsterTemplate // mapID → spawns
	skills   map[int32]SkillTemplate
	status   map[int16]model.Stats
	expTable []int64 // expTable[i] = cumulative exp required for level i+1
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		monsters: make(map[int32][]MonsterTemplate),
		skills:   make(map[int32]SkillTemplate),
		status:   make(map[int16]model.Stats),
	}
}

// LoadMonsters replaces the spawn snapshot for all maps.
func (r *Registry) LoadMonsters(templates []MonsterTemplate) {
	byMap := make(map[int32][]MonsterTemplate)
	for _, t := range templates {
		byMap[t.MapID] = append(byMap[t.MapID], t)
	}
	r.mu.Lock()
	r.monsters = byMap
	r.mu.Unlock()
}

// LoadSkills replaces the skill snapshot.
func (r *Registry) LoadSkills(skills []SkillTemplate) {
	byID := make(map[int32]SkillTemplate, len(skills))
	for _, s := range skills {
		byID[s.ID] = s
	}
	r.mu.Lock()
	r.skills = byID
	r.mu.Unlock()
}

// LoadStatusTable replaces the level→stat snapshot.
func (r *Registry) LoadStatusTable(rows map[int16]model.Stats) {
	copied := make(map[int16]model.Stats, len(rows))
	for lvl, s := range rows {
		copied[lvl] = s
	}
	r.mu.Lock()
	r.status = copied
	r.mu.Unlock()
}

// MonstersByMap returns a copy of the configured spawns for a map.
func (r *Registry) MonstersByMap(mapID int32) []MonsterTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.monsters[mapID]
	out := make([]MonsterTemplate, len(src))
	copy(out, src)
	return out
}

// Skill resolves a skill template by id.
func (r *Registry) Skill(id int32) (SkillTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skills[id]
	return s, ok
}

// StatusForLevel returns the tamer stat block for a level.
func (r *Registry) StatusForLevel(level int16) (model.Stats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.status[level]
	return s, ok
}

// LoadExpTable replaces the cumulative experience table.
// expTable[i] is the total experience required to reach level i+1.
func (r *Registry) LoadExpTable(table []int64) {
	copied := make([]int64, len(table))
	copy(copied, table)
	r.mu.Lock()
	r.expTable = copied
	r.mu.Unlock()
}

// LevelForExp returns the level a cumulative experience total puts a
// tamer at, never below the current level.
func (r *Registry) LevelForExp(exp int64, current int16) int16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	level := current
	for int(level) < len(r.expTable) && exp >= r.expTable[level] {
		level++
	}
	return level
}

// Reload is a no-op for the in-memory registry; a DB- or file-backed
// provider refreshes its snapshots here.
func (r *Registry) Reload() error { return nil }
