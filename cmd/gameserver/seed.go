package main

import (
	"time"

	"github.com/udisondev/dmogo/internal/data"
	"github.com/udisondev/dmogo/internal/model"
)

// seedTemplates fills the registry with the static game data. Stats and
// tables normally come out of generated data files; this set is enough
// to bring the world up.
func seedTemplates(registry *data.Registry) {
	registry.LoadSkills([]data.SkillTemplate{
		{ID: 101, Name: "Pepper Breath", Power: 18, Element: model.ElementFire},
		{ID: 102, Name: "Blue Blaster", Power: 15, Element: model.ElementWater},
		{ID: 103, Name: "Super Thunder Strike", Power: 30, Element: model.ElementThunder},
		{ID: 104, Name: "Glacial Blast", Power: 24, Element: model.ElementIce},
	})

	registry.LoadMonsters([]data.MonsterTemplate{
		{
			ID: 1001, GeneralHandler: 70001, Name: "Kunemon",
			Stats: model.Stats{
				Level: 4, MaxHP: 120, HP: 120, Attack: 22, Defense: 8,
				CritChance: 5, CritPower: 50, BlockChance: 3, MissChance: 4,
				Attribute: model.AttributeVirus,
			},
			Reward: model.RewardConfig{
				Exp: 35,
				Drops: []model.DropEntry{
					{ItemID: 5001, Min: 1, Max: 2, Chance: 0.4},
					{ItemID: 8101, Min: 1, Max: 1, Chance: 0.6, QuestOnly: true},
				},
				Bits: model.BitsDrop{Chance: 0.7, Min: 10, Max: 40},
			},
			WalkSpeed: 4, AggroRange: 12,
			SpawnX: 80, SpawnY: 95, MapID: MapFileIsland,
			Weekday: data.AnyWeekday,
		},
		{
			ID: 1002, GeneralHandler: 70002, Name: "Meramon",
			Stats: model.Stats{
				Level: 18, MaxHP: 900, HP: 900, Attack: 85, Defense: 35,
				CritChance: 8, CritPower: 60, BlockChance: 5, MissChance: 5,
				Attribute: model.AttributeData, Element: model.ElementFire,
			},
			Reward: model.RewardConfig{
				Exp:   420,
				Drops: []model.DropEntry{{ItemID: 5010, Min: 1, Max: 1, Chance: 0.15}},
				Bits:  model.BitsDrop{Chance: 0.8, Min: 120, Max: 360},
			},
			SkillPool: []int32{101},
			WalkSpeed: 5, AggroRange: 18,
			SpawnX: -40, SpawnY: 210, MapID: MapServerDesert,
			Weekday: data.AnyWeekday,
		},
		{
			// Weekend-only spawn.
			ID: 1003, GeneralHandler: 70003, Name: "Garurumon",
			Stats: model.Stats{
				Level: 25, MaxHP: 1600, HP: 1600, Attack: 120, Defense: 55,
				CritChance: 10, CritPower: 70, BlockChance: 8, MissChance: 6,
				Attribute: model.AttributeVaccine, Element: model.ElementIce,
			},
			Reward: model.RewardConfig{
				Exp:   980,
				Drops: []model.DropEntry{{ItemID: 5020, Min: 1, Max: 1, Chance: 0.1}},
				Bits:  model.BitsDrop{Chance: 0.9, Min: 300, Max: 800},
			},
			SkillPool: []int32{104},
			WalkSpeed: 7, AggroRange: 20,
			SpawnX: 15, SpawnY: -120, MapID: MapWindValley,
			Weekday: int8(time.Saturday),
		},
		{
			ID: 2001, GeneralHandler: 71001, Name: "Andromon",
			Stats: model.Stats{
				Level: 40, MaxHP: 22000, HP: 22000, Attack: 260, Defense: 110,
				CritChance: 12, CritPower: 80, BlockChance: 10, MissChance: 8,
				Attribute: model.AttributeVaccine, Element: model.ElementSteel,
			},
			Reward: model.RewardConfig{
				Exp:  15000,
				Bits: model.BitsDrop{Chance: 1, Min: 2000, Max: 5000},
				Raid: true,
				RankDrops: [][]model.DropEntry{
					{{ItemID: 6001, Min: 1, Max: 1, Chance: 1}},
					{{ItemID: 6002, Min: 1, Max: 1, Chance: 1}},
					{{ItemID: 6003, Min: 1, Max: 1, Chance: 0.5}},
				},
			},
			SkillPool: []int32{103},
			WalkSpeed: 4, AggroRange: 25,
			SpawnX: 0, SpawnY: 0, MapID: MapRoyalBaseF1,
			Weekday: data.AnyWeekday, Boss: true,
		},
	})

	status := make(map[int16]model.Stats, 120)
	expTable := make([]int64, 0, 121)
	var cum int64
	for lvl := int16(1); lvl <= 120; lvl++ {
		status[lvl] = model.Stats{
			Level:       lvl,
			MaxHP:       100 + int32(lvl)*45,
			HP:          100 + int32(lvl)*45,
			Attack:      15 + int32(lvl)*6,
			Defense:     5 + int32(lvl)*3,
			CritChance:  5 + int16(lvl/10),
			CritPower:   50,
			BlockChance: 3 + int16(lvl/15),
			MissChance:  5,
		}
		expTable = append(expTable, cum)
		cum += int64(lvl) * 100
	}
	registry.LoadStatusTable(status)
	registry.LoadExpTable(expTable)
}
