package main

import (
	"time"

	"github.com/udisondev/dmogo/internal/game/dungeon"
	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/world"
)

// Map ids. Persistent maps carry several always-on channels; the rest
// are instanced per owning party or solo tamer.
const (
	MapFileIsland   int32 = 1
	MapServerDesert int32 = 2
	MapWindValley   int32 = 100
	MapArenaHall    int32 = 101
	MapRoyalBaseF1  int32 = 200
	MapRoyalBaseF2  int32 = 201
	MapRoyalBaseF3  int32 = 202
)

// loadMapTemplates returns the static map catalog. Spawn tables come
// from the data registry; this list only describes the maps themselves.
func loadMapTemplates() []dungeon.MapTemplate {
	return []dungeon.MapTemplate{
		{
			ID:       MapFileIsland,
			Name:     "File Island",
			Channels: 3,
			Zones: []world.ZoneRule{
				// Starter village is a no-combat area.
				{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50, SkillID: 9001, Hold: 2 * time.Second},
			},
			Shops: []world.Shop{
				{Handler: 1, Location: model.NewLocation(10, 12)},
				{Handler: 2, Location: model.NewLocation(-8, 20)},
			},
		},
		{
			ID:       MapServerDesert,
			Name:     "Server Desert",
			Channels: 2,
		},
		{
			ID:   MapWindValley,
			Name: "Wind Valley",
		},
		{
			ID:          MapArenaHall,
			Name:        "Arena Hall",
			ArenaRounds: []int8{1, 2, 3},
		},
		{
			ID:        MapRoyalBaseF1,
			Name:      "Royal Base B1",
			RoyalBase: true,
			Floor:     1,
		},
		{
			ID:        MapRoyalBaseF2,
			Name:      "Royal Base B2",
			RoyalBase: true,
			Floor:     2,
			PrevFloor: MapRoyalBaseF1,
		},
		{
			ID:        MapRoyalBaseF3,
			Name:      "Royal Base B3",
			RoyalBase: true,
			Floor:     3,
			PrevFloor: MapRoyalBaseF2,
		},
	}
}
