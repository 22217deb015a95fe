// Package world owns the live state of one playable area: sessions,
// monsters, ground drops and the per-session visibility relations. All
// mutation happens under a narrow critical section; iteration for
// decision-making runs over snapshots taken under a brief lock.
package world

import "github.com/udisondev/dmogo/internal/model"

// StillVisible is the hysteresis test shared by every visibility
// relation. An entity first becomes visible once its distance drops to
// the enter radius and stays visible until it reaches the exit radius.
// enter < exit, so entities straddling one boundary never flicker.
func StillVisible(wasVisible bool, distSq, enterSq, exitSq int64) bool {
	if wasVisible {
		return distSq < exitSq
	}
	return distSq <= enterSq
}

// viewSet is the directed "who sees what" record for one session.
type viewSet struct {
	monsters map[int32]struct{}
	drops    map[int32]struct{}
	sessions map[uint32]struct{}
	shops    map[int32]struct{}
}

func newViewSet() *viewSet {
	return &viewSet{
		monsters: make(map[int32]struct{}),
		drops:    make(map[int32]struct{}),
		sessions: make(map[uint32]struct{}),
		shops:    make(map[int32]struct{}),
	}
}

// Shop is a static vendor position on the map, tracked only for the
// session→shop visibility relation.
type Shop struct {
	Handler  int32
	Location model.Location
}
