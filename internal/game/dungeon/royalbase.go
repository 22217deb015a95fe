package dungeon

import "sync"

type floorKey struct {
	owner int64
	mapID int32
}

// RoyalBase tracks per-owner floor progression through a boss-gated map
// chain. A floor counts as cleared once every boss spawned on it for
// that owner is dead; only then does the portal to the next floor open.
type RoyalBase struct {
	mu        sync.Mutex
	remaining map[floorKey]int
	cleared   map[floorKey]bool
}

// NewRoyalBase creates an empty progression tracker.
func NewRoyalBase() *RoyalBase {
	return &RoyalBase{
		remaining: make(map[floorKey]int),
		cleared:   make(map[floorKey]bool),
	}
}

// Arm records how many bosses stand between an owner and clearing a
// floor. Called when the floor's instance is populated.
func (r *RoyalBase) Arm(owner int64, mapID int32, bosses int) {
	r.mu.Lock()
	r.remaining[floorKey{owner, mapID}] = bosses
	r.mu.Unlock()
}

// RecordBossKill decrements the floor's boss counter and reports
// whether this kill cleared the floor.
func (r *RoyalBase) RecordBossKill(owner int64, mapID int32) (cleared bool) {
	key := floorKey{owner, mapID}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.remaining[key]
	if !ok || n <= 0 {
		return false
	}
	n--
	r.remaining[key] = n
	if n == 0 {
		r.cleared[key] = true
		return true
	}
	return false
}

// Cleared reports whether the owner has cleared the floor.
func (r *RoyalBase) Cleared(owner int64, mapID int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleared[floorKey{owner, mapID}]
}

// Forget drops the boss counter for a retired instance. Clear state is
// kept so re-entry stays unlocked for the owner.
func (r *RoyalBase) Forget(owner int64, mapID int32) {
	r.mu.Lock()
	delete(r.remaining, floorKey{owner, mapID})
	r.mu.Unlock()
}
