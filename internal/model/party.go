package model

import (
	"fmt"
	"sync"
)

const (
	// MaxPartyMembers is the maximum party size (leader included).
	MaxPartyMembers = 4

	// LootShareFree - whoever picks up keeps the item.
	LootShareFree = 0
	// LootShareOrder - round-robin item distribution.
	LootShareOrder = 1
	// LootShareRandom - random member receives each item.
	LootShareRandom = 2
)

// Party represents a group of tamers cooperating together.
// Thread-safe: all methods acquire the internal mutex.
type Party struct {
	mu        sync.RWMutex
	id        int32
	leader    *Tamer
	members   []*Tamer // leader is always the first element
	lootShare int32
}

// NewParty creates a party with the given leader and loot-sharing mode.
// The leader is automatically added as first member.
func NewParty(id int32, leader *Tamer, lootShare int32) *Party {
	p := &Party{
		id:        id,
		leader:    leader,
		members:   make([]*Tamer, 0, MaxPartyMembers),
		lootShare: lootShare,
	}
	p.members = append(p.members, leader)
	return p
}

// ID returns the immutable party id.
func (p *Party) ID() int32 {
	return p.id
}

// Leader returns the current party leader.
func (p *Party) Leader() *Tamer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader
}

// SetLeader changes the party leader. The new leader is swapped to slot 0.
// Caller must ensure the tamer is already a party member.
func (p *Party) SetLeader(t *Tamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leader = t
	for i, m := range p.members {
		if m.ID() == t.ID() {
			p.members[0], p.members[i] = p.members[i], p.members[0]
			break
		}
	}
}

// LootShare returns the current loot-sharing mode.
func (p *Party) LootShare() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lootShare
}

// SetLootShare changes the loot-sharing mode.
func (p *Party) SetLootShare(mode int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lootShare = mode
}

// Members returns a snapshot copy of the member slice.
// Safe to iterate without holding the lock.
func (p *Party) Members() []*Tamer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]*Tamer, len(p.members))
	copy(result, p.members)
	return result
}

// MemberCount returns the number of members in the party.
func (p *Party) MemberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// IsMember checks if a session id belongs to this party.
func (p *Party) IsMember(sessionID uint32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.members {
		if m.ID() == sessionID {
			return true
		}
	}
	return false
}

// IsLeader checks if the session id is the party leader.
func (p *Party) IsLeader(sessionID uint32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader.ID() == sessionID
}

// AddMember adds a tamer to the party.
// Returns an error if the party is full or the tamer is already a member.
func (p *Party) AddMember(t *Tamer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.members) >= MaxPartyMembers {
		return fmt.Errorf("party full (max %d members)", MaxPartyMembers)
	}
	for _, m := range p.members {
		if m.ID() == t.ID() {
			return fmt.Errorf("tamer %s already in party", t.Name())
		}
	}
	p.members = append(p.members, t)
	return nil
}

// RemoveMember removes a member by session id. If the leader leaves, the
// next slot becomes leader. Returns true when the party should be
// disbanded (fewer than 2 members remaining).
func (p *Party) RemoveMember(sessionID uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i, m := range p.members {
		if m.ID() == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	// Stable order matters for round-robin loot, no swap-delete.
	p.members = append(p.members[:idx], p.members[idx+1:]...)

	if p.leader.ID() == sessionID && len(p.members) > 0 {
		p.leader = p.members[0]
	}

	return len(p.members) < 2
}

// GetMember returns a member by session id (nil if not found).
func (p *Party) GetMember(sessionID uint32) *Tamer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.members {
		if m.ID() == sessionID {
			return m
		}
	}
	return nil
}

// MembersInRange returns members on the given map within the squared
// distance from (x, y). Used by reward sharing: only nearby members get
// their cut.
func (p *Party) MembersInRange(mapID int32, x, y int32, distSq int64) []*Tamer {
	p.mu.RLock()
	defer p.mu.RUnlock()

	center := Location{X: x, Y: y}
	result := make([]*Tamer, 0, len(p.members))
	for _, m := range p.members {
		if m.MapID() != mapID {
			continue
		}
		if m.Location().DistanceSquared(center) <= distSq {
			result = append(result, m)
		}
	}
	return result
}
