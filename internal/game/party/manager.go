// Package party tracks the server's active parties and resolves
// membership by any member's session id.
package party

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/dmogo/internal/model"
)

// Registry manages all active parties on the server.
// Thread-safe: uses RWMutex for the party maps and atomic id generation.
type Registry struct {
	mu       sync.RWMutex
	parties  map[int32]*model.Party
	byMember map[uint32]int32 // session id → party id
	nextID   atomic.Int32
}

// NewRegistry creates an empty party registry.
func NewRegistry() *Registry {
	return &Registry{
		parties:  make(map[int32]*model.Party),
		byMember: make(map[uint32]int32),
	}
}

// Create creates a new party led by the given tamer.
func (r *Registry) Create(leader *model.Tamer, lootShare int32) *model.Party {
	id := r.nextID.Add(1)
	p := model.NewParty(id, leader, lootShare)

	r.mu.Lock()
	r.parties[id] = p
	r.byMember[leader.ID()] = id
	r.mu.Unlock()

	leader.SetPartyID(id)
	return p
}

// Join adds a tamer to an existing party.
func (r *Registry) Join(partyID int32, t *model.Tamer) error {
	r.mu.RLock()
	p := r.parties[partyID]
	r.mu.RUnlock()
	if p == nil {
		return ErrPartyNotFound
	}
	if err := p.AddMember(t); err != nil {
		return err
	}

	r.mu.Lock()
	r.byMember[t.ID()] = partyID
	r.mu.Unlock()

	t.SetPartyID(partyID)
	return nil
}

// Leave removes a tamer from their party. A party shrinking below two
// members is disbanded and its remaining member detached.
func (r *Registry) Leave(sessionID uint32) error {
	r.mu.Lock()
	partyID, ok := r.byMember[sessionID]
	if !ok {
		r.mu.Unlock()
		return ErrNotInParty
	}
	p := r.parties[partyID]
	delete(r.byMember, sessionID)
	r.mu.Unlock()

	if p == nil {
		return ErrPartyNotFound
	}

	if left := p.GetMember(sessionID); left != nil {
		left.SetPartyID(0)
	}

	if disband := p.RemoveMember(sessionID); disband {
		r.mu.Lock()
		delete(r.parties, partyID)
		for _, m := range p.Members() {
			delete(r.byMember, m.ID())
		}
		r.mu.Unlock()
		for _, m := range p.Members() {
			m.SetPartyID(0)
		}
	}
	return nil
}

// ByMember returns the party containing the given session id, or nil.
func (r *Registry) ByMember(sessionID uint32) *model.Party {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byMember[sessionID]
	if !ok {
		return nil
	}
	return r.parties[id]
}

// Get returns a party by id, or nil if not found.
func (r *Registry) Get(partyID int32) *model.Party {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parties[partyID]
}

// Count returns the number of active parties.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parties)
}
