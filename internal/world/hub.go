package world

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Hub is the registry of live instances. The scheduler creates and
// sweeps instances through it; session handlers look their destination
// up through it.
type Hub struct {
	deps Deps

	mu        sync.RWMutex
	instances map[int32]*Instance

	nextID atomic.Int32
}

// NewHub creates an empty instance registry.
func NewHub(deps Deps) *Hub {
	return &Hub{
		deps:      deps,
		instances: make(map[int32]*Instance),
	}
}

// Create registers a fresh instance for a map template. ownerID is a
// party id or a tamer's persistent id for dungeons, zero for persistent
// world channels.
func (h *Hub) Create(mapID int32, channel int16, ownerID int64) *Instance {
	in := NewInstance(h.nextID.Add(1), mapID, channel, ownerID, h.deps)
	h.mu.Lock()
	h.instances[in.ID()] = in
	h.mu.Unlock()
	return in
}

// Get returns a live instance by id.
func (h *Hub) Get(id int32) *Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instances[id]
}

// ByChannel returns the persistent instance serving a map on a channel.
func (h *Hub) ByChannel(mapID int32, channel int16) *Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, in := range h.instances {
		if in.OwnerID() == 0 && in.MapID() == mapID && in.Channel() == channel {
			return in
		}
	}
	return nil
}

// ByOwner returns the dungeon instance a party or solo tamer owns on a
// map, or nil.
func (h *Hub) ByOwner(mapID int32, ownerID int64) *Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, in := range h.instances {
		if in.MapID() == mapID && in.OwnerID() == ownerID {
			return in
		}
	}
	return nil
}

// Instances returns a snapshot of every live instance.
func (h *Hub) Instances() []*Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Instance, 0, len(h.instances))
	for _, in := range h.instances {
		out = append(out, in)
	}
	return out
}

// Remove unregisters an instance.
func (h *Hub) Remove(id int32) {
	h.mu.Lock()
	delete(h.instances, id)
	h.mu.Unlock()
}

// SweepClosable removes every instance flagged closable and returns
// what was removed. Runs at the head of each scheduler iteration.
func (h *Hub) SweepClosable() []*Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	var swept []*Instance
	for id, in := range h.instances {
		if in.Closable() {
			swept = append(swept, in)
			delete(h.instances, id)
		}
	}
	return swept
}

// WaitByOwner polls for a dungeon instance requested by a session until
// the scheduler materializes it. Instance creation happens on the tick
// goroutine, so the requesting session waits here instead of creating
// the instance itself.
func (h *Hub) WaitByOwner(ctx context.Context, mapID int32, ownerID int64) (*Instance, error) {
	deadline := time.Now().Add(h.deps.Cfg.InstanceWait)
	for {
		if in := h.ByOwner(mapID, ownerID); in != nil {
			return in, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.deps.Cfg.InstancePollStep):
		}
	}
}
