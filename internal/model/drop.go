package model

import (
	"sync"
	"time"
)

// DropPayload is either a currency amount or an item reference.
type DropPayload struct {
	ItemID int32 // 0 means a pure currency drop
	Count  int32
	Bits   int64
}

// Drop is a physical item lying on the ground inside one map instance.
// Drops are queued for addition/removal rather than mutated in place so
// tick iteration never invalidates.
type Drop struct {
	mu sync.Mutex

	handler   int32
	ownerID   uint32 // session with exclusive pickup rights, 0 = ownerless
	loc       Location
	payload   DropPayload
	createdAt time.Time
	expiresAt time.Time
	// ownerUntil bounds the exclusive pickup window; after it the drop
	// becomes a "lost drop" visible to everyone in range.
	ownerUntil time.Time

	picked        bool
	lostAnnounced bool
}

// NewDrop creates a ground drop owned by the given session.
func NewDrop(handler int32, ownerID uint32, loc Location, payload DropPayload, now time.Time, ttl, ownerGrace time.Duration) *Drop {
	d := &Drop{
		handler:   handler,
		ownerID:   ownerID,
		loc:       loc,
		payload:   payload,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	if ownerID != 0 {
		d.ownerUntil = now.Add(ownerGrace)
	}
	return d
}

// Handler returns the drop's wire id.
func (d *Drop) Handler() int32 { return d.handler }

// Location returns the drop position.
func (d *Drop) Location() Location { return d.loc }

// Payload returns the drop contents.
func (d *Drop) Payload() DropPayload { return d.payload }

// CreatedAt returns the creation time.
func (d *Drop) CreatedAt() time.Time { return d.createdAt }

// OwnerID returns the owning session id, or 0 once the grace period has
// elapsed (the drop is then "lost" and free for anyone).
func (d *Drop) OwnerID(now time.Time) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ownerID != 0 && now.After(d.ownerUntil) {
		return 0
	}
	return d.ownerID
}

// OriginalOwner returns the session the drop was created for, ignoring
// the grace window. Immutable after creation.
func (d *Drop) OriginalOwner() uint32 { return d.ownerID }

// Expired reports whether the drop's lifetime has elapsed.
func (d *Drop) Expired(now time.Time) bool {
	return now.After(d.expiresAt)
}

// VisibleTo reports whether the drop may be shown to a session at the
// given time: the drop has no owner, or the viewer is the owner, or the
// ownership grace period has elapsed.
func (d *Drop) VisibleTo(sessionID uint32, now time.Time) bool {
	owner := d.OwnerID(now)
	return owner == 0 || owner == sessionID
}

// BecameLost reports, exactly once, that an owned drop's grace window
// has elapsed. Later calls return false.
func (d *Drop) BecameLost(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ownerID == 0 || d.lostAnnounced || !now.After(d.ownerUntil) {
		return false
	}
	d.lostAnnounced = true
	return true
}

// TryPick claims the drop. Only the first claimer succeeds; a session
// other than the owner can only claim once the grace period is over.
func (d *Drop) TryPick(sessionID uint32, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.picked {
		return false
	}
	if d.ownerID != 0 && d.ownerID != sessionID && !now.After(d.ownerUntil) {
		return false
	}
	d.picked = true
	return true
}

// Picked reports whether the drop has been claimed.
func (d *Drop) Picked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.picked
}
