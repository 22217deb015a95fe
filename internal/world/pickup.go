package world

import (
	"time"

	"github.com/udisondev/dmogo/internal/model"
)

// PickDrop claims a ground drop for the session and moves its payload
// into the inventory. The physical drop is only queued for removal, so
// it disappears for everyone at the tick boundary.
func (in *Instance) PickDrop(t *model.Tamer, handler int32, now time.Time) bool {
	d := in.GetDrop(handler)
	if d == nil || d.Expired(now) {
		return false
	}
	if !d.TryPick(t.ID(), now) {
		return false
	}
	codec := in.deps.Codec
	p := d.Payload()
	if p.Bits > 0 {
		t.Inventory().AddBits(p.Bits)
	}
	if p.ItemID != 0 {
		if !t.Inventory().TryAdd(p.ItemID, p.Count) {
			// Pick already latched; respawn the payload ownerless so it
			// is not silently destroyed.
			in.AddDrop(0, d.Location(), p, now)
			in.RemoveDrop(handler)
			t.Session().Send(codec.SystemMessage("Your inventory is full."))
			return false
		}
		t.Session().Send(codec.ItemGain(t.ID(), p.ItemID, p.Count))
		if t.ProgressQuest(p.ItemID) {
			t.Session().Send(codec.SystemMessage("Quest item acquired."))
		}
	}
	in.RemoveDrop(handler)
	return true
}
