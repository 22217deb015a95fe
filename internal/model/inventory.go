package model

import "sync"

const defaultInventorySlots = 64

// ItemStack is one inventory slot.
type ItemStack struct {
	ItemID int32
	Count  int32
}

// Inventory is a bounded stack container. The core only needs enough of
// an inventory to decide whether a magnetic-aura drop fits; everything
// else (equipping, trading) lives outside the simulation layer.
type Inventory struct {
	mu    sync.Mutex
	slots int
	items []ItemStack
	bits  int64 // currency
}

// NewInventory creates an inventory with the given slot count.
func NewInventory(slots int) *Inventory {
	return &Inventory{slots: slots}
}

// TryAdd stacks count of itemID into the inventory. Returns false when no
// existing stack matches and no free slot remains; the caller then drops
// the item on the ground instead.
func (inv *Inventory) TryAdd(itemID, count int32) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i := range inv.items {
		if inv.items[i].ItemID == itemID {
			inv.items[i].Count += count
			return true
		}
	}
	if len(inv.items) >= inv.slots {
		return false
	}
	inv.items = append(inv.items, ItemStack{ItemID: itemID, Count: count})
	return true
}

// AddBits adds currency (always fits).
func (inv *Inventory) AddBits(amount int64) {
	inv.mu.Lock()
	inv.bits += amount
	inv.mu.Unlock()
}

// Bits returns the currency amount.
func (inv *Inventory) Bits() int64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.bits
}

// Count returns the total count of itemID across stacks.
func (inv *Inventory) Count(itemID int32) int32 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var total int32
	for _, it := range inv.items {
		if it.ItemID == itemID {
			total += it.Count
		}
	}
	return total
}

// FreeSlots returns the number of unused slots.
func (inv *Inventory) FreeSlots() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.slots - len(inv.items)
}
