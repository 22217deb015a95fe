package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDropOwnerGrace(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 7, NewLocation(5, 5), DropPayload{ItemID: 500, Count: 1}, now, time.Minute, 15*time.Second)

	assert.Equal(t, uint32(7), d.OwnerID(now))
	assert.Equal(t, uint32(7), d.OwnerID(now.Add(14*time.Second)))
	assert.Equal(t, uint32(0), d.OwnerID(now.Add(16*time.Second)), "grace elapsed, drop is lost")
	assert.Equal(t, uint32(7), d.OriginalOwner())
}

func TestDropPickOwnerExclusivity(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 7, NewLocation(0, 0), DropPayload{ItemID: 500, Count: 1}, now, time.Minute, 15*time.Second)

	assert.False(t, d.TryPick(9, now), "stranger blocked during grace")
	assert.True(t, d.TryPick(7, now), "owner picks during grace")
	assert.False(t, d.TryPick(7, now), "second claim rejected")
}

func TestDropPickAfterGraceIsFree(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 7, NewLocation(0, 0), DropPayload{Bits: 100}, now, time.Minute, 15*time.Second)

	later := now.Add(20 * time.Second)
	assert.True(t, d.TryPick(9, later))
	assert.True(t, d.Picked())
}

func TestDropOwnerlessIsImmediatelyFree(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 0, NewLocation(0, 0), DropPayload{ItemID: 500, Count: 2}, now, time.Minute, 15*time.Second)
	assert.True(t, d.VisibleTo(9, now))
	assert.True(t, d.TryPick(9, now))
}

func TestDropBecameLostFiresOnce(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 7, NewLocation(0, 0), DropPayload{ItemID: 500, Count: 1}, now, time.Minute, 15*time.Second)

	assert.False(t, d.BecameLost(now.Add(10*time.Second)), "grace still running")
	assert.True(t, d.BecameLost(now.Add(16*time.Second)))
	assert.False(t, d.BecameLost(now.Add(17*time.Second)), "transition reported once")

	free := NewDrop(2, 0, NewLocation(0, 0), DropPayload{Bits: 5}, now, time.Minute, 0)
	assert.False(t, free.BecameLost(now.Add(time.Hour)), "ownerless drops never transition")
}

func TestDropExpiry(t *testing.T) {
	now := time.Now()
	d := NewDrop(1, 0, NewLocation(0, 0), DropPayload{Bits: 1}, now, time.Minute, 0)
	assert.False(t, d.Expired(now.Add(59*time.Second)))
	assert.True(t, d.Expired(now.Add(61*time.Second)))
}
