package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dmogo/internal/model"
	"github.com/udisondev/dmogo/internal/testutil"
)

func newTamer(id uint32) *model.Tamer {
	return model.NewTamer(testutil.NewFakeSession(id), "Mimi", 1, 1, model.NewLocation(0, 0), model.Stats{Level: 10, MaxHP: 100, HP: 100})
}

func TestRegistryCreateAndLookup(t *testing.T) {
	r := NewRegistry()
	leader := newTamer(1)

	p := r.Create(leader, model.LootShareFree)
	require.NotNil(t, p)
	assert.Equal(t, p.ID(), leader.PartyID())
	assert.Same(t, p, r.Get(p.ID()))
	assert.Same(t, p, r.ByMember(leader.ID()))
	assert.Equal(t, 1, r.Count())
	assert.Nil(t, r.ByMember(99))
}

func TestRegistryJoin(t *testing.T) {
	r := NewRegistry()
	leader := newTamer(1)
	member := newTamer(2)
	p := r.Create(leader, model.LootShareOrder)

	require.NoError(t, r.Join(p.ID(), member))
	assert.Equal(t, p.ID(), member.PartyID())
	assert.Same(t, p, r.ByMember(member.ID()))
	assert.Equal(t, 2, p.MemberCount())

	assert.ErrorIs(t, r.Join(999, newTamer(3)), ErrPartyNotFound)
}

func TestRegistryJoinFullParty(t *testing.T) {
	r := NewRegistry()
	p := r.Create(newTamer(1), model.LootShareFree)
	for id := uint32(2); id <= model.MaxPartyMembers; id++ {
		require.NoError(t, r.Join(p.ID(), newTamer(id)))
	}
	assert.Error(t, r.Join(p.ID(), newTamer(100)))
}

func TestRegistryLeave(t *testing.T) {
	r := NewRegistry()
	leader := newTamer(1)
	second := newTamer(2)
	third := newTamer(3)
	p := r.Create(leader, model.LootShareFree)
	require.NoError(t, r.Join(p.ID(), second))
	require.NoError(t, r.Join(p.ID(), third))

	require.NoError(t, r.Leave(second.ID()))
	assert.Zero(t, second.PartyID())
	assert.Nil(t, r.ByMember(second.ID()))
	assert.Equal(t, 2, p.MemberCount())
	assert.Equal(t, 1, r.Count())

	assert.ErrorIs(t, r.Leave(second.ID()), ErrNotInParty)
}

func TestRegistryDisbandBelowTwo(t *testing.T) {
	r := NewRegistry()
	leader := newTamer(1)
	second := newTamer(2)
	p := r.Create(leader, model.LootShareFree)
	require.NoError(t, r.Join(p.ID(), second))

	require.NoError(t, r.Leave(second.ID()))
	assert.Zero(t, r.Count(), "a one-member party disbands")
	assert.Nil(t, r.ByMember(leader.ID()))
	assert.Zero(t, leader.PartyID())
}

func TestRegistryLeaderLeaves(t *testing.T) {
	r := NewRegistry()
	leader := newTamer(1)
	second := newTamer(2)
	third := newTamer(3)
	p := r.Create(leader, model.LootShareFree)
	require.NoError(t, r.Join(p.ID(), second))
	require.NoError(t, r.Join(p.ID(), third))

	require.NoError(t, r.Leave(leader.ID()))
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, second.ID(), p.Leader().ID(), "leadership passes to the next member")
	assert.Same(t, p, r.ByMember(third.ID()))
}
