// Package testutil provides the shared test doubles: a session stub
// that records outbound packets and a codec that encodes events as
// readable tags instead of binary.
package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/udisondev/dmogo/internal/model"
)

var (
	_ model.Session = (*FakeSession)(nil)
	_ model.Codec   = TagCodec{}
)

// FakeSession records everything sent to it.
type FakeSession struct {
	id uint32

	mu   sync.Mutex
	sent []string
}

// NewFakeSession creates a recording session stub.
func NewFakeSession(id uint32) *FakeSession {
	return &FakeSession{id: id}
}

func (s *FakeSession) ID() uint32 { return s.id }

func (s *FakeSession) Send(data []byte) {
	s.mu.Lock()
	s.sent = append(s.sent, string(data))
	s.mu.Unlock()
}

// Sent returns a snapshot of what was delivered, in order.
func (s *FakeSession) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// CountPrefix returns how many delivered packets start with the tag.
func (s *FakeSession) CountPrefix(prefix string) int {
	n := 0
	for _, p := range s.Sent() {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

// Received reports whether any delivered packet starts with the tag.
func (s *FakeSession) Received(prefix string) bool {
	return s.CountPrefix(prefix) > 0
}

// Reset clears the recorded packets.
func (s *FakeSession) Reset() {
	s.mu.Lock()
	s.sent = nil
	s.mu.Unlock()
}

// TagCodec encodes every event as "name:args" so tests can assert on
// delivery without parsing binary.
type TagCodec struct{}

func (TagCodec) MonsterAppear(m *model.Monster) []byte {
	return []byte(fmt.Sprintf("monster_appear:%d", m.Handler()))
}

func (TagCodec) MonsterDisappear(handler int32) []byte {
	return []byte(fmt.Sprintf("monster_disappear:%d", handler))
}

func (TagCodec) MonsterMoveSync(m *model.Monster) []byte {
	loc := m.Location()
	return []byte(fmt.Sprintf("monster_move_sync:%d:%d:%d", m.Handler(), loc.X, loc.Y))
}

func (TagCodec) MonsterWalk(m *model.Monster, to model.Location) []byte {
	return []byte(fmt.Sprintf("monster_walk:%d:%d:%d", m.Handler(), to.X, to.Y))
}

func (TagCodec) AttackHit(attackerHandler int32, targetSession uint32, damage int32, killed bool) []byte {
	return []byte(fmt.Sprintf("attack_hit:%d:%d:%d:%v", attackerHandler, targetSession, damage, killed))
}

func (TagCodec) AttackMiss(attackerHandler int32, targetSession uint32) []byte {
	return []byte(fmt.Sprintf("attack_miss:%d:%d", attackerHandler, targetSession))
}

func (TagCodec) SkillHit(attackerHandler int32, targetSession uint32, skillID, damage int32, killed bool) []byte {
	return []byte(fmt.Sprintf("skill_hit:%d:%d:%d:%d:%v", attackerHandler, targetSession, skillID, damage, killed))
}

func (TagCodec) TamerAttack(sessionID uint32, targetHandler int32, damage int32, killed, miss bool) []byte {
	return []byte(fmt.Sprintf("tamer_attack:%d:%d:%d:%v:%v", sessionID, targetHandler, damage, killed, miss))
}

func (TagCodec) CombatOff(handler int32) []byte {
	return []byte(fmt.Sprintf("combat_off:%d", handler))
}

func (TagCodec) RemoveDebuff(handler int32, skillID int32) []byte {
	return []byte(fmt.Sprintf("remove_debuff:%d:%d", handler, skillID))
}

func (TagCodec) DropAppear(d *model.Drop) []byte {
	return []byte(fmt.Sprintf("drop_appear:%d", d.Handler()))
}

func (TagCodec) DropDisappear(handler int32) []byte {
	return []byte(fmt.Sprintf("drop_disappear:%d", handler))
}

func (TagCodec) TamerAppear(t *model.Tamer) []byte {
	return []byte(fmt.Sprintf("tamer_appear:%d", t.ID()))
}

func (TagCodec) TamerDisappear(sessionID uint32) []byte {
	return []byte(fmt.Sprintf("tamer_disappear:%d", sessionID))
}

func (TagCodec) ResourceSync(t *model.Tamer) []byte {
	return []byte(fmt.Sprintf("resource_sync:%d", t.ID()))
}

func (TagCodec) PartyPositions(p *model.Party) []byte {
	return []byte(fmt.Sprintf("party_positions:%d", p.ID()))
}

func (TagCodec) ExpGain(sessionID uint32, exp int64) []byte {
	return []byte(fmt.Sprintf("exp_gain:%d:%d", sessionID, exp))
}

func (TagCodec) LevelUp(t *model.Tamer) []byte {
	return []byte(fmt.Sprintf("level_up:%d:%d", t.ID(), t.Stats().Level))
}

func (TagCodec) ItemGain(sessionID uint32, itemID, count int32) []byte {
	return []byte(fmt.Sprintf("item_gain:%d:%d:%d", sessionID, itemID, count))
}

func (TagCodec) RaidRanking(ranks []model.DamageRank) []byte {
	parts := make([]string, 0, len(ranks))
	for _, r := range ranks {
		parts = append(parts, fmt.Sprintf("%d=%d", r.SessionID, r.Damage))
	}
	return []byte("raid_ranking:" + strings.Join(parts, ","))
}

func (TagCodec) SystemMessage(text string) []byte {
	return []byte("system_message:" + text)
}
